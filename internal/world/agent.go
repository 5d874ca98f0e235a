package world

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/pkg/formats"
)

// ErrUnknownAgent is returned when an agent profile name is not configured.
var ErrUnknownAgent = errors.New("unknown agent")

// Agent is a walkability profile.
type Agent struct {
	Name    string
	CanSwim bool
}

// DefaultAgents returns the built-in profiles: a walker and a swimmer.
func DefaultAgents() []Agent {
	return []Agent{
		{Name: "walker"},
		{Name: "swimmer", CanSwim: true},
	}
}

// AgentsFromConfig converts configured profiles. An empty list yields the
// defaults.
func AgentsFromConfig(cfgs []config.AgentConfig) []Agent {
	if len(cfgs) == 0 {
		return DefaultAgents()
	}
	agents := make([]Agent, len(cfgs))
	for i, c := range cfgs {
		agents[i] = Agent{Name: c.Name, CanSwim: c.CanSwim}
	}
	return agents
}

// FindAgent looks up a profile by name.
func FindAgent(agents []Agent, name string) (Agent, error) {
	for _, a := range agents {
		if a.Name == name {
			return a, nil
		}
	}
	return Agent{}, fmt.Errorf("%w: %q", ErrUnknownAgent, name)
}

// CanEnter reports whether the agent may stand on cell.
func (a Agent) CanEnter(cell *formats.GATCell) bool {
	if cell == nil {
		return false
	}
	if cell.Type.IsWalkable() {
		return true
	}
	return a.CanSwim && cell.Type == formats.GATWater
}

// Walkable adapts a map to the searcher's per-agent predicate.
func Walkable(m *Map) pathfind.WalkableFunc[Agent] {
	return func(x, y int, agent Agent) bool {
		return agent.CanEnter(m.TileAt(x, y))
	}
}
