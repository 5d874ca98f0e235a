package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/logger"
	"github.com/Faultbox/gridpath/internal/pathfind"
)

// MovementController walks a Walker along searched paths, one waypoint at a time.
type MovementController struct {
	searcher *pathfind.Searcher
	world    *Map
	agent    Agent
	walker   Walker
	tileSize float32

	// Current path, without the start cell
	path      []pathfind.Cell
	pathIndex int

	// Movement state
	IsFollowingPath bool
}

// NewMovementController creates a new movement controller. The searcher must
// already be set up for m.
func NewMovementController(searcher *pathfind.Searcher, m *Map, agent Agent, walker Walker) *MovementController {
	mc := &MovementController{
		searcher: searcher,
		world:    m,
		agent:    agent,
		walker:   walker,
		tileSize: 1,
	}
	if searcher != nil && searcher.Ready() {
		mc.tileSize = float32(searcher.TileSize())
	}
	return mc
}

// SetWalker sets the walker to control.
func (mc *MovementController) SetWalker(walker Walker) {
	mc.ClearPath()
	mc.walker = walker
}

// SetAgent changes the walkability profile used by later searches.
func (mc *MovementController) SetAgent(agent Agent) {
	mc.agent = agent
}

// MoveTo searches from the walker's current tile to the destination tile and
// starts following the path. Returns the search result.
func (mc *MovementController) MoveTo(destTileX, destTileY int) pathfind.Result {
	if mc.walker == nil || mc.searcher == nil || mc.world == nil {
		return pathfind.Result{Outcome: pathfind.TargetUnreachable}
	}

	x, z := mc.walker.Position()
	currentTileX, currentTileY := mc.WorldToTile(x, z)

	result := pathfind.FindPathTile(mc.searcher, currentTileX, currentTileY, destTileX, destTileY, mc.agent, Walkable(mc.world))
	if result.Outcome != pathfind.Found {
		logger.Debug("move rejected",
			zap.String("outcome", result.Outcome.String()),
			zap.Int("fromX", currentTileX), zap.Int("fromY", currentTileY),
			zap.Int("toX", destTileX), zap.Int("toY", destTileY),
		)
		if result.Outcome == pathfind.TrivialAtTarget {
			mc.ClearPath()
		}
		return result
	}

	mc.path = result.Cells[1:]
	mc.pathIndex = 0
	mc.IsFollowingPath = true

	mc.setNextWaypoint()

	return result
}

// MoveToWorld attempts to move to a world position.
func (mc *MovementController) MoveToWorld(worldX, worldZ float32) pathfind.Result {
	tileX, tileY := mc.WorldToTile(worldX, worldZ)
	return mc.MoveTo(tileX, tileY)
}

// Update feeds the next waypoint once the walker has reached the current one.
// deltaMs is the time since last update in milliseconds.
func (mc *MovementController) Update(deltaMs float32) {
	if mc.walker == nil || !mc.IsFollowingPath {
		return
	}

	if mc.walker.HasDestination() {
		return
	}

	if mc.pathIndex < len(mc.path) {
		mc.setNextWaypoint()
		return
	}

	mc.IsFollowingPath = false
}

// ClearPath stops the current path following.
func (mc *MovementController) ClearPath() {
	mc.path = nil
	mc.pathIndex = 0
	mc.IsFollowingPath = false
	if mc.walker != nil {
		mc.walker.ClearDestination()
	}
}

// Path returns the current path.
func (mc *MovementController) Path() []pathfind.Cell {
	return mc.path
}

// PathIndex returns the number of waypoints handed to the walker so far.
func (mc *MovementController) PathIndex() int {
	return mc.pathIndex
}

func (mc *MovementController) setNextWaypoint() {
	if mc.pathIndex >= len(mc.path) {
		return
	}

	waypoint := mc.path[mc.pathIndex]
	worldX, worldZ := mc.TileToWorld(waypoint.X, waypoint.Y)
	mc.walker.SetDestination(worldX, worldZ)
	mc.pathIndex++
}

// CanWalkTo checks if the controlled agent may stand on a tile.
func (mc *MovementController) CanWalkTo(tileX, tileY int) bool {
	if mc.world == nil {
		return false
	}
	return mc.agent.CanEnter(mc.world.TileAt(tileX, tileY))
}

// WorldToTile converts world coordinates to tile coordinates.
func (mc *MovementController) WorldToTile(worldX, worldZ float32) (int, int) {
	return floorTile(worldX, mc.tileSize), floorTile(worldZ, mc.tileSize)
}

// TileToWorld converts tile coordinates to world coordinates (center of tile).
func (mc *MovementController) TileToWorld(tileX, tileY int) (float32, float32) {
	return (float32(tileX) + 0.5) * mc.tileSize, (float32(tileY) + 0.5) * mc.tileSize
}

func floorTile(v, tileSize float32) int {
	t := int(v / tileSize)
	if v < 0 && float32(t)*tileSize != v {
		t--
	}
	return t
}
