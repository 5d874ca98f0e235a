// Package world handles tile maps, the agents walking them, and movement
// along searched paths.
package world

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/logger"
	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/pkg/formats"
	"github.com/Faultbox/gridpath/pkg/grf"
)

// Map loading errors.
var (
	ErrNoMapSource = errors.New("no map source configured")
	ErrMapNotFound = errors.New("map not found")
)

// Map is a loaded tile map.
type Map struct {
	Name string

	// Walkability data
	GAT *formats.GAT
}

// NewMap wraps a tile table.
func NewMap(name string, gat *formats.GAT) *Map {
	return &Map{
		Name: name,
		GAT:  gat,
	}
}

// Width returns the map width in cells.
func (m *Map) Width() int {
	if m == nil || m.GAT == nil {
		return 0
	}
	return int(m.GAT.Width)
}

// Height returns the map height in cells.
func (m *Map) Height() int {
	if m == nil || m.GAT == nil {
		return 0
	}
	return int(m.GAT.Height)
}

// TileAt returns the cell at (x, y), or nil out of bounds.
func (m *Map) TileAt(x, y int) *formats.GATCell {
	if m == nil || m.GAT == nil {
		return nil
	}
	return m.GAT.GetCell(x, y)
}

// IsWalkable checks if a cell is walkable on foot.
func (m *Map) IsWalkable(x, y int) bool {
	if m == nil || m.GAT == nil {
		return false
	}
	return m.GAT.IsWalkable(x, y)
}

// Manager owns the current map and the searcher sized for it.
type Manager struct {
	cfg      config.MapConfig
	current  *Map
	searcher *pathfind.Searcher
}

// NewManager creates a new world manager.
func NewManager(cfg config.MapConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		searcher: pathfind.NewSearcher(),
	}
}

// Current returns the current map.
func (m *Manager) Current() *Map {
	return m.current
}

// Searcher returns the searcher set up for the current map.
func (m *Manager) Searcher() *pathfind.Searcher {
	return m.searcher
}

// TileSize returns the configured cell size in world units.
func (m *Manager) TileSize() int {
	return m.cfg.TileSize
}

// Load loads the configured map: from the archive when one is set,
// otherwise from the map file.
func (m *Manager) Load() error {
	switch {
	case m.cfg.Archive != "":
		return m.LoadMap(m.cfg.Name)
	case m.cfg.Path != "":
		return m.LoadFile(m.cfg.Path)
	default:
		return ErrNoMapSource
	}
}

// LoadMap loads data/<name>.gat from the configured archive.
func (m *Manager) LoadMap(name string) error {
	if m.cfg.Archive == "" {
		return fmt.Errorf("loading map %s: %w", name, ErrNoMapSource)
	}
	if name == "" {
		return fmt.Errorf("loading map from %s: %w: empty name", m.cfg.Archive, ErrMapNotFound)
	}

	archive, err := grf.Open(m.cfg.Archive)
	if err != nil {
		return fmt.Errorf("loading map %s: %w", name, err)
	}
	defer archive.Close()

	entry := "data/" + strings.TrimSuffix(name, ".gat") + ".gat"
	data, err := archive.Read(entry)
	if errors.Is(err, grf.ErrNotFound) {
		return fmt.Errorf("loading map %s: %w", name, ErrMapNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading map %s: %w", name, err)
	}

	gat, err := formats.ParseGAT(data)
	if err != nil {
		return fmt.Errorf("loading map %s: %w", name, err)
	}
	return m.install(NewMap(name, gat))
}

// LoadFile loads a .gat file, or a text grid for any other extension.
func (m *Manager) LoadFile(path string) error {
	var (
		gat *formats.GAT
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".gat") {
		gat, err = formats.ParseGATFile(path)
	} else {
		gat, err = formats.ParseTextGridFile(path)
	}
	if err != nil {
		return fmt.Errorf("loading map file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m.install(NewMap(name, gat))
}

// SetMap installs an already-built map.
func (m *Manager) SetMap(mp *Map) error {
	return m.install(mp)
}

func (m *Manager) install(mp *Map) error {
	if mp == nil || mp.GAT == nil {
		return fmt.Errorf("installing map: %w", ErrMapNotFound)
	}
	if err :=m.searcher.SetupGrid(mp, m.cfg.TileSize); err != nil {
		return fmt.Errorf("preparing searcher for %s: %w", mp.Name, err)
	}
	m.current = mp
	logger.Info("map loaded",
		zap.String("map", mp.Name),
		zap.Int("width", mp.Width()),
		zap.Int("height", mp.Height()),
		zap.Int("tileSize", m.cfg.TileSize),
	)
	return nil
}

// FindPath searches the current map between two cells for agent.
func (m *Manager) FindPath(startX, startY, targetX, targetY int, agent Agent) pathfind.Result {
	if m.current == nil {
		return pathfind.Result{Outcome: pathfind.TargetUnreachable}
	}
	return pathfind.FindPathTile(m.searcher, startX, startY, targetX, targetY, agent, Walkable(m.current))
}
