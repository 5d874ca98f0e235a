package world

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/pkg/formats"
	"github.com/Faultbox/gridpath/pkg/grf"
)

// mockMap builds a map from text grid rows.
func mockMap(t *testing.T, rows ...string) *Map {
	t.Helper()
	gat, err := formats.ParseTextGrid(strings.NewReader(strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("failed to build map: %v", err)
	}
	return NewMap("mock", gat)
}

func encodeGAT(t *testing.T, m *Map) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := m.GAT.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestMap_Accessors(t *testing.T) {
	m := mockMap(t,
		"..#",
		"~,.",
	)

	if m.Width() != 3 || m.Height() != 2 {
		t.Errorf("expected 3x2, got %dx%d", m.Width(), m.Height())
	}
	if !m.IsWalkable(0, 0) || m.IsWalkable(2, 0) || m.IsWalkable(0, 1) {
		t.Error("unexpected walkability")
	}
	if cell := m.TileAt(1, 1); cell == nil || cell.Type != formats.GATWalkableWater {
		t.Errorf("expected shallow water at (1,1), got %+v", cell)
	}
	if m.TileAt(3, 0) != nil || m.TileAt(0, -1) != nil {
		t.Error("expected nil out of bounds")
	}

	var empty *Map
	if empty.Width() != 0 || empty.TileAt(0, 0) != nil || empty.IsWalkable(0, 0) {
		t.Error("nil map should be empty")
	}
}

func TestManager_LoadFile(t *testing.T) {
	dir := t.TempDir()
	src := mockMap(t,
		"....",
		".##.",
		"....",
	)

	textPath := filepath.Join(dir, "town.txt")
	if err := os.WriteFile(textPath, []byte(formats.FormatTextGrid(src.GAT)), 0644); err != nil {
		t.Fatalf("failed to write text grid: %v", err)
	}
	gatPath := filepath.Join(dir, "field.GAT")
	if err := os.WriteFile(gatPath, encodeGAT(t, src), 0644); err != nil {
		t.Fatalf("failed to write gat: %v", err)
	}

	tests := []struct {
		path string
		name string
	}{
		{textPath, "town"},
		{gatPath, "field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mgr := NewManager(config.MapConfig{Path: tc.path, TileSize: 16})
			if err := mgr.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if mgr.Current().Name != tc.name {
				t.Errorf("expected name %s, got %s", tc.name, mgr.Current().Name)
			}
			if mgr.Searcher().Width() != 4 || mgr.Searcher().Height() != 3 || mgr.Searcher().TileSize() != 16 {
				t.Error("searcher not set up for the loaded map")
			}
			if !mgr.FindPath(0, 1, 3, 1, Agent{Name: "walker"}).WasFound() {
				t.Error("expected a path around the wall")
			}
		})
	}
}

func TestManager_LoadMap(t *testing.T) {
	src := mockMap(t,
		"..~..",
		"..~..",
	)

	var buf bytes.Buffer
	if err := grf.Write(&buf, map[string][]byte{"data/moat.gat": encodeGAT(t, src)}); err != nil {
		t.Fatalf("grf.Write failed: %v", err)
	}
	archivePath := filepath.Join(t.TempDir(), "maps.grf")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	mgr := NewManager(config.MapConfig{Name: "moat", Archive: archivePath, TileSize: 32})
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if mgr.Current().Width() != 5 {
		t.Errorf("expected width 5, got %d", mgr.Current().Width())
	}

	if mgr.FindPath(0, 0, 4, 0, Agent{Name: "walker"}).WasFound() {
		t.Error("walker should not cross the moat")
	}
	if !mgr.FindPath(0, 0, 4, 0, Agent{Name: "swimmer", CanSwim: true}).WasFound() {
		t.Error("swimmer should cross the moat")
	}

	if err := mgr.LoadMap("missing"); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound, got %v", err)
	}
	if err := mgr.LoadMap(""); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound for empty name, got %v", err)
	}
	if mgr.Current().Name != "moat" {
		t.Error("failed load should keep the current map")
	}
}

func TestManager_Errors(t *testing.T) {
	if err := NewManager(config.MapConfig{TileSize: 32}).Load(); !errors.Is(err, ErrNoMapSource) {
		t.Errorf("expected ErrNoMapSource, got %v", err)
	}
	if err := NewManager(config.MapConfig{TileSize: 32}).LoadMap("prontera"); !errors.Is(err, ErrNoMapSource) {
		t.Errorf("expected ErrNoMapSource, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("..\n.x\n"), 0644); err != nil {
		t.Fatalf("failed to write grid: %v", err)
	}
	if err := NewManager(config.MapConfig{Path: bad, TileSize: 32}).Load(); !errors.Is(err, formats.ErrInvalidTextGrid) {
		t.Errorf("expected ErrInvalidTextGrid, got %v", err)
	}

	if err := NewManager(config.MapConfig{TileSize: 32}).SetMap(nil); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound for nil map, got %v", err)
	}

	mgr := NewManager(config.MapConfig{TileSize: 0})
	if err := mgr.SetMap(mockMap(t, "..")); !errors.Is(err, pathfind.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero tile size, got %v", err)
	}
	if mgr.Current() != nil {
		t.Error("rejected map should not be installed")
	}
	if res := mgr.FindPath(0, 0, 1, 0, Agent{}); res.Outcome != pathfind.TargetUnreachable {
		t.Errorf("expected unreachable without a map, got %v", res.Outcome)
	}
}
