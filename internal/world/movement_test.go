package world

import (
	"testing"

	"github.com/Faultbox/gridpath/internal/pathfind"
)

func newController(t *testing.T, tileSize int, agent Agent, walker Walker, rows ...string) *MovementController {
	t.Helper()
	m := mockMap(t, rows...)
	s := pathfind.NewSearcher()
	if err := s.SetupGrid(m, tileSize); err != nil {
		t.Fatalf("SetupGrid failed: %v", err)
	}
	return NewMovementController(s, m, agent, walker)
}

// drive runs walker and controller until the path is done or steps run out.
func drive(mc *MovementController, w *PointWalker, steps int) int {
	for i := 0; i < steps; i++ {
		w.Update(100)
		mc.Update(100)
		if !mc.IsFollowingPath {
			return i
		}
	}
	return steps
}

func TestMovementController_MoveTo(t *testing.T) {
	w := NewPointWalker(5, 5)
	mc := newController(t, 10, Agent{}, w, ".....")

	res := mc.MoveTo(3, 0)
	if res.Outcome != pathfind.Found {
		t.Fatalf("expected Found, got %v", res.Outcome)
	}

	want := []pathfind.Cell{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	path := mc.Path()
	if len(path) != len(want) {
		t.Fatalf("expected %d waypoints, got %v", len(want), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("waypoint %d: expected %v, got %v", i, want[i], path[i])
		}
	}
	if !mc.IsFollowingPath || mc.PathIndex() != 1 {
		t.Errorf("expected first waypoint dispatched, index %d", mc.PathIndex())
	}
	if !w.HasDestination() {
		t.Error("walker should have a destination")
	}

	if steps := drive(mc, w, 100); steps >= 100 {
		t.Fatal("walker never finished the path")
	}
	if w.X != 35 || w.Z != 5 {
		t.Errorf("expected walker at (35,5), got (%v,%v)", w.X, w.Z)
	}
	if mc.PathIndex() != 3 {
		t.Errorf("expected all waypoints used, got %d", mc.PathIndex())
	}
}

func TestMovementController_MoveToWorld(t *testing.T) {
	w := NewPointWalker(5, 5)
	mc := newController(t, 10, Agent{}, w,
		"...",
		"...",
		"...",
	)

	res := mc.MoveToWorld(29, 21)
	if res.Outcome != pathfind.Found {
		t.Fatalf("expected Found, got %v", res.Outcome)
	}
	if last := res.Cells[len(res.Cells)-1]; last != (pathfind.Cell{X: 2, Y: 2}) {
		t.Errorf("expected target (2,2), got %v", last)
	}

	drive(mc, w, 100)
	if w.X != 25 || w.Z != 25 {
		t.Errorf("expected walker at tile center (25,25), got (%v,%v)", w.X, w.Z)
	}
}

func TestMovementController_Rejected(t *testing.T) {
	w := NewPointWalker(5, 5)
	mc := newController(t, 10, Agent{}, w, "..#~.")

	tests := []struct {
		name    string
		x, y    int
		outcome pathfind.Outcome
	}{
		{"blocked target", 2, 0, pathfind.TargetUnreachable},
		{"water for walker", 3, 0, pathfind.TargetUnreachable},
		{"behind wall", 4, 0, pathfind.TargetUnreachable},
		{"out of bounds", 9, 0, pathfind.TargetUnreachable},
		{"already there", 0, 0, pathfind.TrivialAtTarget},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if res := mc.MoveTo(tc.x, tc.y); res.Outcome != tc.outcome {
				t.Errorf("expected %v, got %v", tc.outcome, res.Outcome)
			}
			if mc.IsFollowingPath || w.HasDestination() {
				t.Error("rejected move should not start walking")
			}
		})
	}
}

func TestMovementController_SetAgent(t *testing.T) {
	w := NewPointWalker(5, 5)
	mc := newController(t, 10, Agent{}, w, ".~.")

	if mc.CanWalkTo(1, 0) {
		t.Error("walker should not enter water")
	}
	mc.SetAgent(Agent{CanSwim: true})
	if !mc.CanWalkTo(1, 0) {
		t.Error("swimmer should enter water")
	}
	if res := mc.MoveTo(2, 0); res.Outcome != pathfind.Found {
		t.Errorf("expected swimmer path, got %v", res.Outcome)
	}
	if mc.CanWalkTo(5, 0) {
		t.Error("out of bounds should not be walkable")
	}
}

func TestMovementController_ClearPath(t *testing.T) {
	w := NewPointWalker(5, 5)
	mc := newController(t, 10, Agent{}, w, "......")

	mc.MoveTo(5, 0)
	mc.ClearPath()

	if mc.IsFollowingPath || mc.Path() != nil || mc.PathIndex() != 0 {
		t.Error("ClearPath should reset path state")
	}
	if w.HasDestination() {
		t.Error("ClearPath should stop the walker")
	}

	other := NewPointWalker(15, 5)
	mc.MoveTo(5, 0)
	mc.SetWalker(other)
	if mc.IsFollowingPath || w.HasDestination() {
		t.Error("SetWalker should drop the previous path")
	}
	if res := mc.MoveTo(5, 0); len(res.Cells) == 0 || res.Cells[0] != (pathfind.Cell{X: 1, Y: 0}) {
		t.Errorf("expected search from new walker tile, got %v", res.Cells)
	}
}

func TestMovementController_NilWalker(t *testing.T) {
	mc := newController(t, 10, Agent{}, nil, "...")
	if res := mc.MoveTo(2, 0); res.Outcome != pathfind.TargetUnreachable {
		t.Errorf("expected unreachable without a walker, got %v", res.Outcome)
	}
	mc.Update(16)
	mc.ClearPath()
}

func TestMovementController_TileConversion(t *testing.T) {
	mc := newController(t, 32, Agent{}, nil, "...")

	tests := []struct {
		wx, wz float32
		tx, ty int
	}{
		{0, 0, 0, 0},
		{31.9, 32, 0, 1},
		{64, 95, 2, 2},
		{-1, -32, -1, -1},
		{-33, 0, -2, 0},
	}
	for _, tc := range tests {
		tx, ty := mc.WorldToTile(tc.wx, tc.wz)
		if tx != tc.tx || ty != tc.ty {
			t.Errorf("WorldToTile(%v,%v) = (%d,%d), expected (%d,%d)", tc.wx, tc.wz, tx, ty, tc.tx, tc.ty)
		}
	}

	if x, z := mc.TileToWorld(1, 2); x != 48 || z != 80 {
		t.Errorf("TileToWorld(1,2) = (%v,%v), expected (48,80)", x, z)
	}
}

func TestPointWalker_Update(t *testing.T) {
	w := NewPointWalker(0, 0)
	if w.Update(16) {
		t.Error("idle walker should not change")
	}

	w.SetDestination(30, 40)
	if !w.Update(100) || !w.IsMoving() {
		t.Fatal("walker should start moving")
	}
	// 150 units/s for 100ms covers 15 of the 50 units.
	if !near(w.X, 9) || !near(w.Z, 12) {
		t.Errorf("expected (9,12), got (%v,%v)", w.X, w.Z)
	}

	w.Update(1000)
	if !near(w.X, 30) || !near(w.Z, 40) {
		t.Errorf("expected walker clamped to destination, got (%v,%v)", w.X, w.Z)
	}
	w.Update(16)
	if w.HasDestination() || w.IsMoving() {
		t.Error("walker should have arrived")
	}
	if w.X != 30 || w.Z != 40 {
		t.Errorf("expected walker snapped onto destination, got (%v,%v)", w.X, w.Z)
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -0.001 && d < 0.001
}
