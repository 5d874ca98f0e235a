package world

import "math"

// Walker is anything the movement controller can steer.
type Walker interface {
	Position() (x, z float32)
	SetDestination(x, z float32)
	HasDestination() bool
	ClearDestination()
}

// Default walker tuning.
const (
	DefaultMoveSpeed        = 150.0 // Units per second
	DefaultArrivalThreshold = 5.0
)

// PointWalker moves in a straight line towards its destination at a fixed speed.
type PointWalker struct {
	X, Z float32

	Speed            float32 // Units per second
	ArrivalThreshold float32

	destX, destZ float32
	hasDest      bool
	moving       bool
}

// NewPointWalker creates a walker at the given world position.
func NewPointWalker(x, z float32) *PointWalker {
	return &PointWalker{
		X:                x,
		Z:                z,
		Speed:            DefaultMoveSpeed,
		ArrivalThreshold: DefaultArrivalThreshold,
	}
}

// Position returns the walker's world position.
func (w *PointWalker) Position() (float32, float32) {
	return w.X, w.Z
}

// SetDestination sets the point to walk to.
func (w *PointWalker) SetDestination(x, z float32) {
	w.destX = x
	w.destZ = z
	w.hasDest = true
}

// HasDestination reports whether the walker is still heading somewhere.
func (w *PointWalker) HasDestination() bool {
	return w.hasDest
}

// ClearDestination stops the walker where it is.
func (w *PointWalker) ClearDestination() {
	w.hasDest = false
	w.moving = false
}

// IsMoving reports whether the last update moved the walker.
func (w *PointWalker) IsMoving() bool {
	return w.moving
}

// Update advances the walker. deltaMs is the time since last update in
// milliseconds. Returns true if the position or state changed.
func (w *PointWalker) Update(deltaMs float32) bool {
	if !w.hasDest {
		return false
	}

	dx := w.destX - w.X
	dz := w.destZ - w.Z
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))

	if dist < w.ArrivalThreshold {
		// Snap onto the waypoint.
		w.X, w.Z = w.destX, w.destZ
		w.hasDest = false
		w.moving = false
		return true
	}

	step := w.Speed * deltaMs / 1000.0
	if step > dist {
		step = dist
	}
	w.X += dx / dist * step
	w.Z += dz / dist * step
	w.moving = true
	return true
}
