// Package pathfind implements an 8-way A* search over a tile grid.
//
// A Searcher owns every buffer a search needs. Buffers are allocated once by
// Setup and reused: instead of clearing the per-cell grids between searches,
// each search advances a generation counter and compares cell markers against
// it, so leftovers from earlier searches read as untouched.
//
// A Searcher is not safe for concurrent use. Use one per goroutine.
package pathfind

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/logger"
)

// Move costs in fixed point (sqrt(2) ~= 1.4).
const (
	StraightCost = 10
	DiagonalCost = 14
)

const (
	// generationBase is where the marker counter starts and where it is
	// rebased to after a marker grid reset.
	generationBase = 10

	// rebaseThreshold bounds counter growth; past it the marker grid is zeroed.
	rebaseThreshold = 1_000_000
)

// Setup errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBusy            = errors.New("searcher is busy")
)

// Grid is the minimal view of a tile grid the searcher needs to size itself.
type Grid interface {
	Width() int
	Height() int
}

// Searcher runs A* searches over a fixed-size grid.
type Searcher struct {
	width    int
	height   int
	tileSize int
	stride   int

	// Per-item arrays, indexed by item ID (1-based).
	openHeap []int
	itemX    []int
	itemY    []int
	fCost    []int
	hCost    []int

	// Per-cell arrays, indexed by cellIndex.
	gCost     []int
	parentX   []int
	parentY   []int
	cellState []int

	openCount    int
	closedMarker int
	busy         bool
}

// NewSearcher creates a searcher. Call Setup or SetupGrid before searching.
func NewSearcher() *Searcher {
	return &Searcher{closedMarker: generationBase}
}

// Setup allocates working buffers for a width x height grid whose cells are
// tileSize world units wide. Any previous search state is discarded.
func (s *Searcher) Setup(width, height, tileSize int) error {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return fmt.Errorf("%w: grid %dx%d, tile size %d", ErrInvalidArgument, width, height, tileSize)
	}
	if s.busy {
		return ErrBusy
	}

	items := width*height + 2
	cells := (width + 1) * (height + 1)

	s.width = width
	s.height = height
	s.tileSize = tileSize
	s.stride = width + 1

	s.openHeap = make([]int, items)
	s.itemX = make([]int, items)
	s.itemY = make([]int, items)
	s.fCost = make([]int, items)
	s.hCost = make([]int, items)

	s.gCost = make([]int, cells)
	s.parentX = make([]int, cells)
	s.parentY = make([]int, cells)
	s.cellState = make([]int, cells)

	s.openCount = 0
	s.closedMarker = generationBase

	logger.Debug("searcher ready",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("tileSize", tileSize),
	)
	return nil
}

// SetupGrid is Setup with dimensions taken from grid.
func (s *Searcher) SetupGrid(grid Grid, tileSize int) error {
	if grid == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidArgument)
	}
	return s.Setup(grid.Width(), grid.Height(), tileSize)
}

// Ready reports whether Setup has succeeded.
func (s *Searcher) Ready() bool {
	return s.width > 0 && s.height > 0
}

// Width returns the grid width in cells.
func (s *Searcher) Width() int { return s.width }

// Height returns the grid height in cells.
func (s *Searcher) Height() int { return s.height }

// TileSize returns the cell edge length in world units.
func (s *Searcher) TileSize() int { return s.tileSize }

// InBounds reports whether (x, y) is a grid cell.
func (s *Searcher) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *Searcher) cellIndex(x, y int) int {
	return y*s.stride + x
}

// Search finds a path between two grid cells. It never panics: a panic in
// walkable or in the search itself is logged and reported as
// TargetUnreachable.
func (s *Searcher) Search(startX, startY, targetX, targetY int, walkable func(x, y int) bool) (result Result) {
	if !s.Ready() {
		logger.Warn("path search before setup")
		return unreachable()
	}
	if walkable == nil {
		logger.Warn("path search without walkability predicate")
		return unreachable()
	}
	if s.busy {
		logger.Warn("nested path search on busy searcher",
			zap.Int("startX", startX), zap.Int("startY", startY),
			zap.Int("targetX", targetX), zap.Int("targetY", targetY),
		)
		return unreachable()
	}
	if !s.InBounds(startX, startY) || !s.InBounds(targetX, targetY) {
		logger.Debug("path search out of bounds",
			zap.Int("startX", startX), zap.Int("startY", startY),
			zap.Int("targetX", targetX), zap.Int("targetY", targetY),
		)
		return unreachable()
	}

	s.busy = true
	defer func() {
		s.busy = false
		if r := recover(); r != nil {
			logger.Warn("path search aborted",
				zap.Any("panic", r),
				zap.Int("startX", startX), zap.Int("startY", startY),
				zap.Int("targetX", targetX), zap.Int("targetY", targetY),
			)
			result = unreachable()
		}
	}()

	return s.search(startX, startY, targetX, targetY, walkable)
}

// nextGeneration advances the markers for a new search.
func (s *Searcher) nextGeneration() {
	if s.closedMarker > rebaseThreshold {
		clear(s.cellState)
		s.closedMarker = generationBase
		logger.Debug("searcher markers rebased")
	}
	s.closedMarker += 2
}

func (s *Searcher) search(startX, startY, targetX, targetY int, walkable func(x, y int) bool) Result {
	if !walkable(targetX, targetY) {
		return unreachable()
	}
	if startX == targetX && startY == targetY {
		return Result{
			Outcome: TrivialAtTarget,
			Cells:   []Cell{{X: startX, Y: startY}},
		}
	}

	s.nextGeneration()
	onOpen := s.closedMarker - 1
	onClosed := s.closedMarker

	s.openCount = 0
	newID := 1
	start := s.cellIndex(startX, startY)
	s.gCost[start] = 0
	s.itemX[newID] = startX
	s.itemY[newID] = startY
	s.hCost[newID] = heuristic(startX, startY, targetX, targetY)
	s.fCost[newID] = s.hCost[newID]
	s.pushOpen(newID)
	s.cellState[start] = onOpen

	target := s.cellIndex(targetX, targetY)
	expanded := 0

	for {
		if s.openCount == 0 {
			return Result{Outcome: TargetUnreachable, Expanded: expanded}
		}

		id := s.popOpen()
		px, py := s.itemX[id], s.itemY[id]
		parent := s.cellIndex(px, py)
		s.cellState[parent] = onClosed
		expanded++

		for b := py - 1; b <= py+1; b++ {
			for a := px - 1; a <= px+1; a++ {
				if !s.InBounds(a, b) {
					continue
				}
				cell := s.cellIndex(a, b)
				if s.cellState[cell] == onClosed {
					continue
				}
				if !walkable(a, b) {
					continue
				}

				moveCost := StraightCost
				if a != px && b != py {
					// No cutting corners past a blocked orthogonal neighbour.
					if !walkable(a, py) || !walkable(px, b) {
						continue
					}
					moveCost = DiagonalCost
				}
				g := s.gCost[parent] + moveCost

				if s.cellState[cell] != onOpen {
					newID++
					s.itemX[newID] = a
					s.itemY[newID] = b
					s.gCost[cell] = g
					s.hCost[newID] = heuristic(a, b, targetX, targetY)
					s.fCost[newID] = g + s.hCost[newID]
					s.parentX[cell] = px
					s.parentY[cell] = py
					s.pushOpen(newID)
					s.cellState[cell] = onOpen
					continue
				}

				if g < s.gCost[cell] {
					s.parentX[cell] = px
					s.parentY[cell] = py
					s.gCost[cell] = g
					if slot := s.findOpenSlot(a, b); slot != 0 {
						openID := s.openHeap[slot]
						s.fCost[openID] = g + s.hCost[openID]
						s.siftUp(slot)
					}
				}
			}
		}

		// Stop as soon as the target is discovered.
		if s.cellState[target] == onOpen {
			break
		}
	}

	cells, ok := s.backtrack(startX, startY, targetX, targetY)
	if !ok {
		logger.Warn("path backtrack did not reach start",
			zap.Int("startX", startX), zap.Int("startY", startY),
			zap.Int("targetX", targetX), zap.Int("targetY", targetY),
		)
		return Result{Outcome: TargetUnreachable, Expanded: expanded}
	}

	return Result{
		Outcome:  Found,
		Cells:    cells,
		Cost:     s.gCost[target],
		Expanded: expanded,
	}
}

// backtrack follows parent links from the target to the start. The chain is
// walked twice: once to size the result, once to fill it.
func (s *Searcher) backtrack(startX, startY, targetX, targetY int) ([]Cell, bool) {
	limit := s.width * s.height

	length := 1
	x, y := targetX, targetY
	for x != startX || y != startY {
		if length > limit {
			return nil, false
		}
		i := s.cellIndex(x, y)
		x, y = s.parentX[i], s.parentY[i]
		length++
	}

	cells := make([]Cell, length)
	x, y = targetX, targetY
	for i := range cells {
		cells[i] = Cell{X: x, Y: y}
		j := s.cellIndex(x, y)
		x, y = s.parentX[j], s.parentY[j]
	}

	// Built target-first; flip to start-first.
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells, true
}

// heuristic is the Manhattan distance in move-cost units.
func heuristic(x, y, targetX, targetY int) int {
	return StraightCost * (abs(x-targetX) + abs(y-targetY))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
