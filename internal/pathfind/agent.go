package pathfind

// WalkableFunc reports whether an agent may stand on a cell. The agent value
// lets one searcher serve callers with different passability rules.
type WalkableFunc[C any] func(cellX, cellY int, agent C) bool

// FindPathTile searches between two grid cells on behalf of agent.
func FindPathTile[C any](s *Searcher, startX, startY, targetX, targetY int, agent C, walkable WalkableFunc[C]) Result {
	if s == nil {
		return unreachable()
	}
	var pred func(x, y int) bool
	if walkable != nil {
		pred = func(x, y int) bool { return walkable(x, y, agent) }
	}
	return s.Search(startX, startY, targetX, targetY, pred)
}

// FindPath searches between two world-space positions. Coordinates are
// divided by the tile size to get cells.
func FindPath[C any](s *Searcher, startX, startY, targetX, targetY int, agent C, walkable WalkableFunc[C]) Result {
	if s == nil || !s.Ready() {
		return unreachable()
	}
	ts := s.tileSize
	return FindPathTile(s,
		floorDiv(startX, ts), floorDiv(startY, ts),
		floorDiv(targetX, ts), floorDiv(targetY, ts),
		agent, walkable)
}

// floorDiv divides rounding towards negative infinity so negative world
// positions never land on cell 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
