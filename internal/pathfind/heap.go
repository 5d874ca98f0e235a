package pathfind

// The open list is a 1-based binary min-heap of item IDs stored in
// s.openHeap[1:s.openCount+1], keyed by s.fCost[id].

// pushOpen appends an item and sifts it up.
func (s *Searcher) pushOpen(id int) {
	s.openCount++
	s.openHeap[s.openCount] = id
	s.siftUp(s.openCount)
}

// popOpen removes and returns the item with the lowest F-cost.
// The caller guarantees the heap is not empty.
func (s *Searcher) popOpen() int {
	root := s.openHeap[1]
	s.openHeap[1] = s.openHeap[s.openCount]
	s.openCount--
	s.siftDown(1)
	return root
}

// siftUp swaps the item at slot m with its parent while its F-cost is lower.
func (s *Searcher) siftUp(m int) {
	for m > 1 {
		parent := m / 2
		if s.fCost[s.openHeap[m]] >= s.fCost[s.openHeap[parent]] {
			return
		}
		s.openHeap[m], s.openHeap[parent] = s.openHeap[parent], s.openHeap[m]
		m = parent
	}
}

// siftDown swaps the item at slot u with its lower-F child until heap order
// holds. Equal children resolve to the left one.
func (s *Searcher) siftDown(u int) {
	for {
		left := 2 * u
		if left > s.openCount {
			return
		}
		child := left
		if right := left + 1; right <= s.openCount && s.fCost[s.openHeap[right]] < s.fCost[s.openHeap[left]] {
			child = right
		}
		if s.fCost[s.openHeap[child]] >= s.fCost[s.openHeap[u]] {
			return
		}
		s.openHeap[u], s.openHeap[child] = s.openHeap[child], s.openHeap[u]
		u = child
	}
}

// findOpenSlot returns the heap slot holding the item at (x, y), or 0.
// Linear in the open list size.
func (s *Searcher) findOpenSlot(x, y int) int {
	for slot := 1; slot <= s.openCount; slot++ {
		id := s.openHeap[slot]
		if s.itemX[id] == x && s.itemY[id] == y {
			return slot
		}
	}
	return 0
}
