package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInvalidTextGrid is returned for malformed text grids.
var ErrInvalidTextGrid = errors.New("invalid text grid")

// Text grid legend. One rune per cell, one line per row.
const (
	RuneWalkable      = '.'
	RuneBlocked       = '#'
	RuneWater         = '~'
	RuneWalkableWater = ','
	RuneSnipeable     = '^'
	RuneBlockedSnipe  = '%'
)

var runeTypes = map[rune]GATCellType{
	RuneWalkable:      GATWalkable,
	RuneBlocked:       GATBlocked,
	RuneWater:         GATWater,
	RuneWalkableWater: GATWalkableWater,
	RuneSnipeable:     GATSnipeable,
	RuneBlockedSnipe:  GATBlockedSnipe,
}

// TypeRune returns the legend rune for a cell type, '?' if it has none.
func TypeRune(t GATCellType) rune {
	for r, rt := range runeTypes {
		if rt == t {
			return r
		}
	}
	return '?'
}

// ParseTextGrid reads a text grid into a GAT with flat terrain.
// Blank lines and lines starting with ';' are skipped. All rows must have
// the same length.
func ParseTextGrid(r io.Reader) (*GAT, error) {
	var rows [][]GATCellType
	width := 0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), " \t\r")
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}

		row := make([]GATCellType, 0, len(text))
		for col, ch := range []rune(text) {
			t, ok := runeTypes[ch]
			if !ok {
				return nil, fmt.Errorf("%w: line %d column %d: unknown cell %q", ErrInvalidTextGrid, line, col+1, ch)
			}
			row = append(row, t)
		}

		if width == 0 {
			width = len(row)
		} else if len(row) != width {
			return nil, fmt.Errorf("%w: line %d has %d cells, expected %d", ErrInvalidTextGrid, line, len(row), width)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading text grid: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidTextGrid)
	}

	gat, err := NewGAT(width, len(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTextGrid, err)
	}
	for y, row := range rows {
		for x, t := range row {
			gat.Cells[y*width+x].Type = t
		}
	}
	return gat, nil
}

// ParseTextGridFile reads a text grid from disk.
func ParseTextGridFile(path string) (*GAT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text grid: %w", err)
	}
	defer f.Close()
	return ParseTextGrid(f)
}

// FormatTextGrid renders a table in the text grid legend.
func FormatTextGrid(g *GAT) string {
	var sb strings.Builder
	w := int(g.Width)
	for y := 0; y < int(g.Height); y++ {
		for x := 0; x < w; x++ {
			sb.WriteRune(TypeRune(g.Cells[y*w+x].Type))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
