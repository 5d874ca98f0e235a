// Package formats provides readers and writers for tile walkability tables.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
	ErrInvalidGATDimensions  = errors.New("invalid GAT dimensions")
)

const (
	gatMagic      = "GRAT"
	gatHeaderSize = 14
	gatCellSize   = 20

	// MaxGATDimension caps width and height of a table.
	MaxGATDimension = 4096
)

// GATVersion represents the GAT file version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DefaultGATVersion is written by Encode when a table has no version.
var DefaultGATVersion = GATVersion{Major: 1, Minor: 2}

// GATCellType represents the walkability type of a cell.
type GATCellType uint32

// Cell type constants.
const (
	GATWalkable      GATCellType = 0 // Normal walkable ground
	GATBlocked       GATCellType = 1 // Cannot walk through
	GATWater         GATCellType = 2 // Deep water, swimmers only
	GATWalkableWater GATCellType = 3 // Shore/shallow water
	GATSnipeable     GATCellType = 4 // Can attack over but not walk (cliffs)
	GATBlockedSnipe  GATCellType = 5 // Blocked but can shoot over
)

// String returns a human-readable cell type name.
func (t GATCellType) String() string {
	switch t {
	case GATWalkable:
		return "Walkable"
	case GATBlocked:
		return "Blocked"
	case GATWater:
		return "Water"
	case GATWalkableWater:
		return "Walkable+Water"
	case GATSnipeable:
		return "Snipeable"
	case GATBlockedSnipe:
		return "Blocked+Snipe"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsWalkable returns true if the cell type allows walking.
func (t GATCellType) IsWalkable() bool {
	return t == GATWalkable || t == GATWalkableWater
}

// IsBlocked returns true if the cell blocks movement.
func (t GATCellType) IsBlocked() bool {
	return t == GATBlocked || t == GATBlockedSnipe
}

// IsWater returns true if the cell contains water.
func (t GATCellType) IsWater() bool {
	return t == GATWater || t == GATWalkableWater
}

// IsSnipeable returns true if projectiles can pass over the cell.
func (t GATCellType) IsSnipeable() bool {
	return t == GATSnipeable || t == GATBlockedSnipe
}

// GATCell is a single tile.
type GATCell struct {
	// Heights contains the altitude of each corner:
	// [0] = bottom-left, [1] = bottom-right, [2] = top-left, [3] = top-right
	Heights [4]float32
	Type    GATCellType
}

// AverageHeight returns the average altitude of all four corners.
func (c *GATCell) AverageHeight() float32 {
	return (c.Heights[0] + c.Heights[1] + c.Heights[2] + c.Heights[3]) / 4.0
}

// GAT is a Ground Altitude Table: a row-major grid of typed cells.
type GAT struct {
	Version GATVersion
	Width   uint32
	Height  uint32
	Cells   []GATCell
}

// NewGAT creates a table of the given size with every cell walkable.
func NewGAT(width, height int) (*GAT, error) {
	if width <= 0 || height <= 0 || width > MaxGATDimension || height > MaxGATDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGATDimensions, width, height)
	}
	return &GAT{
		Version: DefaultGATVersion,
		Width:   uint32(width),
		Height:  uint32(height),
		Cells:   make([]GATCell, width*height),
	}, nil
}

// GetCell returns the cell at the given coordinates.
// Returns nil if coordinates are out of bounds.
func (g *GAT) GetCell(x, y int) *GATCell {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Cells[y*int(g.Width)+x]
}

// SetType changes the type of the cell at (x, y). Out of bounds is a no-op.
func (g *GAT) SetType(x, y int, t GATCellType) {
	if cell := g.GetCell(x, y); cell != nil {
		cell.Type = t
	}
}

// IsWalkable checks if the cell at (x, y) is walkable.
func (g *GAT) IsWalkable(x, y int) bool {
	cell := g.GetCell(x, y)
	if cell == nil {
		return false
	}
	return cell.Type.IsWalkable()
}

// ParseGAT parses a GAT file from raw bytes.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < gatHeaderSize {
		return nil, ErrTruncatedGATData
	}

	if string(data[0:4]) != gatMagic {
		return nil, ErrInvalidGATMagic
	}

	// Version is stored as [minor, major]
	version := GATVersion{
		Major: data[5],
		Minor: data[4],
	}

	// Cell layout is identical for 1.x through 3.x.
	if version.Major < 1 || version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, version)
	}

	width := binary.LittleEndian.Uint32(data[6:10])
	height := binary.LittleEndian.Uint32(data[10:14])
	if width == 0 || height == 0 || width > MaxGATDimension || height > MaxGATDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGATDimensions, width, height)
	}

	cellCount := int(width * height)
	if need := gatHeaderSize + cellCount*gatCellSize; len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedGATData, need, len(data))
	}

	gat := &GAT{
		Version: version,
		Width:   width,
		Height:  height,
		Cells:   make([]GATCell, cellCount),
	}

	r := bytes.NewReader(data[gatHeaderSize:])
	for i := range gat.Cells {
		if err := binary.Read(r, binary.LittleEndian, &gat.Cells[i]); err != nil {
			return nil, fmt.Errorf("parsing cell %d: %w", i, ErrTruncatedGATData)
		}
	}

	return gat, nil
}

// ParseGATFile parses a GAT file from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// Encode serializes the table in GAT format.
func (g *GAT) Encode(w io.Writer) error {
	if len(g.Cells) != int(g.Width*g.Height) {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrInvalidGATDimensions, g.Width, g.Height, len(g.Cells))
	}
	version := g.Version
	if version.Major == 0 {
		version = DefaultGATVersion
	}

	buf := bytes.NewBuffer(make([]byte, 0, gatHeaderSize+len(g.Cells)*gatCellSize))
	buf.WriteString(gatMagic)
	buf.WriteByte(version.Minor)
	buf.WriteByte(version.Major)
	_ = binary.Write(buf, binary.LittleEndian, g.Width)
	_ = binary.Write(buf, binary.LittleEndian, g.Height)
	for i := range g.Cells {
		_ = binary.Write(buf, binary.LittleEndian, &g.Cells[i])
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// CountByType returns the count of cells for each type.
func (g *GAT) CountByType() map[GATCellType]int {
	counts := make(map[GATCellType]int)
	for _, cell := range g.Cells {
		counts[cell.Type]++
	}
	return counts
}

// GetAltitudeRange returns the minimum and maximum altitude in the map.
func (g *GAT) GetAltitudeRange() (min, max float32) {
	if len(g.Cells) == 0 {
		return 0, 0
	}

	min = g.Cells[0].Heights[0]
	max = g.Cells[0].Heights[0]

	for _, cell := range g.Cells {
		for _, h := range cell.Heights {
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
	}

	return min, max
}
