// Package viewer draws tile maps and searched paths on a terminal.
package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/internal/world"
	"github.com/Faultbox/gridpath/pkg/formats"
)

// Path markers.
const (
	RunePath   = '*'
	RuneStart  = 'S'
	RuneTarget = 'T'
)

var (
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleWater   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleShallow = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleCliff   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	stylePath    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStart   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// Options controls what part of the map is drawn.
type Options struct {
	OffsetX, OffsetY int    // Map cell drawn at the top-left corner
	Status           string // Drawn on the last row when set
}

// Render draws the map with path on top. Cells that do not fit on the screen
// are clipped.
func Render(screen tcell.Screen, m *world.Map, path []pathfind.Cell, opts Options) {
	screen.Clear()

	cols, rows := screen.Size()
	mapRows := rows
	if opts.Status != "" {
		mapRows--
	}

	for sy := 0; sy < mapRows; sy++ {
		for sx := 0; sx < cols; sx++ {
			cell := m.TileAt(sx+opts.OffsetX, sy+opts.OffsetY)
			if cell == nil {
				continue
			}
			screen.SetContent(sx, sy, formats.TypeRune(cell.Type), nil, cellStyle(cell.Type))
		}
	}

	for i, c := range path {
		r, style := RunePath, stylePath
		switch i {
		case 0:
			r, style = RuneStart, styleStart
		case len(path) - 1:
			r, style = RuneTarget, styleTarget
		}
		sx, sy := c.X-opts.OffsetX, c.Y-opts.OffsetY
		if sx < 0 || sy < 0 || sx >= cols || sy >= mapRows {
			continue
		}
		screen.SetContent(sx, sy, r, nil, style)
	}

	if opts.Status != "" {
		drawText(screen, 0, rows-1, cols, opts.Status, styleStatus)
	}
}

func cellStyle(t formats.GATCellType) tcell.Style {
	switch t {
	case formats.GATWalkable:
		return styleGround
	case formats.GATWater:
		return styleWater
	case formats.GATWalkableWater:
		return styleShallow
	case formats.GATSnipeable:
		return styleCliff
	default:
		return styleBlocked
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}

// StatusLine summarises a search result for the viewer's last row.
func StatusLine(m *world.Map, result pathfind.Result) string {
	return fmt.Sprintf(" %s %dx%d | %s | cells %d | cost %d | expanded %d | arrows scroll, q quits ",
		m.Name, m.Width(), m.Height(), result.Outcome, len(result.Cells), result.Cost, result.Expanded)
}

// Run draws the map and result, then handles input until the user quits with
// q, Esc or Ctrl-C. Arrow keys scroll. The screen must already be initialised.
func Run(screen tcell.Screen, m *world.Map, result pathfind.Result) {
	opts := Options{Status: StatusLine(m, result)}
	if len(result.Cells) > 0 {
		opts.OffsetX, opts.OffsetY = centerOn(screen, m, result.Cells[0])
	}

	for {
		Render(screen, m, result.Cells, opts)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if quits(ev) {
				return
			}
			opts.OffsetX, opts.OffsetY = scroll(ev, screen, m, opts.OffsetX, opts.OffsetY)
		}
	}
}

func quits(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || (ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0)
	}
	return false
}

func scroll(ev *tcell.EventKey, screen tcell.Screen, m *world.Map, x, y int) (int, int) {
	cols, rows := screen.Size()
	switch ev.Key() {
	case tcell.KeyLeft:
		x--
	case tcell.KeyRight:
		x++
	case tcell.KeyUp:
		y--
	case tcell.KeyDown:
		y++
	case tcell.KeyPgUp:
		y -= rows - 1
	case tcell.KeyPgDn:
		y += rows - 1
	}
	return clamp(x, 0, m.Width()-cols), clamp(y, 0, m.Height()-(rows-1))
}

func centerOn(screen tcell.Screen, m *world.Map, c pathfind.Cell) (int, int) {
	cols, rows := screen.Size()
	x := clamp(c.X-cols/2, 0, m.Width()-cols)
	y := clamp(c.Y-(rows-1)/2, 0, m.Height()-(rows-1))
	return x, y
}

// clamp keeps v in [lo, hi], with lo winning when the map is smaller than
// the screen.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
