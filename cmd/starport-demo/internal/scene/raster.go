package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/starport/pkg/graphics"
)

// Logical pixels covered by one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Cell is one character of a rasterized frame.
type Cell struct {
	Rune rune
	FG   graphics.Color
	BG   graphics.Color
}

// Grid is a frame rasterized to terminal cells.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

// Rasterize paints commands onto a grid covering size. A rect fills every
// cell whose center it covers; text is laid out one rune per cell from the
// cell nearest its left edge, on the row containing its vertical center.
func Rasterize(commands []graphics.DrawCommand, size graphics.Size) *Grid {
	cols := int(math.Ceil(size.Width / CellWidth))
	rows := int(math.Ceil(size.Height / CellHeight))
	g := &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	for i := range g.Cells {
		g.Cells[i] = Cell{Rune: ' ', FG: graphics.ColorWhite, BG: graphics.ColorBlack}
	}
	for _, cmd := range commands {
		if !cmd.Visible() {
			continue
		}
		// Alpha already includes the color's own alpha.
		switch cmd.Kind {
		case graphics.DrawKindRect:
			g.fillRect(cmd, cmd.Alpha)
		case graphics.DrawKindText:
			g.drawText(cmd, cmd.Alpha)
		}
	}
	return g
}

// At returns the cell at col, row.
func (g *Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

func (g *Grid) fillRect(cmd graphics.DrawCommand, alpha float64) {
	for row := range g.Rows {
		for col := range g.Cols {
			center := cellCenter(col, row)
			if !covers(cmd, center) {
				continue
			}
			cell := &g.Cells[row*g.Cols+col]
			cell.BG = blend(cell.BG, cmd.Color, alpha)
			cell.Rune = ' '
		}
	}
}

func (g *Grid) drawText(cmd graphics.DrawCommand, alpha float64) {
	row := int((cmd.Rect.Top + cmd.Rect.Height()/2) / CellHeight)
	if row < 0 || row >= g.Rows {
		return
	}
	col := int(math.Round(cmd.Rect.Left / CellWidth))
	for _, r := range cmd.Text {
		if col >= g.Cols {
			return
		}
		if col >= 0 && (cmd.Clip == nil || cmd.Clip.Contains(cellCenter(col, row))) {
			cell := &g.Cells[row*g.Cols+col]
			cell.Rune = r
			cell.FG = blend(cell.BG, cmd.Color, alpha)
		}
		col++
	}
}

func cellCenter(col, row int) graphics.Offset {
	return graphics.Offset{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
}

func covers(cmd graphics.DrawCommand, p graphics.Offset) bool {
	if !cmd.Rect.Contains(p) {
		return false
	}
	return cmd.Clip == nil || cmd.Clip.Contains(p)
}

// blend composites src over dst with the given coverage.
func blend(dst, src graphics.Color, alpha float64) graphics.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	dr, dg, db := dst.Components()
	sr, sg, sb := src.Components()
	mix := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(s)*alpha + float64(d)*(1-alpha)))
	}
	return graphics.RGB(mix(dr, sr), mix(dg, sg), mix(db, sb))
}

// String returns the grid's runes, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for row := range g.Rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range g.Cols {
			b.WriteRune(g.At(col, row).Rune)
		}
	}
	return b.String()
}

// Render returns the grid with terminal colors, merging runs of cells that
// share a style.
func (g *Grid) Render() string {
	styles := make(map[[2]graphics.Color]lipgloss.Style)
	styleOf := func(c Cell) lipgloss.Style {
		key := [2]graphics.Color{c.FG, c.BG}
		if s, ok := styles[key]; ok {
			return s
		}
		s := lipgloss.NewStyle().
			Foreground(lipgloss.Color(hex(c.FG))).
			Background(lipgloss.Color(hex(c.BG)))
		styles[key] = s
		return s
	}

	var b strings.Builder
	for row := range g.Rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		start := g.At(0, row)
		for col := range g.Cols {
			cell := g.At(col, row)
			if cell.FG != start.FG || cell.BG != start.BG {
				b.WriteString(styleOf(start).Render(run.String()))
				run.Reset()
				start = cell
			}
			run.WriteRune(cell.Rune)
		}
		b.WriteString(styleOf(start).Render(run.String()))
	}
	return b.String()
}

func hex(c graphics.Color) string {
	r, g, b := c.Components()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
