package scene

import (
	"strings"
	"testing"

	"github.com/go-drift/starport/pkg/graphics"
)

var red = graphics.RGB(255, 0, 0)

func TestRasterizeFillsCoveredCells(t *testing.T) {
	grid := Rasterize([]graphics.DrawCommand{
		{Kind: graphics.DrawKindRect, Rect: graphics.RectFromLTWH(0, 0, 16, 16), Color: red, Alpha: 1},
	}, graphics.Size{Width: 32, Height: 32})

	if grid.Cols != 4 || grid.Rows != 2 {
		t.Fatalf("grid = %dx%d, want 4x2", grid.Cols, grid.Rows)
	}
	for _, c := range []struct {
		col, row int
		want     graphics.Color
	}{
		{0, 0, red}, {1, 0, red}, {2, 0, graphics.ColorBlack}, {0, 1, graphics.ColorBlack},
	} {
		if got := grid.At(c.col, c.row).BG; got != c.want {
			t.Errorf("cell (%d,%d) = %#x, want %#x", c.col, c.row, got, c.want)
		}
	}
}

func TestRasterizeBlendsAlpha(t *testing.T) {
	grid := Rasterize([]graphics.DrawCommand{
		{Kind: graphics.DrawKindRect, Rect: graphics.RectFromLTWH(0, 0, 8, 16), Color: graphics.ColorWhite, Alpha: 0.5},
	}, graphics.Size{Width: 8, Height: 16})
	if got, want := grid.At(0, 0).BG, graphics.RGB(128, 128, 128); got != want {
		t.Errorf("blended = %#x, want %#x", got, want)
	}
}

func TestRasterizeTextAndClip(t *testing.T) {
	clip := graphics.RectFromLTWH(0, 0, 16, 32)
	grid := Rasterize([]graphics.DrawCommand{
		{Kind: graphics.DrawKindText, Rect: graphics.RectFromLTWH(8, 16, 14, 13), Text: "hi", Color: graphics.ColorWhite, Alpha: 1},
		{Kind: graphics.DrawKindText, Rect: graphics.RectFromLTWH(8, 0, 14, 13), Text: "ok", Color: graphics.ColorWhite, Alpha: 1, Clip: &clip},
	}, graphics.Size{Width: 32, Height: 32})

	lines := strings.Split(grid.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != " o  " {
		t.Errorf("clipped row = %q, want %q", lines[0], " o  ")
	}
	if lines[1] != " hi " {
		t.Errorf("text row = %q, want %q", lines[1], " hi ")
	}
}

func TestRenderKeepsText(t *testing.T) {
	grid := Rasterize([]graphics.DrawCommand{
		{Kind: graphics.DrawKindRect, Rect: graphics.RectFromLTWH(0, 0, 32, 16), Color: BadgeColor, Alpha: 1},
		{Kind: graphics.DrawKindText, Rect: graphics.RectFromLTWH(0, 0, 14, 13), Text: "go", Color: graphics.ColorWhite, Alpha: 1},
	}, graphics.Size{Width: 32, Height: 16})
	if out := grid.Render(); !strings.Contains(out, "go") {
		t.Errorf("rendered output lost its text: %q", out)
	}
}
