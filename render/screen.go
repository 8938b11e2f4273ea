package render

import (
	"github.com/gdamore/tcell/v2"

	"dotmax/grid"
)

// DrawScreen paints g onto a tcell screen with its top-left cell at
// (x, y). Colored cells get an RGB foreground; uncolored cells inherit
// the default style. This is the embedding path for tcell applications:
// the screen's own diffing takes the place of the ANSI renderer's shadow.
func DrawScreen(s tcell.Screen, g *grid.Grid, x, y int) {
	w, h := g.Dimensions()
	sw, sh := s.Size()
	for cy := 0; cy < h; cy++ {
		row := y + cy
		if row < 0 || row >= sh {
			continue
		}
		for cx := 0; cx < w; cx++ {
			col := x + cx
			if col < 0 || col >= sw {
				continue
			}
			style := tcell.StyleDefault
			if c, ok, _ := g.GetCellColor(cx, cy); ok {
				style = style.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			}
			s.SetContent(col, row, g.CharAt(cx, cy), nil, style)
		}
	}
}
