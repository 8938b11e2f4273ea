package pipeline

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"github.com/soniakeys/quant/median"

	"dotmax/grid"
)

// mapToGrid packs a binary image into braille cells. Each cell reads the
// 2×4 pixel block at (2·cx, 4·cy); ragged right and bottom edges pad with
// white, so image dimensions need not be multiples of the cell size.
// Non-monochrome color modes sample each cell's color from src, the
// resized color image the binary was derived from.
func mapToGrid(bin *Binary, src image.Image, o Options) (*grid.Grid, error) {
	cellW := (bin.Width + 1) / 2
	cellH := (bin.Height + 3) / 4
	g, err := grid.New(cellW, cellH)
	if err != nil {
		return nil, err
	}

	for y := 0; y < bin.Height; y++ {
		for x := 0; x < bin.Width; x++ {
			if bin.Pix[y*bin.Width+x] {
				if err := g.SetDot(x, y); err != nil {
					return nil, err
				}
			}
		}
	}

	if o.ColorMode == Monochrome {
		return g, nil
	}

	srcB := src.Bounds()
	for cy := 0; cy < cellH; cy++ {
		for cx := 0; cx < cellW; cx++ {
			if g.CharAt(cx, cy) == grid.BrailleBase {
				continue // blank cell, color would never show
			}
			c := blockAverage(src, srcB, cx*2, cy*4, bin.Width, bin.Height)
			if o.ColorMode == Grayscale {
				y := luma709(c.R, c.G, c.B)
				c = grid.Color{R: y, G: y, B: y}
			}
			if err := g.SetCellColor(cx, cy, c); err != nil {
				return nil, err
			}
		}
	}

	if o.ColorMode == TrueColor && o.PaletteColors > 0 {
		quantizeCellColors(g, o.PaletteColors)
	}
	return g, nil
}

// blockAverage averages the RGB values of the 2×4 pixel block with
// top-left (x0, y0), ignoring pixels past the image edge.
func blockAverage(src image.Image, b image.Rectangle, x0, y0, w, h int) grid.Color {
	var rSum, gSum, bSum, n uint32
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			x, y := x0+dx, y0+dy
			if x >= w || y >= h {
				continue
			}
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			rSum += uint32(c.R)
			gSum += uint32(c.G)
			bSum += uint32(c.B)
			n++
		}
	}
	if n == 0 {
		return grid.Color{}
	}
	return grid.Color{R: uint8(rSum / n), G: uint8(gSum / n), B: uint8(bSum / n)}
}

// quantizeCellColors snaps the grid's cell colors to a median-cut palette
// of at most n entries. A run of identically colored cells costs one SGR
// sequence in the renderer, so collapsing near-duplicate colors directly
// shrinks the differential output.
func quantizeCellColors(g *grid.Grid, n int) {
	w, h := g.Dimensions()
	cells := image.NewRGBA(image.Rect(0, 0, w, h))
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			c, ok, _ := g.GetCellColor(cx, cy)
			if !ok {
				continue
			}
			cells.SetRGBA(cx, cy, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}

	q := median.Quantizer(n)
	paletted := q.Paletted(cells)
	stddraw.Draw(paletted, cells.Bounds(), cells, image.Point{}, stddraw.Over)

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			if _, ok, _ := g.GetCellColor(cx, cy); !ok {
				continue
			}
			pc := color.RGBAModel.Convert(paletted.Palette[paletted.ColorIndexAt(cx, cy)]).(color.RGBA)
			_ = g.SetCellColor(cx, cy, grid.Color{R: pc.R, G: pc.G, B: pc.B})
		}
	}
}
