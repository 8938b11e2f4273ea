package pipeline

import (
	"image"
	"image/color"
	"testing"

	"dotmax/grid"
)

func TestMapToGridPacksBlocks(t *testing.T) {
	// 4×8 binary → 2×2 cells; ink the full left column of the top-left
	// cell plus the bottom-right dot of the bottom-right cell.
	bin := newBinary(4, 8)
	for y := 0; y < 4; y++ {
		bin.set(0, y, true)
	}
	bin.set(3, 7, true)

	g, err := mapToGrid(bin, image.NewRGBA(image.Rect(0, 0, 4, 8)), Default())
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	if w, h := g.Dimensions(); w != 2 || h != 2 {
		t.Fatalf("grid dimensions %dx%d, want 2x2", w, h)
	}
	// Left column = bits 0,1,2,6 → pattern 0x47.
	if got := g.CharAt(0, 0); got != 0x2847 {
		t.Fatalf("cell (0,0) = %U, want U+2847", got)
	}
	// Bottom-right dot = bit 7 → pattern 0x80.
	if got := g.CharAt(1, 1); got != 0x2880 {
		t.Fatalf("cell (1,1) = %U, want U+2880", got)
	}
	if got := g.CharAt(1, 0); got != 0x2800 {
		t.Fatalf("cell (1,0) = %U, want blank", got)
	}
}

func TestMapToGridPadsRaggedEdges(t *testing.T) {
	// 3×5 binary → 2×2 cells; the padding dots stay off.
	bin := newBinary(3, 5)
	for i := range bin.Pix {
		bin.Pix[i] = true
	}
	g, err := mapToGrid(bin, image.NewRGBA(image.Rect(0, 0, 3, 5)), Default())
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	if w, h := g.Dimensions(); w != 2 || h != 2 {
		t.Fatalf("grid dimensions %dx%d, want 2x2", w, h)
	}
	// Cell (1,1) covers pixels x=2..3, y=4..7; only (2,4) exists → one
	// dot at intra-cell (0,0) → bit 0.
	if got := g.CharAt(1, 1); got != 0x2801 {
		t.Fatalf("ragged corner cell = %U, want U+2801", got)
	}
}

func colorBlocks(w, h int, pick func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, pick(x, y))
		}
	}
	return img
}

func TestMapToGridTrueColorAveragesBlock(t *testing.T) {
	bin := newBinary(2, 4)
	bin.set(0, 0, true)
	// Half the block pure red, half pure blue → average is the mix.
	src := colorBlocks(2, 4, func(x, y int) color.RGBA {
		if y < 2 {
			return color.RGBA{255, 0, 0, 255}
		}
		return color.RGBA{0, 0, 255, 255}
	})
	g, err := mapToGrid(bin, src, Default().WithColorMode(TrueColor))
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	c, ok, _ := g.GetCellColor(0, 0)
	if !ok {
		t.Fatal("inked cell has no color in TrueColor mode")
	}
	if c.R != 127 || c.G != 0 || c.B != 127 {
		t.Fatalf("block average = %v, want {127 0 127}", c)
	}
}

func TestMapToGridGrayscaleColor(t *testing.T) {
	bin := newBinary(2, 4)
	bin.set(0, 0, true)
	src := colorBlocks(2, 4, func(int, int) color.RGBA { return color.RGBA{255, 0, 0, 255} })
	g, err := mapToGrid(bin, src, Default().WithColorMode(Grayscale))
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	c, ok, _ := g.GetCellColor(0, 0)
	if !ok {
		t.Fatal("inked cell has no color in Grayscale mode")
	}
	if c.R != c.G || c.G != c.B {
		t.Fatalf("grayscale cell color %v is not gray", c)
	}
	if c.R < 50 || c.R > 60 {
		t.Fatalf("gray level %d, want the BT.709 red luma of about 54", c.R)
	}
}

func TestMapToGridMonochromeLeavesColorsUnset(t *testing.T) {
	bin := newBinary(2, 4)
	bin.set(0, 0, true)
	src := colorBlocks(2, 4, func(int, int) color.RGBA { return color.RGBA{10, 200, 30, 255} })
	g, err := mapToGrid(bin, src, Default())
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	if _, ok, _ := g.GetCellColor(0, 0); ok {
		t.Fatal("monochrome mode set a cell color")
	}
}

func TestMapToGridBlankCellsStayUncolored(t *testing.T) {
	bin := newBinary(4, 4)
	bin.set(0, 0, true)
	src := colorBlocks(4, 4, func(int, int) color.RGBA { return color.RGBA{200, 200, 200, 255} })
	g, err := mapToGrid(bin, src, Default().WithColorMode(TrueColor))
	if err != nil {
		t.Fatalf("mapToGrid failed: %v", err)
	}
	if _, ok, _ := g.GetCellColor(1, 0); ok {
		t.Fatal("blank cell was colored")
	}
}

func TestQuantizeCellColorsCollapsesPalette(t *testing.T) {
	g, err := grid.New(8, 1)
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	// Two tight clusters of slightly different reds and blues.
	for cx := 0; cx < 8; cx++ {
		_ = g.SetDot(cx*2, 0)
		c := grid.Color{R: uint8(250 + cx%2)}
		if cx >= 4 {
			c = grid.Color{B: uint8(250 + cx%2)}
		}
		if err := g.SetCellColor(cx, 0, c); err != nil {
			t.Fatalf("SetCellColor failed: %v", err)
		}
	}

	quantizeCellColors(g, 2)

	distinct := map[grid.Color]bool{}
	for cx := 0; cx < 8; cx++ {
		c, ok, _ := g.GetCellColor(cx, 0)
		if !ok {
			t.Fatalf("cell %d lost its color", cx)
		}
		distinct[c] = true
	}
	if len(distinct) > 2 {
		t.Fatalf("quantization left %d distinct colors, want at most 2", len(distinct))
	}
	// Reds stay red, blues stay blue.
	c, _, _ := g.GetCellColor(0, 0)
	if c.R < c.B {
		t.Fatalf("red cluster snapped to %v", c)
	}
	c, _, _ = g.GetCellColor(7, 0)
	if c.B < c.R {
		t.Fatalf("blue cluster snapped to %v", c)
	}
}
