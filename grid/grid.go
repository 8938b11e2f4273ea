// Package grid holds the braille cell grid: a bit-packed 2D array of 2×4
// dot cells with an optional color per cell. Each cell maps to one Unicode
// braille codepoint (U+2800..U+28FF), so a W×H grid addresses a
// (2·W)×(4·H) dot raster.
package grid

// MaxSide caps grid width and height in cells. Guards against OOM when
// dimensions come from untrusted input.
const MaxSide = 10000

// BrailleBase is the first braille codepoint; adding a cell's pattern
// byte to it yields the cell's character.
const BrailleBase rune = 0x2800

// Braille dot positions within a cell, indexed [row][col] → pattern bit.
// Unicode assigns bits 0-2 to the left column rows 0-2, bits 3-5 to the
// right column rows 0-2, and bits 6-7 to the bottom row.
//
//	Col 0: rows 0-3 → bits 0,1,2,6
//	Col 1: rows 0-3 → bits 3,4,5,7
var dotBit = [4][2]byte{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Grid is a braille raster of width×height cells. The zero value is not
// usable; construct with New.
type Grid struct {
	width  int
	height int

	// patterns, colors and colorSet are parallel slices of length
	// width*height, indexed y*width+x.
	patterns []byte
	colors   []Color
	colorSet []bool
}

// New returns a zeroed grid of w×h cells.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return nil, &DimensionsError{Width: w, Height: h}
	}
	n := w * h
	return &Grid{
		width:    w,
		height:   h,
		patterns: make([]byte, n),
		colors:   make([]Color, n),
		colorSet: make([]bool, n),
	}, nil
}

// Dimensions returns the grid size in cells.
func (g *Grid) Dimensions() (w, h int) {
	return g.width, g.height
}

// DotDimensions returns the addressable dot raster size: (2·W, 4·H).
func (g *Grid) DotDimensions() (w, h int) {
	return g.width * 2, g.height * 4
}

// SetDot turns on the dot at dot coordinate (dx, dy).
func (g *Grid) SetDot(dx, dy int) error {
	return g.setDot(dx, dy, true)
}

// ClearDot turns off the dot at dot coordinate (dx, dy).
func (g *Grid) ClearDot(dx, dy int) error {
	return g.setDot(dx, dy, false)
}

func (g *Grid) setDot(dx, dy int, on bool) error {
	if dx < 0 || dy < 0 || dx >= g.width*2 || dy >= g.height*4 {
		return &BoundsError{X: dx, Y: dy, Width: g.width * 2, Height: g.height * 4}
	}
	idx := (dy/4)*g.width + dx/2
	bit := dotBit[dy%4][dx%2]
	if on {
		g.patterns[idx] |= bit
	} else {
		g.patterns[idx] &^= bit
	}
	return nil
}

// GetDot reports whether pattern bit `bit` (0..7) of cell (cx, cy) is on.
// Unlike SetDot this addresses cells, not dots; the bit index follows the
// Unicode layout (bits 0-2 left column, 3-5 right column, 6-7 bottom row).
func (g *Grid) GetDot(cx, cy, bit int) (bool, error) {
	if cx < 0 || cy < 0 || cx >= g.width || cy >= g.height {
		return false, &BoundsError{X: cx, Y: cy, Width: g.width, Height: g.height}
	}
	if bit < 0 || bit > 7 {
		return false, &DotIndexError{Index: bit}
	}
	return g.patterns[cy*g.width+cx]&(1<<uint(bit)) != 0, nil
}

// SetCellColor assigns a color to cell (cx, cy). All dots of the cell
// render in that color.
func (g *Grid) SetCellColor(cx, cy int, c Color) error {
	if cx < 0 || cy < 0 || cx >= g.width || cy >= g.height {
		return &BoundsError{X: cx, Y: cy, Width: g.width, Height: g.height}
	}
	idx := cy*g.width + cx
	g.colors[idx] = c
	g.colorSet[idx] = true
	return nil
}

// GetCellColor returns the color of cell (cx, cy) and whether one is set.
func (g *Grid) GetCellColor(cx, cy int) (Color, bool, error) {
	if cx < 0 || cy < 0 || cx >= g.width || cy >= g.height {
		return Color{}, false, &BoundsError{X: cx, Y: cy, Width: g.width, Height: g.height}
	}
	idx := cy*g.width + cx
	return g.colors[idx], g.colorSet[idx], nil
}

// Clear resets every cell to the blank pattern and removes all colors.
// Buffer capacity is kept, so per-frame clears do not allocate.
func (g *Grid) Clear() {
	for i := range g.patterns {
		g.patterns[i] = 0
		g.colors[i] = Color{}
		g.colorSet[i] = false
	}
}

// ClearRegion clears the w×h cell rectangle at cell (x, y). The rectangle
// is clipped to the grid; a rectangle entirely outside is a no-op.
func (g *Grid) ClearRegion(x, y, w, h int) error {
	if w < 0 || h < 0 {
		return &ParameterError{Name: "region size", Value: float64(min(w, h)), Min: 0, Max: float64(MaxSide)}
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.width), min(y+h, g.height)
	for cy := y0; cy < y1; cy++ {
		base := cy * g.width
		for cx := x0; cx < x1; cx++ {
			g.patterns[base+cx] = 0
			g.colors[base+cx] = Color{}
			g.colorSet[base+cx] = false
		}
	}
	return nil
}

// Resize changes the grid to w×h cells. Cells inside the overlap of the
// old and new sizes keep their pattern and color; everything else starts
// blank.
func (g *Grid) Resize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return &DimensionsError{Width: w, Height: h}
	}
	if w == g.width && h == g.height {
		return nil
	}
	n := w * h
	patterns := make([]byte, n)
	colors := make([]Color, n)
	colorSet := make([]bool, n)

	copyW := min(g.width, w)
	copyH := min(g.height, h)
	for cy := 0; cy < copyH; cy++ {
		oldBase := cy * g.width
		newBase := cy * w
		copy(patterns[newBase:newBase+copyW], g.patterns[oldBase:oldBase+copyW])
		copy(colors[newBase:newBase+copyW], g.colors[oldBase:oldBase+copyW])
		copy(colorSet[newBase:newBase+copyW], g.colorSet[oldBase:oldBase+copyW])
	}

	g.width = w
	g.height = h
	g.patterns = patterns
	g.colors = colors
	g.colorSet = colorSet
	return nil
}

// PatternOf converts a braille character back to its pattern byte.
func PatternOf(r rune) (byte, error) {
	if r < BrailleBase || r > BrailleBase+0xFF {
		return 0, &UnicodeError{Value: int32(r)}
	}
	return byte(r - BrailleBase), nil
}

// CharAt returns the braille character for cell (cx, cy). Out-of-range
// cells read as the blank pattern U+2800.
func (g *Grid) CharAt(cx, cy int) rune {
	if cx < 0 || cy < 0 || cx >= g.width || cy >= g.height {
		return BrailleBase
	}
	return BrailleBase + rune(g.patterns[cy*g.width+cx])
}
