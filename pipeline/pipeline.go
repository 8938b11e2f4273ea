// Package pipeline converts decoded raster images into braille grids. The
// chain is resize → grayscale (+ adjustments) → threshold or dither → map,
// with every stage a pure function over its input. A failed stage aborts
// the run; no partially filled grid is ever returned.
package pipeline

import (
	"image"
	"os"

	"golang.org/x/term"

	"dotmax/grid"
)

// Dither selects the binarization route. DitherNone goes through a
// threshold (manual or Otsu); the others run error diffusion or ordered
// dithering on the grayscale image directly.
type Dither int

const (
	DitherNone Dither = iota
	FloydSteinberg
	Bayer8
	Atkinson
)

// ColorMode controls whether and how the mapper fills the grid's color
// buffer.
type ColorMode int

const (
	// Monochrome leaves cell colors unset.
	Monochrome ColorMode = iota
	// Grayscale colors each cell with its average luminance.
	Grayscale
	// TrueColor colors each cell with the average RGB of its 2×4 block.
	TrueColor
)

// Options configures a pipeline run. The zero value is not usable;
// start from Default.
type Options struct {
	// Dither selects the binarization route. Default DitherNone.
	Dither Dither
	// Threshold is the manual cut level, consulted only when Dither is
	// DitherNone. Nil means Otsu's method picks the level.
	Threshold *uint8
	// ColorMode selects cell color sampling. Default Monochrome.
	ColorMode ColorMode
	// Brightness, Contrast in [0,2] and Gamma in [0.1,3] adjust the
	// grayscale image in that order. 1 means no change.
	Brightness float32
	Contrast   float32
	Gamma      float32
	// Cells is the target grid size. The zero point means "size to the
	// terminal" (stdout when it is a tty, else 80×24).
	Cells image.Point
	// PaletteColors, when positive and ColorMode is TrueColor, quantizes
	// the sampled cell colors down to at most this many entries with a
	// median-cut palette. Fewer distinct colors means fewer SGR changes
	// when the grid is rendered.
	PaletteColors int
}

// Default returns the neutral configuration: Otsu threshold, monochrome,
// no adjustments, terminal-sized output.
func Default() Options {
	return Options{
		Brightness: 1,
		Contrast:   1,
		Gamma:      1,
	}
}

// WithDither returns o with the dither method replaced.
func (o Options) WithDither(d Dither) Options { o.Dither = d; return o }

// WithThreshold returns o with a manual threshold level.
func (o Options) WithThreshold(t uint8) Options { o.Threshold = &t; return o }

// WithColorMode returns o with the color mode replaced.
func (o Options) WithColorMode(m ColorMode) Options { o.ColorMode = m; return o }

// WithCells returns o targeting a w×h cell grid.
func (o Options) WithCells(w, h int) Options { o.Cells = image.Pt(w, h); return o }

func (o Options) validate() error {
	if o.Brightness < 0 || o.Brightness > 2 {
		return &grid.ParameterError{Name: "brightness", Value: float64(o.Brightness), Min: 0, Max: 2}
	}
	if o.Contrast < 0 || o.Contrast > 2 {
		return &grid.ParameterError{Name: "contrast", Value: float64(o.Contrast), Min: 0, Max: 2}
	}
	if o.Gamma < 0.1 || o.Gamma > 3 {
		return &grid.ParameterError{Name: "gamma", Value: float64(o.Gamma), Min: 0.1, Max: 3}
	}
	if o.Dither < DitherNone || o.Dither > Atkinson {
		return &grid.ParameterError{Name: "dither", Value: float64(o.Dither), Min: float64(DitherNone), Max: float64(Atkinson)}
	}
	if o.ColorMode < Monochrome || o.ColorMode > TrueColor {
		return &grid.ParameterError{Name: "color mode", Value: float64(o.ColorMode), Min: float64(Monochrome), Max: float64(TrueColor)}
	}
	if o.Cells.X < 0 || o.Cells.Y < 0 {
		return &grid.DimensionsError{Width: o.Cells.X, Height: o.Cells.Y}
	}
	return nil
}

// targetCells resolves the cell target, falling back to the terminal size
// and then to the classic 80×24.
func (o Options) targetCells() (int, int) {
	if o.Cells.X > 0 && o.Cells.Y > 0 {
		return o.Cells.X, o.Cells.Y
	}
	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && rows > 0 {
		return cols, rows
	}
	return 80, 24
}

// Render runs the full pipeline on src and returns the resulting grid.
func (o Options) Render(src image.Image) (*grid.Grid, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	cellW, cellH := o.targetCells()

	resized, err := fitToCells(src, cellW, cellH)
	if err != nil {
		return nil, err
	}

	gray := grayscale(resized)
	gray, err = adjust(gray, o.Brightness, o.Contrast, o.Gamma)
	if err != nil {
		return nil, err
	}

	var bin *Binary
	if o.Dither == DitherNone {
		level := otsuThreshold(gray)
		if o.Threshold != nil {
			level = *o.Threshold
		}
		bin = threshold(gray, level)
	} else {
		bin, err = ditherImage(gray, o.Dither)
		if err != nil {
			return nil, err
		}
	}

	return mapToGrid(bin, resized, o)
}
