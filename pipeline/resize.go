package pipeline

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"dotmax/grid"
)

// maxImageSide caps decoded source dimensions before resampling.
const maxImageSide = 32768

// upscaleCap limits enlargement; beyond 2× the blocky source pixels read
// better than interpolation blur.
const upscaleCap = 2.0

// extremeAspect is the width/height ratio past which the resampler drops
// from Lanczos3 to a triangle filter. Very wide or very tall sources pay
// the wide-kernel cost on millions of pixels that mostly collapse into a
// handful of output rows or columns.
const extremeAspect = 2.5

// lanczos3 is a 3-lobed Lanczos resampling kernel: sinc(t)·sinc(t/3).
var lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t >= 3 {
			return 0
		}
		if t == 0 {
			return 1
		}
		pt := math.Pi * t
		return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
	},
}

// fitToCells resamples src to fit the (2·cellW)×(4·cellH) dot box, one
// source of truth for every later stage. Aspect ratio is preserved: the
// smaller scale factor wins. Grayscale sources stay grayscale.
func fitToCells(src image.Image, cellW, cellH int) (image.Image, error) {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 || srcW > maxImageSide || srcH > maxImageSide {
		return nil, &grid.DimensionsError{Width: srcW, Height: srcH}
	}
	if cellW <= 0 || cellH <= 0 || cellW > grid.MaxSide || cellH > grid.MaxSide {
		return nil, &grid.DimensionsError{Width: cellW, Height: cellH}
	}

	boxW := float64(cellW * 2)
	boxH := float64(cellH * 4)
	scale := math.Min(boxW/float64(srcW), boxH/float64(srcH))
	if scale > upscaleCap {
		scale = upscaleCap
	}
	dstW := max(1, int(math.Round(float64(srcW)*scale)))
	dstH := max(1, int(math.Round(float64(srcH)*scale)))

	// Later stages index pixel buffers from (0,0), so only zero-anchored
	// images may skip the resample.
	if dstW == srcW && dstH == srcH && b.Min == (image.Point{}) {
		return src, nil
	}

	scaler := chooseScaler(srcW, srcH)
	rect := image.Rect(0, 0, dstW, dstH)
	var dst draw.Image
	if _, ok := src.(*image.Gray); ok {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	scaler.Scale(dst, rect, src, b, draw.Src, nil)
	return dst, nil
}

// chooseScaler picks the resampling filter from the source aspect ratio.
func chooseScaler(w, h int) draw.Scaler {
	ratio := float64(w) / float64(h)
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if ratio > extremeAspect {
		return draw.ApproxBiLinear
	}
	return lanczos3
}
