package pipeline

import (
	"image"

	"dotmax/grid"
)

// bayer8 is the standard 8×8 Bayer ordered-dither matrix.
var bayer8 = [8][8]int{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// ditherImage binarizes a grayscale image with the selected dithering
// method. The ink rule matches thresholding: dark pixels become set dots.
func ditherImage(img *image.Gray, method Dither) (*Binary, error) {
	switch method {
	case FloydSteinberg:
		return floydSteinberg(img), nil
	case Bayer8:
		return bayerDither(img), nil
	case Atkinson:
		return atkinson(img), nil
	default:
		return nil, &grid.ParameterError{Name: "dither", Value: float64(method), Min: float64(FloydSteinberg), Max: float64(Atkinson)}
	}
}

// floydSteinberg diffuses quantization error to four neighbors:
// right 7/16, below-left 3/16, below 5/16, below-right 1/16, scanning
// top-left to bottom-right. Error falling outside the image is dropped.
func floydSteinberg(img *image.Gray) *Binary {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := newBinary(w, h)

	// Working copy of the pixel values with accumulated error.
	buf := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			buf[y*w+x] = float32(v)
		}
	}

	spread := func(x, y int, e float32) {
		if x < 0 || x >= w || y >= h {
			return
		}
		buf[y*w+x] += e
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := buf[y*w+x]
			var quantized float32
			if old < 128 {
				out.set(x, y, true) // ink
			} else {
				quantized = 255
			}
			e := old - quantized
			spread(x+1, y, e*7/16)
			spread(x-1, y+1, e*3/16)
			spread(x, y+1, e*5/16)
			spread(x+1, y+1, e*1/16)
		}
	}
	return out
}

// bayerDither is a stateless ordered dither: each pixel is compared
// against matrix[y mod 8][x mod 8] · 255/64.
func bayerDither(img *image.Gray) *Binary {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := newBinary(w, h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			level := bayer8[y%8][x%8] * 255 / 64
			out.Pix[y*w+x] = int(v) <= level
		}
	}
	return out
}

// atkinson diffuses only 6/8 of the quantization error, 1/8 each to the
// two pixels right, the three below and the one two rows down. The missing
// 2/8 is discarded on purpose; that loss is what gives Atkinson its
// characteristic blown-out highlights and deep shadows.
func atkinson(img *image.Gray) *Binary {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := newBinary(w, h)

	buf := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			buf[y*w+x] = float32(v)
		}
	}

	spread := func(x, y int, e float32) {
		if x < 0 || x >= w || y >= h {
			return
		}
		buf[y*w+x] += e
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := buf[y*w+x]
			var quantized float32
			if old < 128 {
				out.set(x, y, true)
			} else {
				quantized = 255
			}
			e := (old - quantized) / 8
			spread(x+1, y, e)
			spread(x+2, y, e)
			spread(x-1, y+1, e)
			spread(x, y+1, e)
			spread(x+1, y+1, e)
			spread(x, y+2, e)
		}
	}
	return out
}
