package pipeline

import (
	"image"
	"image/color"
	"math"

	"dotmax/grid"
)

// grayscale converts img to 8-bit grayscale using the BT.709 luminance
// weights. Images that are already grayscale pass through untouched.
func grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+b.Dx()*4]
			for x := 0; x < b.Dx(); x++ {
				out.Pix[y*out.Stride+x] = luma709(row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return out
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			out.Pix[y*out.Stride+x] = luma709(c.R, c.G, c.B)
		}
	}
	return out
}

// luma709 is the ITU-R BT.709 luminance weighting in 16-bit fixed point:
// Y = 0.2126 R + 0.7152 G + 0.0722 B.
func luma709(r, g, b uint8) uint8 {
	return uint8((13933*uint32(r) + 46871*uint32(g) + 4732*uint32(b) + 32768) >> 16)
}

// adjust applies brightness, contrast and gamma, in that order, to a
// grayscale image. A single lookup table covers all three, so the pixel
// pass is one indexed copy. Parameters are validated before any pixel
// work; 1/1/1 is the identity and returns the input unchanged.
func adjust(img *image.Gray, brightness, contrast, gamma float32) (*image.Gray, error) {
	if brightness < 0 || brightness > 2 {
		return nil, &grid.ParameterError{Name: "brightness", Value: float64(brightness), Min: 0, Max: 2}
	}
	if contrast < 0 || contrast > 2 {
		return nil, &grid.ParameterError{Name: "contrast", Value: float64(contrast), Min: 0, Max: 2}
	}
	if gamma < 0.1 || gamma > 3 {
		return nil, &grid.ParameterError{Name: "gamma", Value: float64(gamma), Min: 0.1, Max: 3}
	}
	if brightness == 1 && contrast == 1 && gamma == 1 {
		return img, nil
	}

	var lut [256]uint8
	for i := range lut {
		v := clamp255(float64(i) * float64(brightness))
		v = clamp255((v-128)*float64(contrast) + 128)
		v = 255 * math.Pow(v/255, float64(gamma))
		lut[i] = uint8(math.Round(clamp255(v)))
	}

	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x, v := range src {
			dst[x] = lut[v]
		}
	}
	return out, nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
