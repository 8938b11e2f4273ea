package pipeline

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dotmax/grid"
)

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP). Decoder failures come back as grid.DecodeError.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &grid.DecodeError{Cause: err}
	}
	return img, nil
}
