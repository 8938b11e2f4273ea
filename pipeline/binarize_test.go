package pipeline

import (
	"image"
	"testing"
)

func grayImage(w, h int, fill func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = fill(x, y)
		}
	}
	return img
}

func uniformGray(w, h int, v uint8) *image.Gray {
	return grayImage(w, h, func(int, int) uint8 { return v })
}

func TestThresholdInkRule(t *testing.T) {
	img := grayImage(4, 1, func(x, _ int) uint8 { return uint8(x * 80) }) // 0, 80, 160, 240
	bin := threshold(img, 100)
	want := []bool{true, true, false, false}
	for x, w := range want {
		if bin.At(x, 0) != w {
			t.Fatalf("pixel %d: got %v, want %v", x, bin.At(x, 0), w)
		}
	}
}

func TestThresholdBoundaryInclusive(t *testing.T) {
	img := uniformGray(2, 2, 128)
	if bin := threshold(img, 128); !bin.At(0, 0) {
		t.Fatal("pixel equal to the level should be inked")
	}
	if bin := threshold(img, 127); bin.At(0, 0) {
		t.Fatal("pixel above the level should not be inked")
	}
}

func TestBinaryAtOutsideReadsWhite(t *testing.T) {
	bin := newBinary(2, 2)
	bin.set(0, 0, true)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if bin.At(p[0], p[1]) {
			t.Fatalf("outside pixel (%d,%d) reads as inked", p[0], p[1])
		}
	}
}

func TestOtsuUniformInputReturnsValue(t *testing.T) {
	for _, v := range []uint8{0, 77, 128, 255} {
		img := uniformGray(10, 10, v)
		if got := otsuThreshold(img); got != v {
			t.Fatalf("uniform %d: Otsu returned %d", v, got)
		}
		bin := threshold(img, otsuThreshold(img))
		first := bin.At(0, 0)
		for i, p := range bin.Pix {
			if p != first {
				t.Fatalf("uniform %d: binarization not uniform at index %d", v, i)
			}
		}
	}
}

// A strictly bimodal histogram gives a plateau of equally good cut points;
// the middle of the plateau is returned, and binarization splits the
// pixels exactly along the two modes.
func TestOtsuBimodal(t *testing.T) {
	img := grayImage(10, 10, func(x, y int) uint8 {
		if (x+y*3)%2 == 0 {
			return 0
		}
		return 255
	})
	level := otsuThreshold(img)
	if level < 1 || level > 254 {
		t.Fatalf("bimodal Otsu level %d outside [1,254]", level)
	}
	bin := threshold(img, level)
	inked := 0
	for _, p := range bin.Pix {
		if p {
			inked++
		}
	}
	if inked != 50 {
		t.Fatalf("bimodal binarization inked %d of 100 pixels, want 50", inked)
	}
}

func TestOtsuSeparatesTwoClusters(t *testing.T) {
	// Dark cluster around 40, light cluster around 200.
	img := grayImage(8, 8, func(x, y int) uint8 {
		if y < 4 {
			return uint8(40 + (x % 3))
		}
		return uint8(200 + (x % 3))
	})
	level := otsuThreshold(img)
	if level < 42 || level >= 200 {
		t.Fatalf("Otsu level %d does not separate clusters 40..42 and 200..202", level)
	}
}
