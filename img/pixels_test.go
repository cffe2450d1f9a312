package img

import (
	"image"
	"image/color"
	"testing"
)

func TestCopyClips(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src := solid(3, 3, color.NRGBA{G: 255, A: 255})

	got := Copy(dst, image.Rect(2, 2, 5, 5), src, image.Point{})
	if want := image.Rect(2, 2, 4, 4); got != want {
		t.Fatalf("Copy wrote %v, want %v", got, want)
	}
	if c := dst.NRGBAAt(3, 3); c.G != 255 {
		t.Errorf("(3,3) = %v, want green", c)
	}
	if c := dst.NRGBAAt(1, 1); c.A != 0 {
		t.Errorf("(1,1) = %v, want untouched", c)
	}
}

func TestCopyNegativeOrigin(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src := image.NewNRGBA(image.Rect(10, 10, 14, 14))
	src.SetNRGBA(13, 13, color.NRGBA{B: 9, A: 1})

	// Place src so that its (12,12) lands on dst (0,0).
	got := Copy(dst, image.Rect(-2, -2, 2, 2), src, image.Pt(10, 10))
	if want := image.Rect(0, 0, 2, 2); got != want {
		t.Fatalf("Copy wrote %v, want %v", got, want)
	}
	if c := dst.NRGBAAt(1, 1); c != (color.NRGBA{B: 9, A: 1}) {
		t.Errorf("(1,1) = %v, want exact copy of translucent pixel", c)
	}
}

func TestCopyDisjoint(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src := solid(2, 2, color.NRGBA{A: 255})
	if got := Copy(dst, image.Rect(10, 10, 12, 12), src, image.Point{}); !got.Empty() {
		t.Errorf("Copy wrote %v, want nothing", got)
	}
}

func TestFill(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	Fill(dst, image.Rect(1, 1, 9, 3), c)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			in := x >= 1 && y >= 1 && y < 3
			if got := dst.NRGBAAt(x, y); (got == c) != in {
				t.Errorf("(%d,%d) = %v, inside = %v", x, y, got, in)
			}
		}
	}
}
