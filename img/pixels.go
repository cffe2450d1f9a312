package img

import (
	"image"
	"image/color"
)

// Copy replaces the pixels of dst inside r with the pixels of src starting at
// sp, like draw.Draw with draw.Src but without any colour conversion. It
// returns the rectangle of dst that was written.
func Copy(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA, sp image.Point) image.Rectangle {
	orig := r.Min
	r = r.Intersect(dst.Rect)
	r = r.Intersect(src.Rect.Add(orig.Sub(sp)))
	if r.Empty() {
		return image.Rectangle{}
	}
	sp = sp.Add(r.Min.Sub(orig))
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)
		copy(dst.Pix[di:di+n], src.Pix[si:si+n])
	}
	return r
}

// Fill sets every pixel of dst inside r to c.
func Fill(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	px := [4]uint8{c.R, c.G, c.B, c.A}
	first := dst.PixOffset(r.Min.X, r.Min.Y)
	row := dst.Pix[first : first+r.Dx()*4]
	for i := 0; i < len(row); i += 4 {
		copy(row[i:i+4], px[:])
	}
	for y := 1; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[di:di+len(row)], row)
	}
}
