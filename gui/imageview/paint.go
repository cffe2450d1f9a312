package imageview

import (
	"image"
	"image/color"

	"github.com/oov/psd/blend"
	"golang.org/x/image/draw"

	"imgview/img"
)

const textureSize = 32

// checkerboard returns the tile shown behind translucent pixels.
func checkerboard() *image.NRGBA {
	t := image.NewNRGBA(image.Rect(0, 0, textureSize, textureSize))
	img.Fill(t, t.Rect, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	light := color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	img.Fill(t, image.Rect(0, 0, textureSize/2, textureSize/2), light)
	img.Fill(t, image.Rect(textureSize/2, textureSize/2, textureSize, textureSize), light)
	return t
}

// SetAlphaBackground changes what is shown behind translucent pixels.
func (iv *ImageView) SetAlphaBackground(mode AlphaBackground, c color.NRGBA) {
	iv.opts.AlphaBackground = mode
	iv.opts.AlphaColor = c
	iv.markDirty(iv.viewportRect())
}

// Paint draws the viewport into dst, whose bounds are in viewport
// coordinates.
func (iv *ImageView) Paint(dst *image.NRGBA) {
	var imageRect image.Rectangle
	if iv.buffer != nil {
		imageRect = iv.buffer.Rect.Add(iv.ImageOffset())
	}

	// Erase pixels around the image.
	vr := iv.viewportRect()
	bg := iv.opts.Background
	img.Fill(dst, image.Rect(vr.Min.X, vr.Min.Y, vr.Max.X, imageRect.Min.Y), bg)
	img.Fill(dst, image.Rect(vr.Min.X, imageRect.Max.Y, vr.Max.X, vr.Max.Y), bg)
	img.Fill(dst, image.Rect(vr.Min.X, imageRect.Min.Y, imageRect.Min.X, imageRect.Max.Y), bg)
	img.Fill(dst, image.Rect(imageRect.Max.X, imageRect.Min.Y, vr.Max.X, imageRect.Max.Y), bg)
	if imageRect.Empty() {
		return
	}

	if !iv.src.HasAlpha() {
		blend.Copy.Draw(dst, imageRect, iv.buffer, image.Point{})
		return
	}
	if iv.opts.AlphaBackground == AlphaCheckerboard {
		for y := imageRect.Min.Y; y < imageRect.Max.Y; y += textureSize {
			for x := imageRect.Min.X; x < imageRect.Max.X; x += textureSize {
				r := image.Rect(x, y, x+textureSize, y+textureSize).Intersect(imageRect)
				img.Copy(dst, r, iv.texture, image.Point{})
			}
		}
	} else {
		img.Fill(dst, imageRect, iv.opts.AlphaColor)
	}
	draw.Draw(dst, imageRect, iv.buffer, image.Point{}, draw.Over)
}
