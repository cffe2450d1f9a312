package imageview

import (
	"image"
	"math"
)

// ImageOffset is the viewport position of the buffer. It is non-zero on the
// axes where the zoomed image is smaller than the viewport.
func (iv *ImageView) ImageOffset() image.Point {
	var size image.Point
	if iv.buffer != nil {
		size = iv.buffer.Rect.Size()
	}
	return image.Pt(
		max((iv.viewport.X-size.X)/2, 0),
		max((iv.viewport.Y-size.Y)/2, 0),
	)
}

// MapToViewport converts an image point to viewport coordinates.
func (iv *ImageView) MapToViewport(p image.Point) image.Point {
	return image.Pt(
		int(float64(p.X)*iv.zoom),
		int(float64(p.Y)*iv.zoom),
	).Add(iv.ImageOffset()).Sub(iv.scroll)
}

// MapToImage converts a viewport point to image coordinates, truncating.
func (iv *ImageView) MapToImage(p image.Point) image.Point {
	p = p.Add(iv.scroll).Sub(iv.ImageOffset())
	return image.Pt(
		int(float64(p.X)/iv.zoom),
		int(float64(p.Y)/iv.zoom),
	)
}

// MapRectToViewport maps both corners of an image rectangle.
func (iv *ImageView) MapRectToViewport(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: iv.MapToViewport(r.Min), Max: iv.MapToViewport(r.Max)}
}

// MapRectToImage maps both corners of a viewport rectangle.
func (iv *ImageView) MapRectToImage(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: iv.MapToImage(r.Min), Max: iv.MapToImage(r.Max)}
}

// zoomedRect returns the smallest zoomed-image rectangle covering the image
// rectangle r.
func (iv *ImageView) zoomedRect(r image.Rectangle) image.Rectangle {
	z := iv.zoom
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*z)),
		int(math.Floor(float64(r.Min.Y)*z)),
		int(math.Ceil(float64(r.Max.X)*z)),
		int(math.Ceil(float64(r.Max.Y)*z)),
	)
}
