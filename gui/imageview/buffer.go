package imageview

import (
	"image"

	"imgview/img"
	"imgview/ods"
	"imgview/scaler"
)

// requiredBufferSize is the zoomed image size bounded by the viewport. It is
// (0, 0) when nothing can be shown.
func (iv *ImageView) requiredBufferSize() image.Point {
	size := iv.src.ZoomedSize(iv.zoom)
	if size.X > iv.viewport.X {
		size.X = iv.viewport.X
	}
	if size.Y > iv.viewport.Y {
		size.Y = iv.viewport.Y
	}
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}
	}
	return size
}

// Buffer returns the display buffer. Its origin is the viewport point
// ImageOffset(). It is nil while nothing can be shown.
func (iv *ImageView) Buffer() *image.NRGBA {
	return iv.buffer
}

func (iv *ImageView) createBuffer() {
	iv.alternate = nil
	size := iv.requiredBufferSize()
	if size == (image.Point{}) {
		iv.buffer = nil
		return
	}
	iv.buffer = image.NewNRGBA(image.Rectangle{Max: size})
	img.Fill(iv.buffer, iv.buffer.Rect, iv.opts.Background)
	iv.markDirty(iv.viewportRect())
}

// resizeBuffer keeps the old pixels at the top-left corner of the new buffer.
func (iv *ImageView) resizeBuffer() {
	old := iv.buffer
	if old != nil && old.Rect.Size() == iv.requiredBufferSize() {
		return
	}
	iv.createBuffer()
	if old != nil && iv.buffer != nil {
		img.Copy(iv.buffer, old.Rect, old, image.Point{})
	}
}

// Scroll returns the position of the buffer's top-left pixel in zoomed-image
// coordinates.
func (iv *ImageView) Scroll() image.Point {
	return iv.scroll
}

// ScrollMax returns the largest valid scroll position.
func (iv *ImageView) ScrollMax() image.Point {
	if iv.zoomToFit {
		return image.Point{}
	}
	size := iv.src.ZoomedSize(iv.zoom)
	return image.Pt(max(size.X-iv.viewport.X, 0), max(size.Y-iv.viewport.Y, 0))
}

func (iv *ImageView) clampScroll(p image.Point) image.Point {
	m := iv.ScrollMax()
	return image.Pt(min(max(p.X, 0), m.X), min(max(p.Y, 0), m.Y))
}

// SetScroll moves the visible area. Positions are clamped to the valid range;
// in zoom-to-fit mode the view does not scroll.
func (iv *ImageView) SetScroll(p image.Point) {
	p = iv.clampScroll(p)
	if p == iv.scroll {
		return
	}
	d := iv.scroll.Sub(p)
	iv.scroll = p
	iv.shiftAndPatch(d.X, d.Y)
}

// ScrollBy is SetScroll(Scroll() + d).
func (iv *ImageView) ScrollBy(d image.Point) {
	iv.SetScroll(iv.scroll.Add(d))
}

// shiftAndPatch moves the buffer content by (dx, dy) and asks the scaler for
// the exposed strips only. A positive dx means the content moves right.
func (iv *ImageView) shiftAndPatch(dx, dy int) {
	if iv.buffer == nil {
		return
	}
	visible := iv.visibleZoomedRect()
	// Chunks cancelled below must be scheduled again.
	region := iv.scaler.Pending().Clip(visible)

	if iv.alternate == nil || iv.alternate.Rect != iv.buffer.Rect {
		iv.alternate = image.NewNRGBA(iv.buffer.Rect)
	}
	img.Fill(iv.alternate, iv.alternate.Rect, iv.opts.Background)
	img.Copy(iv.alternate, iv.buffer.Rect.Add(image.Pt(dx, dy)), iv.buffer, image.Point{})
	iv.buffer, iv.alternate = iv.alternate, iv.buffer

	pos, w, h := iv.scroll, iv.viewport.X, iv.viewport.Y
	if dx > 0 {
		region = append(region, image.Rect(pos.X, pos.Y, pos.X+dx, pos.Y+h))
	} else {
		region = append(region, image.Rect(pos.X+w+dx, pos.Y, pos.X+w, pos.Y+h))
	}
	if dy > 0 {
		region = append(region, image.Rect(pos.X, pos.Y, pos.X+w, pos.Y+dy))
	} else {
		region = append(region, image.Rect(pos.X, pos.Y+h+dy, pos.X+w, pos.Y+h))
	}
	iv.scaler.SetDestinationRegion(region.Clip(visible))
	iv.markDirty(iv.viewportRect())
}

// requestVisible asks for every pixel of the buffer.
func (iv *ImageView) requestVisible() {
	if iv.buffer == nil {
		return
	}
	iv.scaler.SetDestinationRegion(scaler.Region{iv.visibleZoomedRect()})
}

// visibleZoomedRect is the buffer area in zoomed-image coordinates.
func (iv *ImageView) visibleZoomedRect() image.Rectangle {
	if iv.buffer == nil {
		return image.Rectangle{}
	}
	return iv.buffer.Rect.Add(iv.scroll)
}

// deliver runs on scaler workers.
func (iv *ImageView) deliver(t scaler.Tile) {
	iv.queue.Post(func() {
		iv.applyTile(t)
	})
}

// applyTile copies a finished tile into the buffer and reports whether
// anything was written. Tiles from an older epoch or outside the buffer are
// dropped.
func (iv *ImageView) applyTile(t scaler.Tile) bool {
	if iv.buffer == nil || t.Image == nil {
		return false
	}
	if t.Epoch != iv.scaler.Epoch() {
		ods.ODS("imageview: drop stale tile %v (epoch %d)", t.Rect(), t.Epoch)
		return false
	}
	r := t.Rect().Sub(iv.scroll).Intersect(iv.buffer.Rect)
	if r.Empty() {
		return false
	}
	img.Copy(iv.buffer, r, t.Image, r.Min.Add(iv.scroll))
	iv.markDirty(r.Add(iv.ImageOffset()))
	return true
}
