package imageview

import (
	"image"
	"math"

	"imgview/ods"
	"imgview/scaler"
)

// zoomEpsilon is the smallest zoom change that has any effect.
const zoomEpsilon = 0.001

// ComputeZoomToFit returns the zoom showing the whole image in the viewport,
// never above 1. ok is false while the image or the viewport is empty.
func (iv *ImageView) ComputeZoomToFit() (zoom float64, ok bool) {
	size := iv.src.Size()
	if size.X <= 0 || size.Y <= 0 || iv.viewport.X <= 0 || iv.viewport.Y <= 0 {
		return 0, false
	}
	zoom = math.Min(
		float64(iv.viewport.X)/float64(size.X),
		float64(iv.viewport.Y)/float64(size.Y),
	)
	return math.Min(zoom, 1), true
}

func (iv *ImageView) Zoom() float64 {
	return iv.zoom
}

func (iv *ImageView) ZoomToFit() bool {
	return iv.zoomToFit
}

// SetZoom leaves zoom-to-fit mode and changes the zoom keeping the image
// point under the viewport point center where it is.
func (iv *ImageView) SetZoom(zoom float64, center image.Point) {
	iv.zoomToFit = false
	iv.setZoom(zoom, center)
}

// SetZoomCentered is SetZoom anchored at the middle of the viewport.
func (iv *ImageView) SetZoomCentered(zoom float64) {
	iv.SetZoom(zoom, iv.center())
}

// SetZoomToFit switches zoom-to-fit mode. Turning it off keeps the current
// zoom; the caller decides what comes next.
func (iv *ImageView) SetZoomToFit(on bool) {
	iv.zoomToFit = on
	if !on {
		return
	}
	fit, ok := iv.ComputeZoomToFit()
	if ok && iv.setZoom(fit, iv.center()) {
		return
	}
	if iv.scroll != (image.Point{}) {
		iv.scroll = image.Point{}
		iv.createBuffer()
		iv.requestVisible()
	}
}

// setZoom reports whether the zoom actually changed.
func (iv *ImageView) setZoom(zoom float64, center image.Point) bool {
	old := iv.zoom
	if !(zoom > 0) || math.Abs(zoom-old) < zoomEpsilon {
		return false
	}
	iv.zoom = zoom
	if iv.src.Empty() {
		return false
	}
	ods.ODS("imageview: zoom %.4f -> %.4f around %v", old, zoom, center)

	// The offset must be taken before the buffer changes size.
	oldOffset := iv.ImageOffset()
	oldScroll := iv.scroll
	iv.createBuffer()

	f := zoom / old
	iv.scroll = iv.clampScroll(image.Pt(
		int(f*float64(oldScroll.X-oldOffset.X+center.X)-float64(center.X)),
		int(f*float64(oldScroll.Y-oldOffset.Y+center.Y)-float64(center.Y)),
	))

	iv.syncScaler()
	iv.requestVisible()
	if iv.OnZoomChanged != nil {
		iv.OnZoomChanged(zoom)
	}
	return true
}

// syncScaler hands the current zoom and interpolation mode to the scaler.
func (iv *ImageView) syncScaler() {
	if iv.zoom < iv.opts.SmoothBelow {
		iv.scaler.SetTransformationMode(scaler.ModeSmooth)
	} else {
		iv.scaler.SetTransformationMode(scaler.ModeFast)
	}
	iv.scaler.SetZoom(iv.zoom)
}
