package documentview

import (
	"image"
	"math"
)

// MaximumZoom returns the configured zoom ceiling.
func (dv *DocumentView) MaximumZoom() float64 {
	return dv.opts.MaximumZoom
}

// MinimumZoom is the zoom-to-fit value clamped to [0.001, 1]. It is 1 while
// no fit can be computed.
func (dv *DocumentView) MinimumZoom() float64 {
	fit, ok := dv.adapter.ComputeZoomToFit()
	if !ok {
		return 1
	}
	return math.Max(lowestZoom, math.Min(fit, 1))
}

// ZoomSnapValues returns the zoom ladder used by ZoomIn and ZoomOut.
func (dv *DocumentView) ZoomSnapValues() []float64 {
	return append([]float64(nil), dv.snapValues...)
}

func (dv *DocumentView) updateZoomSnapValues() {
	min := dv.MinimumZoom()
	dv.snapValues = snapValues(min, dv.opts.MaximumZoom)
	if dv.OnMinimumZoomChanged != nil {
		dv.OnMinimumZoomChanged(min)
	}
}

// snapValues builds the ladder: min itself when below 1, the powers of two
// between min and 1, then every integer up to max.
func snapValues(min, max float64) []float64 {
	var values []float64
	if min < 1 {
		values = append(values, min)
		for inv := 16.; inv > 1; inv /= 2 {
			if zoom := 1 / inv; zoom > min {
				values = append(values, zoom)
			}
		}
	}
	for zoom := 1.; zoom <= max; zoom++ {
		values = append(values, zoom)
	}
	return values
}

func (dv *DocumentView) CanZoom() bool {
	return dv.adapter.CanZoom()
}

func (dv *DocumentView) Zoom() float64 {
	return dv.adapter.Zoom()
}

func (dv *DocumentView) ZoomToFit() bool {
	return dv.adapter.ZoomToFit()
}

func (dv *DocumentView) uncheckZoomToFit() {
	if dv.adapter.ZoomToFit() {
		dv.adapter.SetZoomToFit(false)
		if dv.OnZoomToFitChanged != nil {
			dv.OnZoomToFitChanged(false)
		}
	}
}

// setZoom leaves zoom-to-fit mode and applies zoom clamped to the valid range.
func (dv *DocumentView) setZoom(zoom float64, center image.Point) {
	dv.uncheckZoomToFit()
	zoom = math.Min(math.Max(zoom, dv.MinimumZoom()), dv.opts.MaximumZoom)
	dv.adapter.SetZoom(zoom, center)
}

// SetZoom zooms around the centre of the view.
func (dv *DocumentView) SetZoom(zoom float64) {
	dv.setZoom(zoom, dv.center())
}

// SetZoomAt zooms keeping the image point under center in place.
func (dv *DocumentView) SetZoomAt(zoom float64, center image.Point) {
	dv.setZoom(zoom, center)
}

// SetZoomToFit switches zoom-to-fit mode. Leaving it shows the image at its
// actual size.
func (dv *DocumentView) SetZoomToFit(on bool) {
	if on == dv.adapter.ZoomToFit() {
		return
	}
	dv.adapter.SetZoomToFit(on)
	if !on {
		dv.adapter.SetZoom(1, dv.center())
	}
	if dv.OnZoomToFitChanged != nil {
		dv.OnZoomToFitChanged(on)
	}
}

// ZoomActualSize shows the image at 100%.
func (dv *DocumentView) ZoomActualSize() {
	dv.uncheckZoomToFit()
	dv.adapter.SetZoom(1, dv.center())
}

// ZoomIn moves to the next larger ladder value. It does nothing at the top.
func (dv *DocumentView) ZoomIn(center image.Point) {
	current := dv.adapter.Zoom()
	for _, zoom := range dv.snapValues {
		if zoom > current+realDelta {
			dv.setZoom(zoom, center)
			return
		}
	}
}

// ZoomOut moves to the next smaller ladder value. It does nothing at the
// bottom.
func (dv *DocumentView) ZoomOut(center image.Point) {
	current := dv.adapter.Zoom()
	for i := len(dv.snapValues) - 1; i >= 0; i-- {
		if zoom := dv.snapValues[i]; zoom < current-realDelta {
			dv.setZoom(zoom, center)
			return
		}
	}
}

func (dv *DocumentView) slotZoomChanged(zoom float64) {
	dv.updateCaption()
	if dv.OnZoomChanged != nil {
		dv.OnZoomChanged(zoom)
	}
}
