package documentview

import (
	"image"
	"image/color"

	"imgview/gui/imageview"
	"imgview/gui/uiqueue"
	"imgview/img"
	"imgview/imgmgr/document"
)

// Adapter is what a DocumentView shows for its current document. The set of
// implementations is closed: EmptyAdapter, MessageAdapter and ImageAdapter.
type Adapter interface {
	// Kind is the document kind the adapter displays.
	Kind() document.Kind
	CanZoom() bool
	Zoom() float64
	SetZoom(zoom float64, center image.Point)
	ZoomToFit() bool
	SetZoomToFit(on bool)
	// ComputeZoomToFit returns ok == false when no fit can be computed.
	ComputeZoomToFit() (zoom float64, ok bool)
	SetSnapshot(s document.Snapshot)
	Resize(size image.Point)
	Paint(dst *image.NRGBA)
	Close()
}

// base implements the non-zooming parts shared by the simple adapters.
type base struct {
	size image.Point
	bg   color.NRGBA
}

func (b *base) Kind() document.Kind               { return document.KindUnknown }
func (b *base) CanZoom() bool                     { return false }
func (b *base) Zoom() float64                     { return 1 }
func (b *base) SetZoom(float64, image.Point)      {}
func (b *base) ZoomToFit() bool                   { return false }
func (b *base) SetZoomToFit(bool)                 {}
func (b *base) ComputeZoomToFit() (float64, bool) { return 1, false }
func (b *base) SetSnapshot(document.Snapshot)     {}
func (b *base) Resize(size image.Point)           { b.size = size }
func (b *base) Close()                            {}
func (b *base) Paint(dst *image.NRGBA)            { img.Fill(dst, image.Rectangle{Max: b.size}, b.bg) }

// EmptyAdapter is shown when no document is open.
type EmptyAdapter struct {
	base
}

// MessageAdapter shows a text instead of a document: an error, an info
// message while loading, or nothing at all.
type MessageAdapter struct {
	base
	text    string
	detail  string
	isError bool
}

// SetInfoMessage replaces the text with an informational message.
func (a *MessageAdapter) SetInfoMessage(text string) {
	a.text, a.detail, a.isError = text, "", false
}

// SetErrorMessage replaces the text with an error and its details.
func (a *MessageAdapter) SetErrorMessage(text, detail string) {
	a.text, a.detail, a.isError = text, detail, true
}

// Message returns the text, its details and whether it is an error.
func (a *MessageAdapter) Message() (text, detail string, isError bool) {
	return a.text, a.detail, a.isError
}

// ImageAdapter shows raster images through an ImageView.
type ImageAdapter struct {
	view *imageview.ImageView
}

func newImageAdapter(q *uiqueue.Queue, opts imageview.Options) *ImageAdapter {
	return &ImageAdapter{view: imageview.New(q, opts)}
}

// ImageView returns the wrapped view.
func (a *ImageAdapter) ImageView() *imageview.ImageView { return a.view }

func (a *ImageAdapter) Kind() document.Kind { return document.KindRaster }
func (a *ImageAdapter) CanZoom() bool       { return true }
func (a *ImageAdapter) Zoom() float64       { return a.view.Zoom() }
func (a *ImageAdapter) ZoomToFit() bool     { return a.view.ZoomToFit() }
func (a *ImageAdapter) SetZoomToFit(on bool) {
	a.view.SetZoomToFit(on)
}

func (a *ImageAdapter) SetZoom(zoom float64, center image.Point) {
	a.view.SetZoom(zoom, center)
}

func (a *ImageAdapter) ComputeZoomToFit() (float64, bool) {
	return a.view.ComputeZoomToFit()
}

func (a *ImageAdapter) SetSnapshot(s document.Snapshot) {
	a.view.SetImage(s.Image)
}

func (a *ImageAdapter) Resize(size image.Point) { a.view.Resize(size) }
func (a *ImageAdapter) Paint(dst *image.NRGBA)  { a.view.Paint(dst) }
func (a *ImageAdapter) Close()                  { a.view.Close() }
