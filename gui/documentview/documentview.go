// Package documentview hosts the adapter that displays the current document
// and implements the user-facing zoom controls on top of it.
package documentview

import (
	"image"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"imgview/gui/imageview"
	"imgview/gui/uiqueue"
	"imgview/imgmgr/document"
	"imgview/ods"
)

const (
	// DefaultMaximumZoom is the largest zoom reachable by default.
	DefaultMaximumZoom = 16.

	// realDelta is the smallest zoom difference considered a change.
	realDelta = 0.001
	// lowestZoom is the floor of MinimumZoom.
	lowestZoom = 0.001
)

// Options configures a DocumentView. Zero fields take their defaults.
type Options struct {
	View        imageview.Options
	MaximumZoom float64
	Language    language.Tag
}

// DocumentView shows one document at a time. Like ImageView, it is owned by
// the goroutine draining its queue; document events are posted there.
type DocumentView struct {
	queue   *uiqueue.Queue
	opts    Options
	log     *logrus.Entry
	printer *message.Printer

	adapter     Adapter
	doc         *document.Document
	snap        document.Snapshot
	unsubscribe func()
	size        image.Point
	snapValues  []float64
	caption     string

	OnZoomChanged        func(zoom float64)
	OnMinimumZoomChanged func(min float64)
	OnZoomToFitChanged   func(on bool)
	OnCaptionChanged     func(caption string)
	OnAdapterChanged     func()
	// OnCompleted is called once the document is loaded or failed to load.
	OnCompleted func()
}

// New creates a view showing a blank message.
func New(queue *uiqueue.Queue, opts Options) *DocumentView {
	if opts.View == (imageview.Options{}) {
		opts.View = imageview.DefaultOptions()
	}
	if opts.MaximumZoom < 1 {
		opts.MaximumZoom = DefaultMaximumZoom
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	dv := &DocumentView{
		queue:   queue,
		opts:    opts,
		log:     ods.WithField("component", "documentview"),
		printer: message.NewPrinter(opts.Language),
	}
	dv.setCurrentAdapter(dv.newMessageAdapter())
	return dv
}

// Close releases the adapter and drops the document subscription.
func (dv *DocumentView) Close() {
	dv.disconnect()
	dv.adapter.Close()
}

// Adapter returns the current adapter.
func (dv *DocumentView) Adapter() Adapter {
	return dv.adapter
}

// ImageView returns the image view of the current adapter, nil when the
// document is not a raster image.
func (dv *DocumentView) ImageView() *imageview.ImageView {
	if a, ok := dv.adapter.(*ImageAdapter); ok {
		return a.ImageView()
	}
	return nil
}

// Document returns the open document, nil after Reset.
func (dv *DocumentView) Document() *document.Document {
	return dv.doc
}

// IsEmpty reports whether no document is open.
func (dv *DocumentView) IsEmpty() bool {
	_, ok := dv.adapter.(*EmptyAdapter)
	return ok
}

func (dv *DocumentView) newMessageAdapter() *MessageAdapter {
	a := &MessageAdapter{}
	a.bg = dv.opts.View.Background
	return a
}

func (dv *DocumentView) setCurrentAdapter(a Adapter) {
	if dv.adapter != nil {
		dv.adapter.Close()
	}
	dv.adapter = a
	if ia, ok := a.(*ImageAdapter); ok {
		ia.view.OnZoomChanged = dv.slotZoomChanged
	}
	a.Resize(dv.size)
	if dv.OnAdapterChanged != nil {
		dv.OnAdapterChanged()
	}
	if a.CanZoom() && dv.OnZoomToFitChanged != nil {
		dv.OnZoomToFitChanged(a.ZoomToFit())
	}
}

func (dv *DocumentView) createAdapterForDocument(kind document.Kind) {
	if dv.adapter != nil && kind == dv.adapter.Kind() && kind != document.KindUnknown {
		dv.log.Trace("reusing current adapter")
		return
	}
	switch kind {
	case document.KindRaster:
		dv.setCurrentAdapter(newImageAdapter(dv.queue, dv.opts.View))
	default:
		a := dv.newMessageAdapter()
		a.SetErrorMessage(dv.printer.Sprintf("imgview does not know how to display this kind of document"), "")
		dv.setCurrentAdapter(a)
	}
}

// disconnect tears down the subscription to the current document.
func (dv *DocumentView) disconnect() {
	if dv.unsubscribe != nil {
		dv.unsubscribe()
		dv.unsubscribe = nil
	}
}

// OpenDocument shows doc. The document actor must be running. Loading is up
// to the caller; the view follows whatever state the document reports.
func (dv *DocumentView) OpenDocument(doc *document.Document) {
	dv.disconnect()
	dv.doc = doc
	dv.unsubscribe = doc.Subscribe(func(ev document.Event) {
		dv.queue.Post(func() {
			dv.handleEvent(doc, ev)
		})
	})

	dv.snap = doc.Snapshot()
	if dv.snap.State == document.Loading {
		if a, ok := dv.adapter.(*MessageAdapter); ok {
			a.SetInfoMessage("")
		}
		dv.updateCaption()
		return
	}
	dv.finishOpen()
}

// Reset closes the document and shows nothing.
func (dv *DocumentView) Reset() {
	dv.disconnect()
	dv.doc = nil
	dv.snap = document.Snapshot{}
	a := &EmptyAdapter{}
	a.bg = dv.opts.View.Background
	dv.setCurrentAdapter(a)
	dv.updateCaption()
}

func (dv *DocumentView) handleEvent(doc *document.Document, ev document.Event) {
	if doc != dv.doc {
		// Late event from a document that has been replaced.
		return
	}
	dv.snap = ev.Snapshot
	switch ev.Type {
	case document.EventLoaded:
		dv.finishOpen()
	case document.EventLoadingFailed:
		dv.slotLoadingFailed()
	case document.EventImageRectUpdated:
		if a, ok := dv.adapter.(*ImageAdapter); ok {
			a.view.UpdateImageRect(ev.Snapshot.Image, ev.Rect)
			dv.updateZoomSnapValues()
		}
		dv.updateCaption()
	}
}

func (dv *DocumentView) finishOpen() {
	if dv.snap.State == document.LoadingFailed {
		dv.slotLoadingFailed()
		return
	}
	dv.createAdapterForDocument(dv.snap.Kind)
	dv.adapter.SetSnapshot(dv.snap)
	dv.updateCaption()
	if dv.snap.State == document.Loaded {
		dv.slotLoaded()
	}
}

func (dv *DocumentView) slotLoaded() {
	dv.updateCaption()
	dv.updateZoomSnapValues()
	if !dv.adapter.ZoomToFit() {
		if min := dv.MinimumZoom(); dv.adapter.Zoom() < min {
			dv.adapter.SetZoom(min, dv.center())
		}
	}
	if dv.OnCompleted != nil {
		dv.OnCompleted()
	}
}

func (dv *DocumentView) slotLoadingFailed() {
	if dv.snap.Kind == document.KindUnknown {
		dv.createAdapterForDocument(document.KindUnknown)
	} else {
		a := dv.newMessageAdapter()
		var detail string
		if dv.snap.Err != nil {
			detail = dv.snap.Err.Error()
		}
		a.SetErrorMessage(dv.printer.Sprintf("Loading %s failed", dv.snap.Name), detail)
		dv.setCurrentAdapter(a)
	}
	dv.updateCaption()
	if dv.OnCompleted != nil {
		dv.OnCompleted()
	}
}

// Resize forwards the new size to the adapter.
func (dv *DocumentView) Resize(size image.Point) {
	dv.size = size
	dv.adapter.Resize(size)
	dv.updateZoomSnapValues()
}

// Size returns the size given to Resize.
func (dv *DocumentView) Size() image.Point {
	return dv.size
}

// Paint draws the current adapter into dst.
func (dv *DocumentView) Paint(dst *image.NRGBA) {
	dv.adapter.Paint(dst)
}

// Position returns the scroll position, (0, 0) for adapters that do not
// scroll.
func (dv *DocumentView) Position() image.Point {
	if iv := dv.ImageView(); iv != nil {
		return iv.Scroll()
	}
	return image.Point{}
}

// SetPosition scrolls the image view.
func (dv *DocumentView) SetPosition(p image.Point) {
	if iv := dv.ImageView(); iv != nil {
		iv.SetScroll(p)
	}
}

func (dv *DocumentView) center() image.Point {
	return dv.size.Div(2)
}

// Caption returns the last caption sent to OnCaptionChanged.
func (dv *DocumentView) Caption() string {
	return dv.caption
}

// plain formats v without digit grouping.
func plain(v int) number.Formatter {
	return number.Decimal(v, number.NoSeparator())
}

func (dv *DocumentView) updateCaption() {
	caption := ""
	if dv.doc != nil {
		caption = dv.snap.Name
		if size := dv.snap.Size(); size.X > 0 && size.Y > 0 {
			caption += dv.printer.Sprintf(" - %vx%v", plain(size.X), plain(size.Y))
			if dv.adapter.CanZoom() {
				caption += dv.printer.Sprintf(" - %v%%", plain(int(math.Round(dv.adapter.Zoom()*100))))
			}
		}
	}
	dv.caption = caption
	if dv.OnCaptionChanged != nil {
		dv.OnCaptionChanged(caption)
	}
}
