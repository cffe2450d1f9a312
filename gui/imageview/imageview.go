// Package imageview keeps a viewport-sized pixel buffer in sync with a source
// image while it is zoomed and scrolled.
//
// All methods must be called from the goroutine that drains the uiqueue.Queue
// given to New. Scaled tiles are produced in the background and applied when
// the queue is drained.
package imageview

import (
	"image"
	"image/color"

	"imgview/gui/uiqueue"
	"imgview/img"
	"imgview/scaler"
)

// AlphaBackground selects what is shown behind translucent pixels.
type AlphaBackground int

const (
	AlphaCheckerboard AlphaBackground = iota
	AlphaColor
)

// Options configures an ImageView.
type Options struct {
	Background      color.NRGBA
	AlphaBackground AlphaBackground
	AlphaColor      color.NRGBA

	// SmoothBelow is the zoom from which pixels are magnified without
	// interpolation.
	SmoothBelow float64

	ChunkSize int
	Workers   int
	Quality   img.ScaleQuality
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Background:      color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
		AlphaBackground: AlphaCheckerboard,
		AlphaColor:      color.NRGBA{A: 0xff},
		SmoothBelow:     2,
		ChunkSize:       scaler.DefaultChunkSize,
		Workers:         1,
		Quality:         img.ScaleQualityBeautiful,
	}
}

type ImageView struct {
	opts  Options
	queue *uiqueue.Queue

	src       *img.Image
	viewport  image.Point
	zoom      float64
	zoomToFit bool
	scroll    image.Point

	buffer    *image.NRGBA
	alternate *image.NRGBA
	texture   *image.NRGBA

	scaler *scaler.Scaler
	dirty  image.Rectangle

	// OnZoomChanged is called after every effective zoom change.
	OnZoomChanged func(zoom float64)
}

// New creates an empty view in zoom-to-fit mode.
func New(queue *uiqueue.Queue, opts Options) *ImageView {
	if opts.SmoothBelow <= 0 {
		opts.SmoothBelow = 2
	}
	iv := &ImageView{
		opts:      opts,
		queue:     queue,
		zoom:      1,
		zoomToFit: true,
		texture:   checkerboard(),
	}
	iv.scaler = scaler.New(iv.deliver, scaler.Options{
		ChunkSize: opts.ChunkSize,
		Workers:   opts.Workers,
		Quality:   opts.Quality,
	})
	return iv
}

// Close stops the background scaling workers.
func (iv *ImageView) Close() {
	iv.scaler.Close()
}

// Wait blocks until every requested tile has been rendered. The tiles still
// need to be applied by draining the queue.
func (iv *ImageView) Wait() {
	iv.scaler.Wait()
}

// Image returns the displayed image, nil when empty.
func (iv *ImageView) Image() *img.Image {
	if iv.src.Empty() {
		return nil
	}
	return iv.src
}

// SetImage replaces the displayed image. nil clears the view.
func (iv *ImageView) SetImage(im *img.Image) {
	if im.Empty() {
		im = nil
	}
	iv.src = im
	iv.createBuffer()
	iv.scaler.SetImage(im)
	iv.syncScaler()
	if iv.zoomToFit {
		if fit, ok := iv.ComputeZoomToFit(); ok && iv.setZoom(fit, iv.center()) {
			return
		}
	}
	iv.scroll = iv.clampScroll(iv.scroll)
	iv.requestVisible()
}

// UpdateImageRect replaces the image with an edited version. r is the changed
// area in image coordinates. If the size is unchanged the current buffer is
// kept and only the affected pixels are scaled again.
func (iv *ImageView) UpdateImageRect(im *img.Image, r image.Rectangle) {
	if im.Empty() || iv.src.Empty() || im.Size() != iv.src.Size() || iv.buffer == nil ||
		iv.requiredBufferSize() != iv.buffer.Rect.Size() {
		iv.SetImage(im)
		return
	}
	visible := iv.visibleZoomedRect()
	region := iv.scaler.Pending().Clip(visible)

	iv.src = im
	iv.scaler.SetImage(im)
	iv.syncScaler()

	changed := iv.zoomedRect(r).Inset(-2).Intersect(visible)
	if !changed.Empty() {
		region = append(region, changed)
		iv.markDirty(changed.Sub(iv.scroll).Add(iv.ImageOffset()))
	}
	iv.scaler.SetDestinationRegion(region)
}

// Resize sets the viewport size.
func (iv *ImageView) Resize(size image.Point) {
	if size.X < 0 {
		size.X = 0
	}
	if size.Y < 0 {
		size.Y = 0
	}
	iv.viewport = size
	iv.markDirty(iv.viewportRect())
	if iv.zoomToFit {
		if fit, ok := iv.ComputeZoomToFit(); ok && iv.setZoom(fit, iv.center()) {
			return
		}
	}
	scroll := iv.clampScroll(iv.scroll)
	if scroll != iv.scroll {
		iv.scroll = scroll
		iv.createBuffer()
	} else {
		iv.resizeBuffer()
	}
	iv.requestVisible()
}

// ViewportSize returns the size given to Resize.
func (iv *ImageView) ViewportSize() image.Point {
	return iv.viewport
}

// TakeDirty returns the viewport area changed since the previous call.
func (iv *ImageView) TakeDirty() image.Rectangle {
	r := iv.dirty
	iv.dirty = image.Rectangle{}
	return r
}

func (iv *ImageView) markDirty(r image.Rectangle) {
	r = r.Intersect(iv.viewportRect())
	if !r.Empty() {
		iv.dirty = iv.dirty.Union(r)
	}
}

func (iv *ImageView) viewportRect() image.Rectangle {
	return image.Rectangle{Max: iv.viewport}
}

func (iv *ImageView) center() image.Point {
	return iv.viewport.Div(2)
}
