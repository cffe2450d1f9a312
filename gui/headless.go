package gui

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"imgview/config"
	"imgview/gui/documentview"
	"imgview/gui/uiqueue"
	"imgview/imgmgr/document"
)

// RenderOptions selects what RenderFile paints.
type RenderOptions struct {
	Size image.Point
	// Zoom of 0 keeps the configured start mode.
	Zoom float64
	// Position is the scroll position applied after zooming.
	Position image.Point
}

// RenderFile paints the file at path the way the viewer would show it, waiting
// until every tile is in place.
func RenderFile(ctx context.Context, path string, cfg config.Config, opts RenderOptions) (*image.NRGBA, error) {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		return nil, errors.Errorf("gui: invalid render size %v", opts.Size)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := uiqueue.New()
	dv := documentview.New(q, ViewOptions(cfg))
	defer dv.Close()
	dv.Resize(opts.Size)

	completed := false
	dv.OnCompleted = func() { completed = true }
	dv.OnAdapterChanged = func() {
		if iv := dv.ImageView(); iv != nil && !cfg.StartZoomToFit {
			iv.SetZoomToFit(false)
		}
	}

	doc := document.New(path)
	go doc.Run(ctx)
	dv.OpenDocument(doc)
	doc.Load()
	for !completed {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "gui: rendering aborted")
		case <-q.Ready():
			q.Drain()
		}
	}

	snap := doc.Snapshot()
	if snap.State == document.LoadingFailed {
		return nil, errors.Wrapf(snap.Err, "gui: cannot load %s", snap.Name)
	}
	if opts.Zoom > 0 {
		dv.SetZoom(opts.Zoom)
	}
	dv.SetPosition(opts.Position)

	if iv := dv.ImageView(); iv != nil {
		for {
			iv.Wait()
			if q.Drain() == 0 {
				break
			}
		}
	}
	dst := image.NewNRGBA(image.Rectangle{Max: opts.Size})
	dv.Paint(dst)
	return dst, nil
}
