// Package document owns the image shown by the viewer: it loads it from disk,
// applies orientation edits and tells subscribers when the pixels change.
package document

import (
	"context"
	"image"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"imgview/img"
	"imgview/ods"
)

// Kind is the detected content kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindRaster
)

func (k Kind) String() string {
	if k == KindRaster {
		return "raster"
	}
	return "unknown"
}

// LoadingState tracks where the document is in its life.
type LoadingState int

const (
	Loading LoadingState = iota
	Loaded
	LoadingFailed
)

func (s LoadingState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadingFailed:
		return "failed"
	}
	return "unknown"
}

// EventType tells what an Event reports.
type EventType int

const (
	// EventLoaded is sent after a successful (re)load.
	EventLoaded EventType = iota
	// EventLoadingFailed is sent when the file cannot be shown.
	EventLoadingFailed
	// EventImageRectUpdated is sent after an edit; Rect is the changed area.
	EventImageRectUpdated
)

// Event is delivered to subscribers from the Run goroutine.
type Event struct {
	Type     EventType
	Rect     image.Rectangle
	Snapshot Snapshot
}

// Snapshot is a read-only copy of the document state.
type Snapshot struct {
	Path   string
	Name   string
	Kind   Kind
	State  LoadingState
	Format string
	Image  *img.Image
	Err    error
}

// Size returns the image size, (0, 0) when nothing is loaded.
func (s Snapshot) Size() image.Point {
	return s.Image.Size()
}

// Document runs as a single goroutine (actor model) and receives requests via
// the Requests channel. Only the Run goroutine touches its state.
type Document struct {
	path string
	log  *logrus.Entry

	kind   Kind
	state  LoadingState
	format string
	image  *img.Image
	err    error

	subs    map[int]func(Event)
	nextSub int

	// Requests is the channel for receiving requests.
	Requests chan any
}

// New creates a document for the file at path. Nothing is read until a
// LoadReq is handled.
func New(path string) *Document {
	return &Document{
		path:     path,
		log:      ods.WithField("document", filepath.Base(path)),
		subs:     make(map[int]func(Event)),
		Requests: make(chan any, 64),
	}
}

// Path returns the file path given to New.
func (doc *Document) Path() string {
	return doc.path
}

// Run starts the actor loop. It should be called in a separate goroutine.
func (doc *Document) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-doc.Requests:
			doc.handle(req)
		}
	}
}

func (doc *Document) handle(req any) {
	switch r := req.(type) {
	case SubscribeReq:
		doc.nextSub++
		doc.subs[doc.nextSub] = r.F
		r.Reply <- doc.nextSub

	case UnsubscribeReq:
		delete(doc.subs, r.ID)

	case GetSnapshotReq:
		r.Reply <- doc.makeSnapshot()

	case LoadReq:
		doc.load()

	case SetImageReq:
		doc.setImage(r.Image, r.Rect)

	case TransformReq:
		err := doc.transform(r.Transform)
		if r.Reply != nil {
			r.Reply <- err
		}
	}
}

func (doc *Document) makeSnapshot() Snapshot {
	return Snapshot{
		Path:   doc.path,
		Name:   filepath.Base(doc.path),
		Kind:   doc.kind,
		State:  doc.state,
		Format: doc.format,
		Image:  doc.image,
		Err:    doc.err,
	}
}

func (doc *Document) emit(typ EventType, r image.Rectangle) {
	ev := Event{Type: typ, Rect: r, Snapshot: doc.makeSnapshot()}
	for _, f := range doc.subs {
		f(ev)
	}
}

// --- Internal methods (called from handle) ---

func (doc *Document) load() {
	doc.state = Loading
	im, format, err := LoadFile(doc.path)
	switch {
	case err == ErrUnsupported:
		doc.kind, doc.image = KindUnknown, nil
	case err != nil:
		doc.kind, doc.image = KindRaster, nil
	default:
		doc.kind, doc.image = KindRaster, im
	}
	doc.format, doc.err = format, err
	if err != nil {
		doc.state = LoadingFailed
		doc.log.WithError(err).Warn("loading failed")
		doc.emit(EventLoadingFailed, image.Rectangle{})
		return
	}
	doc.state = Loaded
	doc.log.WithFields(logrus.Fields{
		"format": format,
		"size":   im.Size(),
	}).Debug("loaded")
	doc.emit(EventLoaded, image.Rectangle{Max: im.Size()})
}

func (doc *Document) setImage(im *img.Image, r image.Rectangle) {
	if im.Empty() || doc.state != Loaded {
		return
	}
	full := image.Rectangle{Max: im.Size()}
	if r.Empty() || im.Size() != doc.image.Size() {
		r = full
	}
	doc.image = im
	doc.emit(EventImageRectUpdated, r.Intersect(full))
}

func (doc *Document) transform(t img.Transform) error {
	if doc.state != Loaded || doc.image.Empty() {
		return errors.New("document: no image loaded")
	}
	doc.setImage(doc.image.Transformed(t), image.Rectangle{})
	ods.ODS("document: applied %v", t)
	return nil
}

// --- Client helpers (called from other goroutines) ---

// Subscribe registers f for events and returns a function that removes it.
// f is called from the Run goroutine.
func (doc *Document) Subscribe(f func(Event)) (unsubscribe func()) {
	reply := make(chan int, 1)
	doc.Requests <- SubscribeReq{F: f, Reply: reply}
	id := <-reply
	return func() {
		doc.Requests <- UnsubscribeReq{ID: id}
	}
}

// Snapshot returns the current state.
func (doc *Document) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	doc.Requests <- GetSnapshotReq{Reply: reply}
	return <-reply
}

// Load asks the actor to read the file again.
func (doc *Document) Load() {
	doc.Requests <- LoadReq{}
}

// SetImage replaces the loaded image with an edited version. r is the changed
// area in image coordinates; pass an empty rectangle when unknown. It is
// ignored while nothing is loaded.
func (doc *Document) SetImage(im *img.Image, r image.Rectangle) {
	doc.Requests <- SetImageReq{Image: im, Rect: r}
}

// Transform applies t to the loaded image.
func (doc *Document) Transform(t img.Transform) error {
	reply := make(chan error, 1)
	doc.Requests <- TransformReq{Transform: t, Reply: reply}
	return <-reply
}
