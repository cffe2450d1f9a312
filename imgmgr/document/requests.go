package document

import (
	"image"

	"imgview/img"
)

// --- Synchronous requests (wait for Reply) ---

// SubscribeReq registers an event handler.
type SubscribeReq struct {
	F     func(Event)
	Reply chan<- int
}

// GetSnapshotReq requests the current document state.
type GetSnapshotReq struct {
	Reply chan<- Snapshot
}

// TransformReq requests an orientation change of the loaded image.
type TransformReq struct {
	Transform img.Transform
	Reply     chan<- error
}

// --- Asynchronous requests (fire and forget) ---

// UnsubscribeReq removes an event handler.
type UnsubscribeReq struct {
	ID int
}

// LoadReq requests (re)loading the file from disk.
type LoadReq struct{}

// SetImageReq replaces the image with an edited version. Rect is the changed
// area; an empty Rect means the whole image.
type SetImageReq struct {
	Image *img.Image
	Rect  image.Rectangle
}
