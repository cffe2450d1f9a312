// Package scaler produces zoomed pixels for parts of an image in the
// background.
//
// The caller describes what it needs as a Region in zoomed-image coordinates.
// The region is cut into chunks, each chunk is scaled by a worker and handed
// to the deliver callback as a Tile. Every Tile carries the epoch that was
// current when its work was scheduled; changing the image, the zoom or the
// transformation mode starts a new epoch, so consumers can drop tiles that
// were computed for a coordinate space that no longer exists.
package scaler

import (
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"imgview/img"
	"imgview/jobqueue"
	"imgview/ods"
)

// DefaultChunkSize is the largest tile edge produced by default.
const DefaultChunkSize = 200

// Mode selects the interpolation used when magnifying.
type Mode int

const (
	// ModeSmooth interpolates between source pixels.
	ModeSmooth Mode = iota
	// ModeFast repeats source pixels (nearest neighbour).
	ModeFast
)

func (m Mode) String() string {
	if m == ModeFast {
		return "fast"
	}
	return "smooth"
}

// Tile is one finished chunk.
type Tile struct {
	Epoch uint64
	// Image bounds are the tile position in zoomed-image coordinates.
	Image *image.NRGBA
}

// Rect returns the tile position in zoomed-image coordinates.
func (t Tile) Rect() image.Rectangle {
	return t.Image.Rect
}

// Options configures a Scaler.
type Options struct {
	ChunkSize int
	Workers   int
	Quality   img.ScaleQuality
}

// Scaler schedules chunk jobs for the most recent destination region.
type Scaler struct {
	jq        *jobqueue.JobQueue
	deliver   func(Tile)
	chunkSize int
	quality   img.ScaleQuality
	log       *logrus.Entry

	mu        sync.Mutex
	src       *img.Image
	zoom      float64
	mode      Mode
	epoch     uint64
	regionGen uint64
	pending   map[image.Rectangle]struct{}
}

// New creates a Scaler. deliver is called from worker goroutines.
func New(deliver func(Tile), opts Options) *Scaler {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	s := &Scaler{
		jq:        jobqueue.New(opts.Workers),
		deliver:   deliver,
		chunkSize: opts.ChunkSize,
		quality:   opts.Quality,
		log:       ods.WithField("component", "scaler"),
		zoom:      1,
		pending:   make(map[image.Rectangle]struct{}),
	}
	s.jq.OnError = func(err error) {
		s.log.WithError(err).Warn("scaling failed")
	}
	return s
}

// Close cancels outstanding work and stops the workers.
func (s *Scaler) Close() {
	s.jq.Close()
}

// Wait blocks until all scheduled chunks have been delivered or skipped.
func (s *Scaler) Wait() {
	s.jq.Wait()
}

// Epoch returns the current epoch.
func (s *Scaler) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// newEpochLocked invalidates everything scheduled so far.
func (s *Scaler) newEpochLocked() {
	s.epoch++
	s.regionGen++
	s.pending = make(map[image.Rectangle]struct{})
	s.jq.CancelAll()
}

// SetImage replaces the source image. nil means no image.
func (s *Scaler) SetImage(im *img.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = im
	s.newEpochLocked()
}

// SetZoom changes the scale factor of subsequent work.
func (s *Scaler) SetZoom(zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoom == s.zoom {
		return
	}
	s.zoom = zoom
	s.newEpochLocked()
}

// Zoom returns the current scale factor.
func (s *Scaler) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// SetTransformationMode changes the interpolation of subsequent work.
func (s *Scaler) SetTransformationMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.newEpochLocked()
}

// TransformationMode returns the current interpolation mode.
func (s *Scaler) TransformationMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Pending returns the chunks of the current region that have not been
// delivered yet.
func (s *Scaler) Pending() Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make(Region, 0, len(s.pending))
	for rect := range s.pending {
		r = append(r, rect)
	}
	return r
}

// SetDestinationRegion replaces the work target. Chunks of the previous
// target that have not started are dropped.
func (s *Scaler) SetDestinationRegion(region Region) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regionGen++
	s.pending = make(map[image.Rectangle]struct{})
	s.jq.CancelAll()

	if s.src.Empty() || !(s.zoom > 0) {
		return
	}
	j := &job{
		src:     s.src,
		zoom:    s.zoom,
		size:    s.src.ZoomedSize(s.zoom),
		mode:    s.mode,
		quality: s.quality,
		epoch:   s.epoch,
	}
	chunks := region.Clip(image.Rectangle{Max: j.size}).Chunks(s.chunkSize)
	if len(chunks) == 0 {
		return
	}
	s.log.WithFields(logrus.Fields{
		"epoch":  j.epoch,
		"zoom":   j.zoom,
		"mode":   j.mode,
		"chunks": len(chunks),
	}).Trace("destination region")

	gen := s.regionGen
	for _, c := range chunks {
		s.pending[c] = struct{}{}
		s.jq.Enqueue(func(ctx context.Context) error {
			tile, err := j.render(ctx, c)
			if err != nil {
				return err
			}
			s.finish(gen, tile)
			return nil
		})
	}
}

func (s *Scaler) finish(gen uint64, t Tile) {
	s.mu.Lock()
	if gen == s.regionGen {
		delete(s.pending, t.Rect())
	}
	s.mu.Unlock()
	s.deliver(t)
}

// job is a snapshot of the scaling parameters shared by the chunks of one
// destination region.
type job struct {
	src     *img.Image
	zoom    float64
	size    image.Point
	mode    Mode
	quality img.ScaleQuality
	epoch   uint64
}

func (j *job) render(ctx context.Context, r image.Rectangle) (Tile, error) {
	dst := image.NewNRGBA(r)
	src := j.src.NRGBA()
	srcSize := src.Rect.Size()

	switch {
	case j.size == srcSize:
		img.Copy(dst, r, src, r.Min)

	case j.mode == ModeSmooth && j.size.X <= srcSize.X && j.size.Y <= srcSize.Y:
		scaled, err := j.src.Downscaled(ctx, j.size, j.quality)
		if err != nil {
			return Tile{}, errors.Wrap(err, "scaler: cannot prepare downscaled image")
		}
		img.Copy(dst, r, scaled, r.Min)

	default:
		// The transform maps the whole source onto the whole zoomed image, so a
		// destination pixel depends only on its own zoomed-image coordinate.
		var interp draw.Interpolator = draw.BiLinear
		if j.mode == ModeFast {
			interp = draw.NearestNeighbor
		}
		s2d := f64.Aff3{
			float64(j.size.X) / float64(srcSize.X), 0, 0,
			0, float64(j.size.Y) / float64(srcSize.Y), 0,
		}
		interp.Transform(dst, s2d, src, src.Rect, draw.Src, nil)
	}

	if err := ctx.Err(); err != nil {
		return Tile{}, err
	}
	return Tile{Epoch: j.epoch, Image: dst}, nil
}
