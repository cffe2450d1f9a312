package img

import (
	"context"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/oov/downscale"
	"github.com/pkg/errors"
)

// ScaleQuality represents the quality of image downscaling
type ScaleQuality int

const (
	// ScaleQualityBeautiful uses gamma-corrected area averaging for high quality downscaling
	ScaleQualityBeautiful ScaleQuality = iota
	// ScaleQualityFast uses plain area averaging
	ScaleQualityFast
)

func (q ScaleQuality) String() string {
	switch q {
	case ScaleQualityBeautiful:
		return "beautiful"
	case ScaleQualityFast:
		return "fast"
	}
	return "unknown"
}

// gammaTable22 is a cached gamma table for gamma=2.2
var (
	gammaTable22     *downscale.GammaTable
	gammaTable22Once sync.Once
)

func getGammaTable22() *downscale.GammaTable {
	gammaTable22Once.Do(func() {
		gammaTable22 = downscale.NewGammaTable(2.2)
	})
	return gammaTable22
}

// Image is a source raster shown by the viewer. Its pixels never change after
// New; edits produce a new Image.
type Image struct {
	nrgba    *image.NRGBA
	hasAlpha bool

	mu sync.Mutex
	// scaledImages caches downscaled images by quality.
	// All entries share scaledSize; a request for another size drops them.
	scaledImages map[ScaleQuality]*image.NRGBA
	scaledSize   image.Point
}

// New copies src into an NRGBA image whose bounds start at (0, 0).
// It returns nil for a nil or empty source.
func New(src image.Image) *Image {
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	b := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if s, ok := src.(*image.NRGBA); ok {
		Copy(nrgba, nrgba.Rect, s, b.Min)
	} else {
		draw.Draw(nrgba, nrgba.Rect, src, b.Min, draw.Src)
	}
	return &Image{
		nrgba:    nrgba,
		hasAlpha: !nrgba.Opaque(),
	}
}

// Empty reports whether img has no pixels. A nil *Image is empty.
func (img *Image) Empty() bool {
	return img == nil || img.nrgba.Rect.Empty()
}

// NRGBA returns the pixels. Callers must not modify them.
func (img *Image) NRGBA() *image.NRGBA {
	if img == nil {
		return nil
	}
	return img.nrgba
}

// Size returns the image dimensions, (0, 0) for an empty image.
func (img *Image) Size() image.Point {
	if img.Empty() {
		return image.Point{}
	}
	return img.nrgba.Rect.Size()
}

// HasAlpha reports whether any pixel is not fully opaque.
func (img *Image) HasAlpha() bool {
	return img != nil && img.hasAlpha
}

// ZoomedSize returns size scaled by zoom, rounded to whole pixels. A non-empty
// axis never shrinks below one pixel.
func ZoomedSize(size image.Point, zoom float64) image.Point {
	if size.X <= 0 || size.Y <= 0 || !(zoom > 0) {
		return image.Point{}
	}
	r := image.Pt(
		int(math.Floor(float64(size.X)*zoom+0.5)),
		int(math.Floor(float64(size.Y)*zoom+0.5)),
	)
	if r.X < 1 {
		r.X = 1
	}
	if r.Y < 1 {
		r.Y = 1
	}
	return r
}

// ZoomedSize is ZoomedSize(img.Size(), zoom).
func (img *Image) ZoomedSize(zoom float64) image.Point {
	return ZoomedSize(img.Size(), zoom)
}

// Downscaled returns the whole image reduced to size. The result is cached per
// quality until another size is requested. size must not exceed the image size.
func (img *Image) Downscaled(ctx context.Context, size image.Point, quality ScaleQuality) (*image.NRGBA, error) {
	if img.Empty() {
		return nil, errors.New("img: empty image")
	}
	src := img.nrgba
	if size == src.Rect.Size() {
		return src, nil
	}
	if size.X <= 0 || size.Y <= 0 || size.X > src.Rect.Dx() || size.Y > src.Rect.Dy() {
		return nil, errors.Errorf("img: invalid downscale size %v for %v", size, src.Rect.Size())
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	// Check if we need to reset cache (size changed)
	if img.scaledSize != size {
		img.scaledImages = nil
		img.scaledSize = size
	}
	if cached, ok := img.scaledImages[quality]; ok {
		return cached, nil
	}

	tmp := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	var err error
	switch quality {
	case ScaleQualityFast:
		err = downscale.NRGBAFast(ctx, tmp, src)
	default:
		err = downscale.NRGBAGammaWithTable(ctx, tmp, src, getGammaTable22())
	}
	if err != nil {
		return nil, errors.Wrap(err, "img: downscale failed")
	}
	if img.scaledImages == nil {
		img.scaledImages = make(map[ScaleQuality]*image.NRGBA)
	}
	img.scaledImages[quality] = tmp
	return tmp, nil
}
