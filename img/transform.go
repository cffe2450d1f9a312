package img

import (
	"image"

	"github.com/disintegration/gift"
)

// Transform is an orientation change applied by the editing layer.
type Transform int

const (
	TransformNone Transform = iota
	TransformFlipX
	TransformFlipY
	TransformRotate90
	TransformRotate180
	TransformRotate270
)

func (t Transform) String() string {
	switch t {
	case TransformNone:
		return "none"
	case TransformFlipX:
		return "flip-x"
	case TransformFlipY:
		return "flip-y"
	case TransformRotate90:
		return "rotate-90"
	case TransformRotate180:
		return "rotate-180"
	case TransformRotate270:
		return "rotate-270"
	}
	return "unknown"
}

func (t Transform) filter() gift.Filter {
	switch t {
	case TransformFlipX:
		return gift.FlipHorizontal()
	case TransformFlipY:
		return gift.FlipVertical()
	case TransformRotate90:
		return gift.Rotate270() // gift rotates counter-clockwise
	case TransformRotate180:
		return gift.Rotate180()
	case TransformRotate270:
		return gift.Rotate90()
	}
	return nil
}

// Transformed returns a new image with t applied. The receiver is unchanged.
// Rotations are clockwise.
func (img *Image) Transformed(t Transform) *Image {
	if img.Empty() {
		return nil
	}
	f := t.filter()
	if f == nil {
		return img
	}
	g := gift.New(f)
	tmp := image.NewNRGBA(g.Bounds(img.nrgba.Rect))
	g.Draw(tmp, img.nrgba)
	return &Image{
		nrgba:    tmp,
		hasAlpha: img.hasAlpha,
	}
}
