package imageview

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"imgview/gui/uiqueue"
	"imgview/img"
	"imgview/scaler"
)

func gradient(w, h int, alpha uint8) *img.Image {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x ^ y), A: alpha})
		}
	}
	return img.New(m)
}

func newView(t *testing.T, viewport image.Point) (*ImageView, *uiqueue.Queue) {
	t.Helper()
	q := uiqueue.New()
	opts := DefaultOptions()
	opts.Workers = 3
	opts.ChunkSize = 32
	iv := New(q, opts)
	t.Cleanup(iv.Close)
	iv.Resize(viewport)
	return iv, q
}

// settle waits until every requested tile has been applied.
func settle(iv *ImageView, q *uiqueue.Queue) {
	for {
		iv.Wait()
		if q.Drain() == 0 {
			return
		}
	}
}

func TestComputeZoomToFitExample(t *testing.T) {
	iv, _ := newView(t, image.Pt(800, 600))
	iv.SetImage(img.New(image.NewNRGBA(image.Rect(0, 0, 4000, 3000))))

	fit, ok := iv.ComputeZoomToFit()
	if !ok || math.Abs(fit-0.2) > 1e-9 {
		t.Fatalf("ComputeZoomToFit() = %v, %v; want 0.2, true", fit, ok)
	}
	if z := iv.Zoom(); math.Abs(z-0.2) > 1e-9 {
		t.Errorf("Zoom() = %v, want 0.2", z)
	}
	if got := iv.Buffer().Rect.Size(); got != image.Pt(800, 600) {
		t.Errorf("buffer size = %v, want 800x600", got)
	}
	if got := iv.ImageOffset(); got != (image.Point{}) {
		t.Errorf("ImageOffset() = %v, want (0,0)", got)
	}
}

func TestComputeZoomToFitBounds(t *testing.T) {
	sizes := []image.Point{{1, 1}, {10, 1000}, {1000, 10}, {640, 480}, {3, 7}, {1920, 1080}}
	viewports := []image.Point{{1, 1}, {100, 100}, {800, 600}, {1024, 100}, {7, 3000}}
	for _, s := range sizes {
		for _, v := range viewports {
			iv := &ImageView{src: img.New(image.NewNRGBA(image.Rectangle{Max: s})), viewport: v}
			fit, ok := iv.ComputeZoomToFit()
			if !ok {
				t.Fatalf("image %v viewport %v: ok = false", s, v)
			}
			if fit > 1 {
				t.Errorf("image %v viewport %v: fit = %v > 1", s, v, fit)
			}
			w, h := float64(s.X)*fit, float64(s.Y)*fit
			if w > float64(v.X)+1e-9 || h > float64(v.Y)+1e-9 {
				t.Errorf("image %v viewport %v: %vx%v does not fit", s, v, w, h)
			}
			if fit < 1 && math.Abs(w-float64(v.X)) > 1e-9 && math.Abs(h-float64(v.Y)) > 1e-9 {
				t.Errorf("image %v viewport %v: no axis is constraining at %v", s, v, fit)
			}
		}
	}
}

func TestEmptyImageAndViewport(t *testing.T) {
	iv, q := newView(t, image.Pt(0, 0))
	iv.SetImage(gradient(20, 20, 255))
	settle(iv, q)
	if iv.Buffer() != nil {
		t.Error("buffer allocated for a zero viewport")
	}
	if _, ok := iv.ComputeZoomToFit(); ok {
		t.Error("ComputeZoomToFit() ok for a zero viewport")
	}
	if !iv.scaler.Pending().Empty() {
		t.Error("scaler has work for a zero viewport")
	}

	iv.Resize(image.Pt(50, 50))
	settle(iv, q)
	if iv.Buffer() == nil {
		t.Fatal("no buffer after resize")
	}

	iv.SetImage(nil)
	settle(iv, q)
	if iv.Buffer() != nil || iv.Image() != nil {
		t.Error("view not cleared by SetImage(nil)")
	}
	if _, ok := iv.ComputeZoomToFit(); ok {
		t.Error("ComputeZoomToFit() ok without an image")
	}
}

func TestFixedPointZoom(t *testing.T) {
	iv, q := newView(t, image.Pt(400, 300))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(2000, 1500, 255))
	iv.SetZoomCentered(1)
	iv.SetScroll(image.Pt(800, 600))

	anchors := []image.Point{{0, 0}, {100, 50}, {399, 299}, {200, 150}, {37, 250}}
	zooms := []float64{2, 3, 1.5, 1.25, 2.5, 1}
	for _, p := range anchors {
		for _, z := range zooms {
			before := iv.MapToImage(p)
			iv.SetZoom(z, p)
			after := iv.MapToImage(p)
			if d := after.Sub(before); d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
				t.Errorf("zoom %v anchor %v: image point %v -> %v", z, p, before, after)
			}
			if iv.Zoom() != z {
				t.Fatalf("Zoom() = %v, want %v", iv.Zoom(), z)
			}
		}
	}
	settle(iv, q)
}

func TestSetZoomIgnoresTinyChanges(t *testing.T) {
	iv, _ := newView(t, image.Pt(100, 100))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(50, 50, 255))
	n := 0
	iv.OnZoomChanged = func(float64) { n++ }
	iv.SetZoomCentered(1.0005)
	if iv.Zoom() != 1 || n != 0 {
		t.Errorf("Zoom() = %v after a change below 0.001, calls = %d", iv.Zoom(), n)
	}
	iv.SetZoomCentered(2)
	if iv.Zoom() != 2 || n != 1 {
		t.Errorf("Zoom() = %v, calls = %d; want 2, 1", iv.Zoom(), n)
	}
	if got := iv.Buffer().Rect.Size(); got != image.Pt(100, 100) {
		t.Errorf("buffer size = %v, want 100x100", got)
	}
	if iv.scaler.TransformationMode() != scaler.ModeFast {
		t.Error("zoom 2 does not use fast mode")
	}
}

func TestSetZoomLeavesZoomToFit(t *testing.T) {
	iv, _ := newView(t, image.Pt(100, 100))
	iv.SetImage(gradient(400, 200, 255))
	if !iv.ZoomToFit() {
		t.Fatal("new view is not in zoom-to-fit mode")
	}
	iv.SetZoom(2, image.Pt(50, 50))
	if iv.ZoomToFit() || iv.Zoom() != 2 {
		t.Fatalf("zoom = %v fit = %v, want 2 without fit", iv.Zoom(), iv.ZoomToFit())
	}
	iv.SetScroll(image.Pt(30, 20))
	if got := iv.Scroll(); got != image.Pt(30, 20) {
		t.Errorf("Scroll() = %v, want (30,20)", got)
	}
	iv.Resize(image.Pt(120, 80))
	if iv.Zoom() != 2 {
		t.Errorf("Zoom() = %v after resize, want 2", iv.Zoom())
	}
}

func TestZoomToFitResetsScroll(t *testing.T) {
	iv, _ := newView(t, image.Pt(100, 80))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(400, 300, 255))
	iv.SetScroll(image.Pt(50, 40))
	if iv.Scroll() != image.Pt(50, 40) {
		t.Fatalf("Scroll() = %v", iv.Scroll())
	}
	iv.SetZoomToFit(true)
	if iv.Scroll() != (image.Point{}) {
		t.Errorf("Scroll() = %v in zoom-to-fit mode", iv.Scroll())
	}
	if z := iv.Zoom(); math.Abs(z-0.25) > 1e-9 {
		t.Errorf("Zoom() = %v, want 0.25", z)
	}
	iv.SetScroll(image.Pt(10, 10))
	if iv.Scroll() != (image.Point{}) {
		t.Error("scrolled in zoom-to-fit mode")
	}
}

func TestScrollClamped(t *testing.T) {
	iv, _ := newView(t, image.Pt(100, 80))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(150, 60, 255))
	iv.SetScroll(image.Pt(1000, 1000))
	if got := iv.Scroll(); got != image.Pt(50, 0) {
		t.Errorf("Scroll() = %v, want (50,0)", got)
	}
	iv.ScrollBy(image.Pt(-70, 5))
	if got := iv.Scroll(); got != image.Pt(0, 0) {
		t.Errorf("Scroll() = %v, want (0,0)", got)
	}
	// The image is shorter than the viewport, so it is centred vertically.
	if got := iv.ImageOffset(); got != image.Pt(0, 10) {
		t.Errorf("ImageOffset() = %v, want (0,10)", got)
	}
}

func TestMapping(t *testing.T) {
	iv, _ := newView(t, image.Pt(200, 100))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(100, 200, 255))
	iv.SetZoomCentered(2)
	iv.SetScroll(image.Pt(0, 60))
	// buffer 200x100, no offset
	if got := iv.MapToViewport(image.Pt(10, 40)); got != image.Pt(20, 20) {
		t.Errorf("MapToViewport = %v, want (20,20)", got)
	}
	if got := iv.MapToImage(image.Pt(21, 21)); got != image.Pt(10, 40) {
		t.Errorf("MapToImage = %v, want (10,40)", got)
	}
	r := iv.MapRectToViewport(image.Rect(10, 40, 20, 50))
	if r != image.Rect(20, 20, 40, 40) {
		t.Errorf("MapRectToViewport = %v", r)
	}
	if got := iv.MapRectToImage(r); got != image.Rect(10, 40, 20, 50) {
		t.Errorf("MapRectToImage = %v", got)
	}

	iv.SetZoomCentered(0.5)
	// 50x100 image in a 200x100 viewport: centred horizontally.
	if got := iv.ImageOffset(); got != image.Pt(75, 0) {
		t.Fatalf("ImageOffset() = %v, want (75,0)", got)
	}
	if got := iv.MapToViewport(image.Pt(0, 0)); got != image.Pt(75, 0) {
		t.Errorf("MapToViewport(0,0) = %v, want (75,0)", got)
	}
	if got := iv.MapToImage(image.Pt(125, 50)); got != image.Pt(100, 100) {
		t.Errorf("MapToImage = %v, want (100,100)", got)
	}
}

func TestApplyTileIdempotent(t *testing.T) {
	iv, q := newView(t, image.Pt(64, 48))
	iv.SetImage(gradient(64, 48, 255))
	settle(iv, q)

	tile := image.NewNRGBA(image.Rect(10, 10, 30, 30))
	img.Fill(tile, tile.Rect, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	tl := scaler.Tile{Epoch: iv.scaler.Epoch(), Image: tile}

	if !iv.applyTile(tl) {
		t.Fatal("tile rejected")
	}
	once := append([]byte(nil), iv.Buffer().Pix...)
	if !iv.applyTile(tl) {
		t.Fatal("tile rejected the second time")
	}
	if !bytes.Equal(once, iv.Buffer().Pix) {
		t.Error("applying a tile twice changed the buffer")
	}
	if got := iv.Buffer().NRGBAAt(15, 15); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
	iv.TakeDirty()
	iv.applyTile(tl)
	if got := iv.TakeDirty(); got != image.Rect(10, 10, 30, 30) {
		t.Errorf("dirty = %v, want (10,10)-(30,30)", got)
	}
}

func TestApplyTileDropsStale(t *testing.T) {
	iv, q := newView(t, image.Pt(64, 48))
	iv.SetImage(gradient(64, 48, 255))
	settle(iv, q)
	before := append([]byte(nil), iv.Buffer().Pix...)

	tile := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	if iv.applyTile(scaler.Tile{Epoch: iv.scaler.Epoch() - 1, Image: tile}) {
		t.Error("tile from an older epoch applied")
	}
	far := image.NewNRGBA(image.Rect(500, 500, 516, 516))
	if iv.applyTile(scaler.Tile{Epoch: iv.scaler.Epoch(), Image: far}) {
		t.Error("tile outside the buffer applied")
	}
	if !bytes.Equal(before, iv.Buffer().Pix) {
		t.Error("buffer changed")
	}

	// Tiles computed before a zoom change arrive after it.
	iv.SetZoomToFit(false)
	iv.scaler.Wait()
	q.Drain()
	stale := scaler.Tile{Epoch: iv.scaler.Epoch(), Image: image.NewNRGBA(image.Rect(0, 0, 8, 8))}
	iv.SetZoomCentered(3)
	if iv.applyTile(stale) {
		t.Error("tile applied across a zoom change")
	}
	settle(iv, q)
}

func TestScrollThenPatchEquivalence(t *testing.T) {
	src := gradient(300, 200, 255)
	viewport := image.Pt(100, 80)
	steps := []image.Point{{7, 0}, {0, 13}, {-20, 5}, {45, -30}, {-3, -3}, {150, 90}, {-1, 1}}

	for _, zoom := range []float64{0.5, 1, 1.5, 2, 4} {
		for _, drain := range []bool{true, false} {
			a, qa := newView(t, viewport)
			a.SetZoomToFit(false)
			a.SetImage(src)
			a.SetZoomCentered(zoom)
			a.SetScroll(image.Pt(20, 10))
			settle(a, qa)
			for _, d := range steps {
				a.ScrollBy(d)
				if drain {
					settle(a, qa)
				}
			}
			settle(a, qa)

			b, qb := newView(t, viewport)
			b.SetZoomToFit(false)
			b.SetImage(src)
			b.SetZoomCentered(zoom)
			b.SetScroll(a.Scroll())
			settle(b, qb)

			if a.Scroll() != b.Scroll() {
				t.Fatalf("zoom %v: scroll %v vs %v", zoom, a.Scroll(), b.Scroll())
			}
			if a.Buffer().Rect != b.Buffer().Rect {
				t.Fatalf("zoom %v: buffer %v vs %v", zoom, a.Buffer().Rect, b.Buffer().Rect)
			}
			if !bytes.Equal(a.Buffer().Pix, b.Buffer().Pix) {
				t.Errorf("zoom %v (drain %v): scrolled buffer differs from a fresh one", zoom, drain)
			}
		}
	}
}

func TestResizeKeepsZoom(t *testing.T) {
	iv, q := newView(t, image.Pt(100, 100))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(300, 300, 255))
	iv.SetZoomCentered(1)
	settle(iv, q)

	iv.Resize(image.Pt(120, 90))
	settle(iv, q)
	if iv.Zoom() != 1 {
		t.Errorf("Zoom() = %v after resize", iv.Zoom())
	}
	if got := iv.Buffer().Rect.Size(); got != image.Pt(120, 90) {
		t.Errorf("buffer size = %v, want 120x90", got)
	}
	want := iv.Image().NRGBA().NRGBAAt(iv.Scroll().X+119, iv.Scroll().Y+89)
	if got := iv.Buffer().NRGBAAt(119, 89); got != want {
		t.Errorf("corner pixel = %v, want %v", got, want)
	}
}

func TestResizeFollowsFit(t *testing.T) {
	iv, _ := newView(t, image.Pt(100, 100))
	iv.SetImage(gradient(400, 200, 255))
	if z := iv.Zoom(); math.Abs(z-0.25) > 1e-9 {
		t.Fatalf("Zoom() = %v, want 0.25", z)
	}
	iv.Resize(image.Pt(200, 200))
	if z := iv.Zoom(); math.Abs(z-0.5) > 1e-9 {
		t.Errorf("Zoom() = %v after resize, want 0.5", z)
	}
	if got := iv.ImageOffset(); got != image.Pt(0, 50) {
		t.Errorf("ImageOffset() = %v, want (0,50)", got)
	}
}

func TestUpdateImageRect(t *testing.T) {
	iv, q := newView(t, image.Pt(60, 40))
	iv.SetImage(gradient(60, 40, 255))
	settle(iv, q)

	edited := gradient(60, 40, 255).NRGBA()
	img.Fill(edited, image.Rect(5, 5, 15, 15), color.NRGBA{G: 255, A: 255})
	iv.TakeDirty()
	iv.UpdateImageRect(img.New(edited), image.Rect(5, 5, 15, 15))
	settle(iv, q)

	if got := iv.Buffer().NRGBAAt(10, 10); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("edited pixel = %v, want green", got)
	}
	if d := iv.TakeDirty(); !image.Rect(5, 5, 15, 15).In(d) {
		t.Errorf("dirty %v does not cover the edit", d)
	}
	if !bytes.Equal(iv.Buffer().Pix, edited.Pix) {
		t.Error("buffer differs from the edited image")
	}

	// A different size falls back to SetImage.
	iv.UpdateImageRect(gradient(30, 20, 255), image.Rect(0, 0, 30, 20))
	if got := iv.Buffer().Rect.Size(); got != image.Pt(30, 20) {
		t.Errorf("buffer size = %v, want 30x20", got)
	}
}

func TestPaint(t *testing.T) {
	iv, q := newView(t, image.Pt(40, 30))
	iv.SetZoomToFit(false)
	iv.SetImage(gradient(20, 10, 255))
	settle(iv, q)

	dst := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	iv.Paint(dst)
	off := iv.ImageOffset()
	if off != image.Pt(10, 10) {
		t.Fatalf("ImageOffset() = %v, want (10,10)", off)
	}
	if got, want := dst.NRGBAAt(off.X+3, off.Y+4), iv.Image().NRGBA().NRGBAAt(3, 4); got != want {
		t.Errorf("image pixel = %v, want %v", got, want)
	}
	if got := dst.NRGBAAt(0, 0); got != iv.opts.Background {
		t.Errorf("border pixel = %v, want background", got)
	}
	if got := dst.NRGBAAt(39, 29); got != iv.opts.Background {
		t.Errorf("border pixel = %v, want background", got)
	}
}

func TestPaintAlphaBackground(t *testing.T) {
	iv, q := newView(t, image.Pt(40, 40))
	iv.SetImage(gradient(40, 40, 0))
	settle(iv, q)

	dst := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	iv.Paint(dst)
	light := color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	dark := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	if got := dst.NRGBAAt(0, 0); got != light {
		t.Errorf("(0,0) = %v, want %v", got, light)
	}
	if got := dst.NRGBAAt(20, 0); got != dark {
		t.Errorf("(20,0) = %v, want %v", got, dark)
	}
	if got := dst.NRGBAAt(36, 36); got != light {
		t.Errorf("(36,36) = %v, want %v", got, light)
	}

	red := color.NRGBA{R: 255, A: 255}
	iv.SetAlphaBackground(AlphaColor, red)
	iv.Paint(dst)
	if got := dst.NRGBAAt(20, 0); got != red {
		t.Errorf("(20,0) = %v, want %v", got, red)
	}
}
