package scaler

import "image"

// Region is a set of rectangles in zoomed-image coordinates. Rectangles may
// overlap; overlapping pixels are simply scaled twice.
type Region []image.Rectangle

// Empty reports whether the region covers no pixel.
func (r Region) Empty() bool {
	for _, rect := range r {
		if !rect.Empty() {
			return false
		}
	}
	return true
}

// Clip intersects every rectangle with bounds and drops the empty results.
func (r Region) Clip(bounds image.Rectangle) Region {
	var out Region
	for _, rect := range r {
		if rect = rect.Intersect(bounds); !rect.Empty() {
			out = append(out, rect)
		}
	}
	return out
}

// Bounds returns the smallest rectangle containing the region.
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r {
		b = b.Union(rect)
	}
	return b
}

// Contains reports whether p lies inside any rectangle.
func (r Region) Contains(p image.Point) bool {
	for _, rect := range r {
		if p.In(rect) {
			return true
		}
	}
	return false
}

// Chunks splits every rectangle into pieces no larger than size×size.
func (r Region) Chunks(size int) []image.Rectangle {
	if size < 1 {
		size = 1
	}
	var out []image.Rectangle
	for _, rect := range r {
		if rect.Empty() {
			continue
		}
		for y := rect.Min.Y; y < rect.Max.Y; y += size {
			for x := rect.Min.X; x < rect.Max.X; x += size {
				out = append(out, image.Rect(x, y, x+size, y+size).Intersect(rect))
			}
		}
	}
	return out
}
