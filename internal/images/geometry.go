package images

import (
	"fmt"
	"image"
)

// Geometry describes how a source image is placed on a square canvas.
type Geometry struct {
	SourceWidth  int
	SourceHeight int
	Width        int // resized width, always equal to the canvas size
	Height       int // resized height, floor(size*h/w), at least 1
	Offset       image.Point
}

// ComputeGeometry scales a w×h source to the given width and centers it on
// a size×size canvas. The resized height is floor(size*h/w), except that a
// source wide enough for that floor to be 0 is given a height of 1 row so it
// can still be composited. The offset uses floor division and is negative
// when the resized height exceeds size.
func ComputeGeometry(w, h, size int) (Geometry, error) {
	if size <= 0 {
		return Geometry{}, fmt.Errorf("%w: size must be positive, got %d", ErrConfig, size)
	}
	if w <= 0 || h <= 0 {
		return Geometry{}, fmt.Errorf("%w: image has invalid dimensions %dx%d", ErrDecode, w, h)
	}

	width := size
	height := int(int64(size) * int64(h) / int64(w))
	if height < 1 {
		height = 1
	}

	return Geometry{
		SourceWidth:  w,
		SourceHeight: h,
		Width:        width,
		Height:       height,
		Offset:       image.Pt(floorDiv(size-width, 2), floorDiv(size-height, 2)),
	}, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
