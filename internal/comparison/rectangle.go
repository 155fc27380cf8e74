package comparison

import (
	"fmt"
	"image"
	"math"
)

// Rectangle is an axis-aligned region with inclusive corners.
//
// Unlike image.Rectangle, both (MinX, MinY) and (MaxX, MaxY) belong to the
// rectangle, so a single pixel at (5,5) is Rectangle{5, 5, 5, 5}:
//   - Width = MaxX - MinX + 1
//   - Height = MaxY - MinY + 1
type Rectangle struct {
	MinX int `json:"min_x" yaml:"min_x"` // Left edge (inclusive)
	MinY int `json:"min_y" yaml:"min_y"` // Top edge (inclusive)
	MaxX int `json:"max_x" yaml:"max_x"` // Right edge (inclusive)
	MaxY int `json:"max_y" yaml:"max_y"` // Bottom edge (inclusive)
}

// NewRectangle returns the rectangle spanning both corners, in any order.
func NewRectangle(x1, y1, x2, y2 int) Rectangle {
	return Rectangle{
		MinX: min(x1, x2),
		MinY: min(y1, y2),
		MaxX: max(x1, x2),
		MaxY: max(y1, y2),
	}
}

// EmptyRectangle returns the fold seed for Merge. Its min corner sits at the
// largest int and its max corner at the smallest, so merging any rectangle
// into it yields that rectangle unchanged.
func EmptyRectangle() Rectangle {
	return Rectangle{
		MinX: math.MaxInt,
		MinY: math.MaxInt,
		MaxX: math.MinInt,
		MaxY: math.MinInt,
	}
}

// IsEmpty reports whether r has no pixels, which is true for EmptyRectangle.
func (r Rectangle) IsEmpty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// Width returns the horizontal extent in pixels.
func (r Rectangle) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxX - r.MinX + 1
}

// Height returns the vertical extent in pixels.
func (r Rectangle) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxY - r.MinY + 1
}

// Size returns the number of pixels covered by r.
func (r Rectangle) Size() int {
	return r.Width() * r.Height()
}

// Merge returns the smallest rectangle containing both r and o.
func (r Rectangle) Merge(o Rectangle) Rectangle {
	return Rectangle{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// extend widens r to include the point (x, y).
func (r Rectangle) extend(x, y int) Rectangle {
	return Rectangle{
		MinX: min(r.MinX, x),
		MinY: min(r.MinY, y),
		MaxX: max(r.MaxX, x),
		MaxY: max(r.MaxY, y),
	}
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rectangle) Overlaps(o Rectangle) bool {
	if r.MaxY < o.MinY || o.MaxY < r.MinY {
		return false
	}
	return r.MaxX >= o.MinX && o.MaxX >= r.MinX
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Bounds converts r to the half-open image.Rectangle used by image/draw.
func (r Rectangle) Bounds() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(r.MinX, r.MinY, r.MaxX+1, r.MaxY+1)
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
