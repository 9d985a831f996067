package model

import (
	"errors"
	"fmt"
	"math"
)

// Point represents a 2D point in page coordinates.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ErrInvalidBBox is returned when bounding box corners are out of order.
var ErrInvalidBBox = errors.New("invalid bounding box corners")

// BBox represents an axis-aligned bounding box in page coordinates.
// Coordinates follow the parser's convention: the origin is the top-left
// corner of the page and Y increases downward. The corners are ordered:
// X0 <= X1 and Y0 <= Y1, always. BBox values are never mutated; every
// operation returns a new value.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from ordered corners. It returns
// ErrInvalidBBox if x0 > x1 or y0 > y1, or if any corner is not finite.
func NewBBox(x0, y0, x1, y1 float64) (BBox, error) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BBox{}, fmt.Errorf("%w: (%g,%g,%g,%g)", ErrInvalidBBox, x0, y0, x1, y1)
		}
	}
	if x0 > x1 || y0 > y1 {
		return BBox{}, fmt.Errorf("%w: (%g,%g,%g,%g)", ErrInvalidBBox, x0, y0, x1, y1)
	}
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}, nil
}

// MustBBox is like NewBBox but panics on invalid corners. It is intended
// for literals in tests and examples.
func MustBBox(x0, y0, x1, y1 float64) BBox {
	b, err := NewBBox(x0, y0, x1, y1)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBBoxFromPoints creates a bounding box spanning two points.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X0: math.Min(p1.X, p2.X),
		Y0: math.Min(p1.Y, p2.Y),
		X1: math.Max(p1.X, p2.X),
		Y1: math.Max(p1.Y, p2.Y),
	}
}

// Width returns the horizontal extent.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// IsEmpty returns true if the bounding box has zero area.
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// ContainsPoint checks if a point is inside the bounding box.
func (b BBox) ContainsPoint(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 &&
		p.Y >= b.Y0 && p.Y <= b.Y1
}

// ContainsBox checks if another box lies fully inside this one.
// A box fully contains itself.
func (b BBox) ContainsBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks if two bounding boxes intersect.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Intersection returns the intersection of two bounding boxes, or the
// zero box when they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// IntersectionArea returns the area of the intersection of two boxes.
// It is symmetric: b.IntersectionArea(o) == o.IntersectionArea(b).
func (b BBox) IntersectionArea(other BBox) float64 {
	return b.Intersection(other).Area()
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// IoU returns the intersection-over-union ratio of two boxes, a value
// between 0 and 1. A non-degenerate box has IoU 1.0 with itself.
func (b BBox) IoU(other BBox) float64 {
	inter := b.IntersectionArea(other)
	if inter == 0 {
		return 0
	}
	union := b.Area() + other.Area() - inter
	if union == 0 {
		return 0
	}
	return inter / union
}

// OverlapRatio calculates the overlap relative to the smaller box.
// Returns a value between 0 and 1.
func (b BBox) OverlapRatio(other BBox) float64 {
	inter := b.IntersectionArea(other)
	if inter == 0 {
		return 0
	}
	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 {
		return 0
	}
	return inter / minArea
}

// Adjacent reports whether the two boxes are within gap of each other
// without necessarily overlapping. Overlapping boxes are adjacent.
func (b BBox) Adjacent(other BBox, gap float64) bool {
	return b.Expand(gap).Intersects(other)
}

// Expand expands the bounding box by a margin on all sides.
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}
