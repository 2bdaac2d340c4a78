// Package geom provides the 2D geometry types shared by the overlay
// bridge: points, sizes, rectangles, and affine transforms.
//
// Two coordinate spaces appear throughout the module:
//
//   - Logical (toolkit) space: origin at the overlay's top-left corner,
//     units independent of the output's pixel density.
//   - Physical (device) space: output pixels, related to logical space
//     by the output scale factor and the overlay origin.
//
// All types are plain float64 value types; conversions between the two
// spaces are explicit (ScaleBy, Translate) so that a value's space is
// always visible at the call site.
package geom

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Div returns the point divided by a scalar.
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s}
}

// Size represents a 2D extent.
type Size struct {
	W, H float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Mul returns the size scaled by a scalar.
func (s Size) Mul(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle defined by its Min (top-left) and
// Max (bottom-right) corners. A Rect with Max <= Min is empty.
type Rect struct {
	Min, Max Point
}

// RectFromOriginSize returns the rectangle with the given top-left
// corner and extent.
func RectFromOriginSize(origin Point, size Size) Rect {
	return Rect{
		Min: origin,
		Max: Point{X: origin.X + size.W, Y: origin.Y + size.H},
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Size returns the extent of the rectangle.
func (r Rect) Size() Size {
	return Size{W: r.Width(), H: r.Height()}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside the rectangle. The Min edge is
// inclusive, the Max edge exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Overlaps reports whether r and s share any area.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X < s.Max.X && s.Min.X < r.Max.X &&
		r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// Intersect returns the largest rectangle contained in both r and s.
// The result is empty if the rectangles do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{X: math.Max(r.Min.X, s.Min.X), Y: math.Max(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Min(r.Max.X, s.Max.X), Y: math.Min(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: math.Min(r.Min.X, s.Min.X), Y: math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, s.Max.X), Y: math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Translate returns the rectangle shifted by the vector d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// ScaleBy returns the rectangle with both corners scaled by f about the
// origin. Used for logical↔physical conversion.
func (r Rect) ScaleBy(f float64) Rect {
	return Rect{Min: r.Min.Mul(f), Max: r.Max.Mul(f)}
}
