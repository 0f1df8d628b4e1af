// Package geom provides the 2D vector and angle primitives used by the
// tracking and guidance packages. The arena frame is a flat plane with
// X=east, Y=north (meters); headings are radians counter-clockwise from +X.
package geom

import "math"

// Vec2 represents a 2D vector in arena coordinates (meters).
type Vec2 struct{ X, Y float64 }

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns the sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the difference between two vectors.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale scales a vector by a scalar.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the vector's magnitude (Euclidean norm).
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared magnitude, avoiding the square root.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Angle returns the vector's direction in radians, in (-π, π].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Norm returns a unit vector in the same direction, or the zero vector.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Rotate returns the vector rotated counter-clockwise by rad radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// DistanceTo returns the Euclidean distance between two points.
func (v Vec2) DistanceTo(o Vec2) float64 { return o.Sub(v).Len() }

// Heading returns a unit vector pointing along the given heading.
func Heading(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{c, s}
}
