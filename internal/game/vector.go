package game

import "math"

// Vec2 is a 2D vector in battlefield pixel space (y grows downward).
type Vec2 struct {
	X, Y float64
}

// Polar is a vector expressed as magnitude and angle (radians).
type Polar struct {
	R     float64
	Theta float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Div(k float64) Vec2 { return Vec2{v.X / k, v.Y / k} }

// Len returns the Euclidean magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns v scaled to length 1. The bool is false for a (near) zero
// vector, in which case the zero vector is returned instead of NaNs.
func (v Vec2) Unit() (Vec2, bool) {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{}, false
	}
	return v.Div(l), true
}

// ToPolar converts to magnitude/angle form.
func (v Vec2) ToPolar() Polar {
	return Polar{R: v.Len(), Theta: math.Atan2(v.Y, v.X)}
}

// Vec returns the Cartesian form of p.
func (p Polar) Vec() Vec2 {
	return Vec2{X: p.R * math.Cos(p.Theta), Y: p.R * math.Sin(p.Theta)}
}
