package mathutil

import "math"

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// DistSq avoids the square root for comparisons.
func DistSq(a, b Vec2) float64 { return a.Sub(b).LenSq() }

// FromAngle returns a vector of the given length pointing at angle radians.
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Lerp interpolates between a and b, t in [0, 1].
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Rect is an axis-aligned world area.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ClampPoint moves p inside r.
func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{Clamp(p.X, r.MinX, r.MaxX), Clamp(p.Y, r.MinY, r.MaxY)}
}

func (r Rect) Center() Vec2 {
	return Vec2{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}
