package geom

import "math"

// Vec is an immutable 2D vector. Every operation returns a new value, so
// simulation code can hand positions around without aliasing hazards.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Divide divides by a scalar. The divisor must be nonzero; callers guard
// on their accumulator counts before dividing.
func (v Vec) Divide(s float64) Vec {
	return Vec{X: v.X / s, Y: v.Y / s}
}

func (v Vec) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector. The zero vector normalizes to itself.
func (v Vec) Normalize() Vec {
	length := v.Length()
	if length > 0 {
		return v.Scale(1 / length)
	}
	return Vec{}
}

// Limit caps the vector's length at max, preserving direction.
func (v Vec) Limit(max float64) Vec {
	if v.Length() > max {
		return v.Normalize().Scale(max)
	}
	return v
}

func (v Vec) Distance(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}
