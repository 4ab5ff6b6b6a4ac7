// Package coords provides the resolution-independent coordinate space shared
// by the zoom filter effects and the transform buffer producer.
//
// A screen pixel (x, y) maps to a NormalizedCoords value in the range
// [MinCoord, MaxCoord] along the longer screen axis. Both axes use the same
// scale, so the shorter axis covers a proportionally smaller range and angles
// measured in normalized space match the angles seen on screen.
package coords

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Normalized coordinate range. Effects rely on MaxCoord being exactly 2.
const (
	MaxCoord   float32 = 2.0
	MinCoord   float32 = -MaxCoord
	CoordWidth float32 = MaxCoord - MinCoord
)

// equalTolerance is the absolute tolerance used by Equals.
const equalTolerance = 1e-5

// NormalizedCoords is a point (or displacement) in normalized space.
// Index 0 is X and index 1 is Y.
type NormalizedCoords f32.Vec2

// New returns the normalized coordinate (x, y).
func New(x, y float32) NormalizedCoords {
	return NormalizedCoords{x, y}
}

// X returns the horizontal component.
func (c NormalizedCoords) X() float32 { return c[0] }

// Y returns the vertical component.
func (c NormalizedCoords) Y() float32 { return c[1] }

// WithX returns a copy of c with the horizontal component replaced.
func (c NormalizedCoords) WithX(x float32) NormalizedCoords {
	return NormalizedCoords{x, c[1]}
}

// WithY returns a copy of c with the vertical component replaced.
func (c NormalizedCoords) WithY(y float32) NormalizedCoords {
	return NormalizedCoords{c[0], y}
}

// Add returns c + o.
func (c NormalizedCoords) Add(o NormalizedCoords) NormalizedCoords {
	return NormalizedCoords{c[0] + o[0], c[1] + o[1]}
}

// Sub returns c - o.
func (c NormalizedCoords) Sub(o NormalizedCoords) NormalizedCoords {
	return NormalizedCoords{c[0] - o[0], c[1] - o[1]}
}

// Scale returns c multiplied by s on both axes.
func (c NormalizedCoords) Scale(s float32) NormalizedCoords {
	return NormalizedCoords{s * c[0], s * c[1]}
}

// Mul returns the per-axis product of c and factors.
func (c NormalizedCoords) Mul(factors NormalizedCoords) NormalizedCoords {
	return NormalizedCoords{factors[0] * c[0], factors[1] * c[1]}
}

// SqLength returns the squared distance of c from the origin.
func (c NormalizedCoords) SqLength() float32 {
	return c[0]*c[0] + c[1]*c[1]
}

// SqDistance returns the squared distance between a and b.
func SqDistance(a, b NormalizedCoords) float32 {
	return a.Sub(b).SqLength()
}

// Equals reports whether c and o are equal within a small absolute tolerance.
func (c NormalizedCoords) Equals(o NormalizedCoords) bool {
	return math.Abs(float64(c[0]-o[0])) <= equalTolerance &&
		math.Abs(float64(c[1]-o[1])) <= equalTolerance
}

// IsFinite reports whether both components are finite.
func (c NormalizedCoords) IsFinite() bool {
	for _, v := range c {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Vec2 returns c as an f32.Vec2.
func (c NormalizedCoords) Vec2() f32.Vec2 {
	return f32.Vec2(c)
}

// Lerp returns a + t*(b-a) per axis.
func Lerp(a, b NormalizedCoords, t float32) NormalizedCoords {
	return NormalizedCoords{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}
