package effects

import (
	"math/rand/v2"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// PlaneAxis selects which axis a plane effect overrides.
type PlaneAxis uint8

const (
	HorizontalPlane PlaneAxis = iota
	VerticalPlane
)

// String returns the name of the axis.
func (a PlaneAxis) String() string {
	if a == VerticalPlane {
		return "VerticalPlane"
	}
	return "HorizontalPlane"
}

// PlaneEffect computes a replacement for one axis of the accumulated
// displacement. The horizontal plane returns acc.X + Amplitude*c.Y², the
// vertical plane acc.Y + Amplitude*c.X². The other component of the result
// is a copy of acc and is ignored by the Pipeline.
type PlaneEffect struct {
	Axis      PlaneAxis
	Amplitude float32
}

// NewPlaneEffect returns a plane effect for axis with default parameters.
func NewPlaneEffect(axis PlaneAxis) *PlaneEffect {
	return &PlaneEffect{Axis: axis, Amplitude: 0.01}
}

// SetRandomParameters implements Effect.
func (e *PlaneEffect) SetRandomParameters(rng *rand.Rand) {
	e.Amplitude = randIn(rng, -0.05, 0.05)
}

// GetDisplacement implements Effect.
func (e *PlaneEffect) GetDisplacement(c, acc coords.NormalizedCoords) coords.NormalizedCoords {
	if e.Axis == VerticalPlane {
		return acc.WithY(acc.Y() + e.Amplitude*c.X()*c.X())
	}
	return acc.WithX(acc.X() + e.Amplitude*c.Y()*c.Y())
}

// NameValueParams implements ParamReporter.
func (e *PlaneEffect) NameValueParams(group string) []NameValue {
	return []NameValue{Pair(SubGroup(group, e.Axis.String()), "amplitude", e.Amplitude)}
}

// MultiplierEffect rescales the net displacement. With
// t = Lerp(acc, c, LerpToCoords) the result is
//
//	(acc.X * (1 - XAmplitude*sin(XFreq*t.X)), acc.Y * (1 - YAmplitude*cos(YFreq*t.Y)))
type MultiplierEffect struct {
	MultiplierSettings
}

// NewMultiplierEffect returns a multiplier with the given parameters.
func NewMultiplierEffect(s MultiplierSettings) *MultiplierEffect {
	return &MultiplierEffect{MultiplierSettings: s}
}

// SetRandomParameters implements Effect.
func (e *MultiplierEffect) SetRandomParameters(rng *rand.Rand) {
	e.XFreq = randIn(rng, 1, 10)
	e.YFreq = randIn(rng, 1, 10)
	e.XAmplitude = randIn(rng, 0.05, 1)
	e.YAmplitude = randIn(rng, 0.05, 1)
	e.LerpToCoords = rng.Float32()
}

// GetDisplacement implements Effect.
func (e *MultiplierEffect) GetDisplacement(c, acc coords.NormalizedCoords) coords.NormalizedCoords {
	t := coords.Lerp(acc, c, e.LerpToCoords)
	factor := coords.New(
		1-e.XAmplitude*sin32(e.XFreq*t.X()),
		1-e.YAmplitude*cos32(e.YFreq*t.Y()),
	)
	return acc.Mul(factor)
}

// NameValueParams implements ParamReporter.
func (e *MultiplierEffect) NameValueParams(group string) []NameValue {
	g := SubGroup(group, "Multiplier")
	return []NameValue{
		Pair(g, "freq", coords.New(e.XFreq, e.YFreq)),
		Pair(g, "amplitude", coords.New(e.XAmplitude, e.YAmplitude)),
		Pair(g, "lerpToCoords", e.LerpToCoords),
	}
}
