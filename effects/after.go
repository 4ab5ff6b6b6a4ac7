package effects

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"golang.org/x/image/math/f32"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// AfterEffectKind identifies an after-effect. The declaration order is the
// order in which the deltas are added.
type AfterEffectKind uint8

const (
	ImageVelocity AfterEffectKind = iota
	XYLerp
	Rotation
	Tangent
	Noise
	HypercosOverlay

	numAfterEffects
)

var afterEffectNames = [numAfterEffects]string{
	ImageVelocity:   "ImageVelocity",
	XYLerp:          "XYLerp",
	Rotation:        "Rotation",
	Tangent:         "Tangent",
	Noise:           "Noise",
	HypercosOverlay: "HypercosOverlay",
}

// String returns the name of the after-effect.
func (k AfterEffectKind) String() string {
	if k < numAfterEffects {
		return afterEffectNames[k]
	}
	return fmt.Sprintf("AfterEffectKind(%d)", uint8(k))
}

// AfterEffectOrder returns the after-effect kinds in composition order.
func AfterEffectOrder() []AfterEffectKind {
	order := make([]AfterEffectKind, numAfterEffects)
	for i := range order {
		order[i] = AfterEffectKind(i)
	}
	return order
}

// =============================================================================
// Image velocity
// =============================================================================

// ImageVelocityEffect adds a smooth sinusoidal velocity field.
type ImageVelocityEffect struct {
	Amplitude float32
	Frequency float32
}

// NewImageVelocityEffect returns an image-velocity effect with default parameters.
func NewImageVelocityEffect() *ImageVelocityEffect {
	return &ImageVelocityEffect{Amplitude: 0.01, Frequency: 3}
}

// SetRandomParameters implements Effect.
func (e *ImageVelocityEffect) SetRandomParameters(rng *rand.Rand) {
	e.Amplitude = randIn(rng, 0.005, 0.03)
	e.Frequency = randIn(rng, 1, 6)
}

// GetDisplacement implements Effect. The result is a delta.
func (e *ImageVelocityEffect) GetDisplacement(c, _ coords.NormalizedCoords) coords.NormalizedCoords {
	return coords.New(sin32(e.Frequency*c.Y()), cos32(e.Frequency*c.X())).Scale(e.Amplitude)
}

// NameValueParams implements ParamReporter.
func (e *ImageVelocityEffect) NameValueParams(group string) []NameValue {
	g := SubGroup(group, ImageVelocity.String())
	return []NameValue{Pair(g, "amplitude", e.Amplitude), Pair(g, "frequency", e.Frequency)}
}

// =============================================================================
// XY lerp
// =============================================================================

// XYLerpMode selects how the lerp factor between the x and y components is
// computed.
type XYLerpMode uint8

const (
	// XYLerpKeep uses t = 0, leaving the components in place.
	XYLerpKeep XYLerpMode = iota
	// XYLerpSwap uses t = 1, exchanging the components.
	XYLerpSwap
	// XYLerpRipple uses a cosine of the squared distance.
	XYLerpRipple
	// XYLerpSawtooth uses a sawtooth of the squared distance.
	XYLerpSawtooth
	// XYLerpAngle uses the angle of the accumulated displacement.
	XYLerpAngle

	numXYLerpModes
)

// XYLerpEffect mixes the x and y components of the accumulated displacement.
type XYLerpEffect struct {
	Mode  XYLerpMode
	TFreq float32
	FlipY bool
}

// NewXYLerpEffect returns an xy-lerp effect with default parameters.
func NewXYLerpEffect() *XYLerpEffect {
	return &XYLerpEffect{Mode: XYLerpRipple, TFreq: 1}
}

// SetRandomParameters implements Effect.
func (e *XYLerpEffect) SetRandomParameters(rng *rand.Rand) {
	e.Mode = XYLerpMode(rng.IntN(int(numXYLerpModes)))
	e.TFreq = randIn(rng, 0.5, 5)
	e.FlipY = probabilityOf(rng, 0.25)
}

// GetDisplacement implements Effect. The result is a delta.
func (e *XYLerpEffect) GetDisplacement(c, acc coords.NormalizedCoords) coords.NormalizedCoords {
	t := e.t(c.SqLength(), acc)

	mixed := coords.New(
		acc.X()+t*(acc.Y()-acc.X()),
		acc.Y()+t*(acc.X()-acc.Y()),
	)
	if e.FlipY {
		mixed = mixed.WithY(-mixed.Y())
	}

	return mixed.Sub(acc)
}

func (e *XYLerpEffect) t(sqDist float32, acc coords.NormalizedCoords) float32 {
	const (
		rippleOffset = 5.5
		rippleFreq   = 2.0
	)

	switch e.Mode {
	case XYLerpSwap:
		return 1
	case XYLerpRipple:
		return cos32(e.TFreq*sqDist + rippleOffset + sin32(rippleFreq*sqDist))
	case XYLerpSawtooth:
		return -(2 / math.Pi) * float32(math.Atan(math.Tan(math.Pi/2-float64(e.TFreq*sqDist))))
	case XYLerpAngle:
		return float32(math.Abs(math.Atan2(float64(acc.Y()), float64(acc.X())) / math.Pi))
	default:
		return 0
	}
}

// NameValueParams implements ParamReporter.
func (e *XYLerpEffect) NameValueParams(group string) []NameValue {
	g := SubGroup(group, XYLerp.String())
	return []NameValue{
		Pair(g, "mode", int(e.Mode)),
		Pair(g, "tFreq", e.TFreq),
		Pair(g, "flipY", e.FlipY),
	}
}

// =============================================================================
// Rotation
// =============================================================================

// AdjustmentMode says how a RotationAdjustment combines with random
// rotation parameters.
type AdjustmentMode uint8

const (
	// AdjustNone ignores the adjustment.
	AdjustNone AdjustmentMode = iota
	// AdjustInsteadOfRandom applies the adjustment to the current
	// parameters without choosing new random ones.
	AdjustInsteadOfRandom
	// AdjustAfterRandom chooses random parameters and then applies the
	// adjustment.
	AdjustAfterRandom
)

// RotationAdjustment scales the rotation angle on the next settings commit.
type RotationAdjustment struct {
	Mode       AdjustmentMode
	AngleScale float32
}

// RotationEffect rotates the accumulated displacement about the origin.
// The rotation is held as an affine matrix rebuilt whenever the angle
// changes.
type RotationEffect struct {
	angle float32
	m     f32.Aff3
}

// NewRotationEffect returns a rotation effect with default parameters.
func NewRotationEffect() *RotationEffect {
	e := &RotationEffect{}
	e.SetAngle(math.Pi / 16)
	return e
}

// Angle returns the rotation angle in radians.
func (e *RotationEffect) Angle() float32 { return e.angle }

// SetAngle sets the rotation angle in radians.
func (e *RotationEffect) SetAngle(angle float32) {
	s, c := math.Sincos(float64(angle))
	sin, cos := float32(s), float32(c)

	e.angle = angle
	e.m = f32.Aff3{
		cos, -sin, 0,
		sin, cos, 0,
	}
}

// SetRandomParameters implements Effect.
func (e *RotationEffect) SetRandomParameters(rng *rand.Rand) {
	e.SetAngle(randIn(rng, -math.Pi/4, math.Pi/4))
}

// Apply configures the effect according to adj, using rng when the
// adjustment asks for fresh random parameters.
func (e *RotationEffect) Apply(adj RotationAdjustment, rng *rand.Rand) {
	switch adj.Mode {
	case AdjustInsteadOfRandom:
		e.SetAngle(e.angle * adj.AngleScale)
	case AdjustAfterRandom:
		e.SetRandomParameters(rng)
		e.SetAngle(e.angle * adj.AngleScale)
	default:
		e.SetRandomParameters(rng)
	}
}

// Matrix returns the rotation matrix.
func (e *RotationEffect) Matrix() f32.Aff3 { return e.m }

// GetDisplacement implements Effect. The result is a delta.
func (e *RotationEffect) GetDisplacement(_, acc coords.NormalizedCoords) coords.NormalizedCoords {
	m := &e.m
	x, y := acc.X(), acc.Y()
	return coords.New(
		m[0]*x+m[1]*y+m[2]-x,
		m[3]*x+m[4]*y+m[5]-y,
	)
}

// NameValueParams implements ParamReporter.
func (e *RotationEffect) NameValueParams(group string) []NameValue {
	return []NameValue{Pair(SubGroup(group, Rotation.String()), "angle", e.angle)}
}

// =============================================================================
// Tangent
// =============================================================================

// TanType selects the tangent function family.
type TanType uint8

const (
	TanOnly TanType = iota
	CotOnly
	CotMix
)

// TanEffect scales the accumulated displacement by a tangent of the
// squared distance from the midpoint.
type TanEffect struct {
	Type           TanType
	CotMix         float32
	Amplitude      coords.NormalizedCoords
	LimitingFactor float32
}

// NewTanEffect returns a tangent effect with default parameters.
func NewTanEffect() *TanEffect {
	return &TanEffect{Type: TanOnly, CotMix: 1.1, Amplitude: coords.New(1, 1), LimitingFactor: 0.75}
}

// SetRandomParameters implements Effect.
func (e *TanEffect) SetRandomParameters(rng *rand.Rand) {
	switch w := rng.Float32(); {
	case w < 0.90:
		e.Type = TanOnly
	case w < 0.98:
		e.Type = CotMix
	default:
		e.Type = CotOnly
	}
	e.CotMix = randIn(rng, 0.6, 1.6)
	amp := randIn(rng, 0.10, 1.11)
	e.Amplitude = coords.New(amp, amp)
	e.LimitingFactor = randIn(rng, 0.10, 0.85)
}

// GetDisplacement implements Effect. The result is a delta.
func (e *TanEffect) GetDisplacement(c, acc coords.NormalizedCoords) coords.NormalizedCoords {
	const maxSqDist = coords.MaxCoord * coords.MaxCoord * 2

	arg := e.LimitingFactor * (math.Pi / 2) * min(c.SqLength()/maxSqDist, 1)

	var f float64
	switch e.Type {
	case CotOnly:
		f = 1 / math.Tan(math.Pi/2-float64(arg))
	case CotMix:
		f = 1 / math.Tan(float64(e.CotMix*arg))
	default:
		f = math.Tan(float64(arg))
	}

	return acc.Mul(e.Amplitude).Scale(float32(f))
}

// NameValueParams implements ParamReporter.
func (e *TanEffect) NameValueParams(group string) []NameValue {
	g := SubGroup(group, Tangent.String())
	return []NameValue{
		Pair(g, "type", int(e.Type)),
		Pair(g, "cotMix", e.CotMix),
		Pair(g, "amplitude", e.Amplitude),
		Pair(g, "limitingFactor", e.LimitingFactor),
	}
}

// =============================================================================
// Noise
// =============================================================================

// NoiseEffect adds a pseudo-random jitter. The jitter is a hash of the
// coordinate, a seed chosen by SetRandomParameters and the pass number, so
// it is safe to evaluate from many goroutines at once and still changes
// from one pass to the next.
type NoiseEffect struct {
	Amplitude float32
	Seed      uint64

	passSeed uint64
}

// NewNoiseEffect returns a noise effect with default parameters.
func NewNoiseEffect() *NoiseEffect {
	return &NoiseEffect{Amplitude: 0.01}
}

// SetRandomParameters implements Effect.
func (e *NoiseEffect) SetRandomParameters(rng *rand.Rand) {
	e.Amplitude = randIn(rng, 0.001, 0.02)
	e.Seed = rng.Uint64()
	e.passSeed = e.Seed
}

// SetPass selects the jitter pattern for pass n. It must not be called
// while a pass is running.
func (e *NoiseEffect) SetPass(n uint64) {
	e.passSeed = splitmix64(e.Seed + n)
}

// GetDisplacement implements Effect. The result is a delta.
func (e *NoiseEffect) GetDisplacement(c, _ coords.NormalizedCoords) coords.NormalizedCoords {
	h := uint64(math.Float32bits(c.X()))<<32 | uint64(math.Float32bits(c.Y()))
	hx := splitmix64(h ^ e.passSeed)
	hy := splitmix64(hx)
	return coords.New(unitNoise(hx), unitNoise(hy)).Scale(e.Amplitude)
}

// NameValueParams implements ParamReporter.
func (e *NoiseEffect) NameValueParams(group string) []NameValue {
	return []NameValue{Pair(SubGroup(group, Noise.String()), "amplitude", e.Amplitude)}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// unitNoise maps the top 24 bits of h to [-1, 1).
func unitNoise(h uint64) float32 {
	return float32(h>>40)/(1<<23) - 1
}

// =============================================================================
// Hypercos overlay
// =============================================================================

// HypercosMode selects the hypercos overlay. HypercosNone disables it.
type HypercosMode uint8

const (
	HypercosNone HypercosMode = iota
	HypercosMode0
	HypercosMode1
	HypercosMode2
	HypercosMode3

	numHypercosModes
)

// String returns the name of the mode.
func (m HypercosMode) String() string {
	if m == HypercosNone {
		return "None"
	}
	if m < numHypercosModes {
		return fmt.Sprintf("Mode%d", m-1)
	}
	return fmt.Sprintf("HypercosMode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m HypercosMode) MarshalText() ([]byte, error) {
	if m >= numHypercosModes {
		return nil, fmt.Errorf("effects: invalid hypercos mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *HypercosMode) UnmarshalText(text []byte) error {
	for i := range numHypercosModes {
		if strings.EqualFold(i.String(), string(text)) {
			*m = i
			return nil
		}
	}
	return fmt.Errorf("effects: unknown hypercos mode %q", text)
}

// HypercosEffect adds a sin/cos overlay. The mode picks between
// rectangular and curl forms.
type HypercosEffect struct {
	Mode      HypercosMode
	Frequency coords.NormalizedCoords
	Amplitude float32
}

// NewHypercosEffect returns a hypercos overlay with default parameters.
func NewHypercosEffect() *HypercosEffect {
	return &HypercosEffect{Mode: HypercosNone, Frequency: coords.New(3, 3), Amplitude: 0.02}
}

// SetMode sets the overlay mode and picks random parameters for it.
func (e *HypercosEffect) SetMode(mode HypercosMode, rng *rand.Rand) {
	e.Mode = mode
	if mode == HypercosNone {
		*e = *NewHypercosEffect()
		return
	}
	e.SetRandomParameters(rng)
}

// SetRandomParameters implements Effect. The mode is left unchanged.
func (e *HypercosEffect) SetRandomParameters(rng *rand.Rand) {
	fx := randIn(rng, 1, 10)
	fy := fx
	if probabilityOf(rng, 0.5) {
		fy = randIn(rng, 1, 10)
	}
	e.Frequency = coords.New(fx, fy)
	e.Amplitude = randIn(rng, 0.005, 0.05)
}

// GetDisplacement implements Effect. The result is a delta.
func (e *HypercosEffect) GetDisplacement(c, _ coords.NormalizedCoords) coords.NormalizedCoords {
	fx, fy := e.Frequency.X(), e.Frequency.Y()

	var v coords.NormalizedCoords
	switch e.Mode {
	case HypercosMode0:
		v = coords.New(sin32(fx*c.X()), sin32(fy*c.Y()))
	case HypercosMode1:
		v = coords.New(cos32(fx*c.X()), cos32(fy*c.Y()))
	case HypercosMode2:
		v = coords.New(sin32(fy*c.Y()), sin32(fx*c.X()))
	case HypercosMode3:
		v = coords.New(cos32(fy*c.Y()), cos32(fx*c.X()))
	}

	return v.Scale(e.Amplitude)
}

// NameValueParams implements ParamReporter.
func (e *HypercosEffect) NameValueParams(group string) []NameValue {
	g := SubGroup(group, HypercosOverlay.String())
	return []NameValue{
		Pair(g, "mode", e.Mode),
		Pair(g, "frequency", e.Frequency),
		Pair(g, "amplitude", e.Amplitude),
	}
}
