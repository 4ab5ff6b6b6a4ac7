package effects

import (
	"errors"
	"math/rand/v2"
	"sync/atomic"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// ErrSettingsInFlight is the panic value when settings are changed while a
// pass is running.
var ErrSettingsInFlight = errors.New("effects: settings changed while a pass is in progress")

// Pipeline composes effects in the fixed order described in the package
// documentation. Primary is required; the other stages are skipped when
// nil or empty.
type Pipeline struct {
	Primary    Effect
	After      []Effect
	Horizontal Effect
	Vertical   Effect
	Multiplier Effect

	// MinStep is the smallest displacement magnitude per axis, in
	// normalized units. A zero component disables the snap on that axis.
	MinStep coords.NormalizedCoords
}

// GetDisplacement returns the composed displacement for the centred
// coordinate c.
func (p *Pipeline) GetDisplacement(c coords.NormalizedCoords) coords.NormalizedCoords {
	d := p.Primary.GetDisplacement(c, coords.NormalizedCoords{})

	for _, e := range p.After {
		d = d.Add(e.GetDisplacement(c, d))
	}

	if p.Horizontal != nil {
		d = d.WithX(p.Horizontal.GetDisplacement(c, d).X())
	}
	if p.Vertical != nil {
		d = d.WithY(p.Vertical.GetDisplacement(c, d).Y())
	}

	if p.Multiplier != nil {
		d = p.Multiplier.GetDisplacement(c, d)
	}

	return coords.New(snapToMin(d.X(), p.MinStep.X()), snapToMin(d.Y(), p.MinStep.Y()))
}

// snapToMin raises a component smaller in magnitude than minStep to
// ±minStep so that every pixel moves by at least one minimal step. Zero
// snaps to +minStep.
func snapToMin(v, minStep float32) float32 {
	if v > -minStep && v < minStep {
		if v < 0 {
			return -minStep
		}
		return minStep
	}
	return v
}

// ZoomVector is the zoom point function built from Settings. It owns one
// instance of every effect; SetSettings picks the active ones, gives them
// fresh random parameters and rebuilds the pipeline.
//
// GetDisplacement may be called concurrently. SetSettings must not be
// called between BeginPass and EndPass.
type ZoomVector struct {
	rng      *rand.Rand
	settings Settings

	primary    *Primary
	velocity   *ImageVelocityEffect
	xyLerp     *XYLerpEffect
	rotation   *RotationEffect
	tan        *TanEffect
	noise      *NoiseEffect
	hypercos   *HypercosEffect
	horizontal *PlaneEffect
	vertical   *PlaneEffect
	multiplier *MultiplierEffect

	minStep  coords.NormalizedCoords
	pipeline Pipeline
	inPass   atomic.Bool
	passes   uint64
}

// NewZoomVector returns a zoom vector with DefaultSettings applied. A nil
// rng is replaced by a randomly seeded source.
func NewZoomVector(rng *rand.Rand) *ZoomVector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	zv := &ZoomVector{
		rng:        rng,
		velocity:   NewImageVelocityEffect(),
		xyLerp:     NewXYLerpEffect(),
		rotation:   NewRotationEffect(),
		tan:        NewTanEffect(),
		noise:      NewNoiseEffect(),
		hypercos:   NewHypercosEffect(),
		horizontal: NewPlaneEffect(HorizontalPlane),
		vertical:   NewPlaneEffect(VerticalPlane),
		multiplier: NewMultiplierEffect(MultiplierSettings{}),
	}
	zv.SetSettings(DefaultSettings())

	return zv
}

// Settings returns the settings last applied.
func (zv *ZoomVector) Settings() Settings {
	return zv.settings
}

// SetSettings applies s. Only the effects that s enables receive new
// random parameters. It panics with ErrSettingsInFlight if a pass is
// running.
func (zv *ZoomVector) SetSettings(s Settings) {
	if zv.inPass.Load() {
		panic(ErrSettingsInFlight)
	}

	zv.settings = s

	zv.primary = NewPrimary(s.Primary)
	zv.primary.SetRandomParameters(zv.rng)
	zv.primary.SetSpeed(s.Speed)

	p := Pipeline{Primary: zv.primary}

	for _, k := range AfterEffectOrder() {
		if !s.AfterEffects.enabled(k) {
			continue
		}
		p.After = append(p.After, zv.enableAfterEffect(k, s.AfterEffects))
	}

	if s.Planes.Horizontal {
		zv.horizontal.SetRandomParameters(zv.rng)
		p.Horizontal = zv.horizontal
	}
	if s.Planes.Vertical {
		zv.vertical.SetRandomParameters(zv.rng)
		p.Vertical = zv.vertical
	}

	if s.Multiplier.Active {
		zv.multiplier.MultiplierSettings = s.Multiplier
		p.Multiplier = zv.multiplier
	}

	p.MinStep = zv.minStep
	zv.pipeline = p
}

// SetConverter takes the minimal displacement from conv, which must
// describe the screen the buffer is produced for. Until it is called no
// minimum applies. It panics with ErrSettingsInFlight if a pass is running.
func (zv *ZoomVector) SetConverter(conv *coords.Converter) {
	if zv.inPass.Load() {
		panic(ErrSettingsInFlight)
	}
	zv.minStep = coords.New(conv.MinNormalizedX(), conv.MinNormalizedY())
	zv.pipeline.MinStep = zv.minStep
}

// MinStep returns the minimal displacement set by SetConverter.
func (zv *ZoomVector) MinStep() coords.NormalizedCoords {
	return zv.minStep
}

func (zv *ZoomVector) enableAfterEffect(k AfterEffectKind, s AfterEffectsSettings) Effect {
	switch k {
	case ImageVelocity:
		zv.velocity.SetRandomParameters(zv.rng)
		return zv.velocity
	case XYLerp:
		zv.xyLerp.SetRandomParameters(zv.rng)
		return zv.xyLerp
	case Rotation:
		zv.rotation.Apply(s.RotationAdjustment, zv.rng)
		return zv.rotation
	case Tangent:
		zv.tan.SetRandomParameters(zv.rng)
		return zv.tan
	case Noise:
		zv.noise.SetRandomParameters(zv.rng)
		return zv.noise
	default:
		zv.hypercos.SetMode(s.Hypercos, zv.rng)
		return zv.hypercos
	}
}

// BeginPass marks the start of a pass. It selects this pass's noise
// pattern and blocks SetSettings until EndPass.
func (zv *ZoomVector) BeginPass() {
	if zv.settings.AfterEffects.Noise {
		zv.noise.SetPass(zv.passes)
	}
	zv.passes++
	zv.inPass.Store(true)
}

// EndPass marks the end of a pass.
func (zv *ZoomVector) EndPass() {
	zv.inPass.Store(false)
}

// GetDisplacement returns the displacement for the centred coordinate c.
func (zv *ZoomVector) GetDisplacement(c coords.NormalizedCoords) coords.NormalizedCoords {
	return zv.pipeline.GetDisplacement(c)
}

// NameValueParams returns the active primary kind and the parameters of
// every active effect.
func (zv *ZoomVector) NameValueParams(group string) []NameValue {
	nv := []NameValue{
		Pair(group, "primary", zv.primary.Kind()),
		Pair(group, "minStep", zv.minStep.X()),
	}
	nv = append(nv, zv.primary.NameValueParams(group)...)

	stages := append([]Effect(nil), zv.pipeline.After...)
	stages = append(stages, zv.pipeline.Horizontal, zv.pipeline.Vertical, zv.pipeline.Multiplier)
	for _, e := range stages {
		if r, ok := e.(ParamReporter); ok {
			nv = append(nv, r.NameValueParams(group)...)
		}
	}

	return nv
}
