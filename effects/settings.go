package effects

import "image"

// Settings is a snapshot of every filter-effect setting. It is a plain
// value: copying it yields an independent snapshot.
type Settings struct {
	// Primary selects the primary effect.
	Primary PrimaryKind
	// Speed scales the primary displacement.
	Speed float32
	// ZoomMidpoint is the screen pixel the warp is centred on. The
	// coordinator applies it to the producer, not to the zoom vector.
	ZoomMidpoint image.Point

	AfterEffects AfterEffectsSettings
	Planes       PlaneSettings
	Multiplier   MultiplierSettings
}

// AfterEffectsSettings toggles the after-effects.
type AfterEffectsSettings struct {
	ImageVelocity bool
	XYLerp        bool
	Rotation      bool
	Tangent       bool
	Noise         bool
	Hypercos      HypercosMode

	// RotationAdjustment is applied to the rotation effect when it is
	// enabled.
	RotationAdjustment RotationAdjustment
}

// PlaneSettings toggles the plane overrides.
type PlaneSettings struct {
	Horizontal bool
	Vertical   bool
}

// MultiplierSettings configures the multiplier stage. When Active is false
// the stage is skipped.
type MultiplierSettings struct {
	Active       bool
	XFreq        float32
	YFreq        float32
	XAmplitude   float32
	YAmplitude   float32
	LerpToCoords float32
}

// DefaultSettings returns settings for a plain zoom with every optional
// stage disabled.
func DefaultSettings() Settings {
	return Settings{
		Primary: ZoomIn,
		Speed:   1,
		Multiplier: MultiplierSettings{
			XFreq:      1,
			YFreq:      1,
			XAmplitude: 1,
			YAmplitude: 1,
		},
	}
}

// enabled reports whether the after-effect k is switched on.
func (s AfterEffectsSettings) enabled(k AfterEffectKind) bool {
	switch k {
	case ImageVelocity:
		return s.ImageVelocity
	case XYLerp:
		return s.XYLerp
	case Rotation:
		return s.Rotation
	case Tangent:
		return s.Tangent
	case Noise:
		return s.Noise
	case HypercosOverlay:
		return s.Hypercos != HypercosNone
	default:
		return false
	}
}
