package effects

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// PrimaryKind selects the primary effect. Exactly one is active at a time.
type PrimaryKind uint8

const (
	// ZoomIn is a plain zoom towards the midpoint.
	ZoomIn PrimaryKind = iota
	// Amulet zooms faster away from the midpoint.
	Amulet
	// CrystalBall zooms slower away from the midpoint and reverses at the rim.
	CrystalBall
	// Scrunch stretches horizontally while squeezing vertically.
	Scrunch
	// Speedway zooms horizontally at a rate that depends on the row.
	Speedway
	// Wave modulates the zoom rate with distance from the midpoint.
	Wave
	// YOnly zooms along the vertical axis only.
	YOnly

	numPrimaryKinds
)

var primaryKindNames = [numPrimaryKinds]string{
	ZoomIn:      "ZoomIn",
	Amulet:      "Amulet",
	CrystalBall: "CrystalBall",
	Scrunch:     "Scrunch",
	Speedway:    "Speedway",
	Wave:        "Wave",
	YOnly:       "YOnly",
}

// PrimaryKinds returns every primary kind in declaration order.
func PrimaryKinds() []PrimaryKind {
	kinds := make([]PrimaryKind, numPrimaryKinds)
	for i := range kinds {
		kinds[i] = PrimaryKind(i)
	}
	return kinds
}

// String returns the name of the kind.
func (k PrimaryKind) String() string {
	if k < numPrimaryKinds {
		return primaryKindNames[k]
	}
	return fmt.Sprintf("PrimaryKind(%d)", uint8(k))
}

// IsValid reports whether k names a primary effect.
func (k PrimaryKind) IsValid() bool {
	return k < numPrimaryKinds
}

// MarshalText implements encoding.TextMarshaler.
func (k PrimaryKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("effects: invalid primary kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are matched
// case-insensitively.
func (k *PrimaryKind) UnmarshalText(text []byte) error {
	for i, name := range primaryKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = PrimaryKind(i)
			return nil
		}
	}
	return fmt.Errorf("effects: unknown primary kind %q", text)
}

// Parameter ranges for primary effects.
const (
	minBaseCoeff      = 0.02
	maxBaseCoeff      = 0.12
	probEqualCoeffs   = 0.8
	minAmplitude      = 0.1
	maxAmplitude      = 1.0
	minFrequency      = 1.0
	maxFrequency      = 8.0
	defaultBaseCoeff  = 0.05
	defaultAmplitude  = 0.5
	defaultFrequency  = 2.0
	defaultPrimarySpd = 1.0
)

// PrimaryParams are the parameters of a primary effect.
type PrimaryParams struct {
	// Base is the zoom coefficient per axis.
	Base coords.NormalizedCoords
	// Amplitude scales the distance-dependent part of the coefficient.
	Amplitude float32
	// Frequency is used by the oscillating kinds.
	Frequency float32
}

// Primary is a primary effect. Its displacement pulls each coordinate
// towards the midpoint by a per-axis coefficient that depends on the kind.
type Primary struct {
	kind   PrimaryKind
	speed  float32
	params PrimaryParams
}

// NewPrimary returns a primary effect of the given kind with default
// parameters.
func NewPrimary(kind PrimaryKind) *Primary {
	return &Primary{
		kind:  kind,
		speed: defaultPrimarySpd,
		params: PrimaryParams{
			Base:      coords.New(defaultBaseCoeff, defaultBaseCoeff),
			Amplitude: defaultAmplitude,
			Frequency: defaultFrequency,
		},
	}
}

// Kind returns the kind of the effect.
func (p *Primary) Kind() PrimaryKind { return p.kind }

// Params returns the current parameters.
func (p *Primary) Params() PrimaryParams { return p.params }

// SetParams replaces the parameters.
func (p *Primary) SetParams(params PrimaryParams) { p.params = params }

// SetSpeed sets the relative zoom speed. Zero stops the zoom and negative
// values zoom outwards.
func (p *Primary) SetSpeed(speed float32) { p.speed = speed }

// SetRandomParameters implements Effect.
func (p *Primary) SetRandomParameters(rng *rand.Rand) {
	xBase := randIn(rng, minBaseCoeff, maxBaseCoeff)
	yBase := xBase
	if !probabilityOf(rng, probEqualCoeffs) {
		yBase = randIn(rng, minBaseCoeff, maxBaseCoeff)
	}

	p.params = PrimaryParams{
		Base:      coords.New(xBase, yBase),
		Amplitude: randIn(rng, minAmplitude, maxAmplitude),
		Frequency: randIn(rng, minFrequency, maxFrequency),
	}
}

// GetDisplacement implements Effect. acc is ignored.
func (p *Primary) GetDisplacement(c, _ coords.NormalizedCoords) coords.NormalizedCoords {
	return c.Mul(p.coefficients(c)).Scale(-p.speed)
}

func (p *Primary) coefficients(c coords.NormalizedCoords) coords.NormalizedCoords {
	b := p.params.Base
	a := p.params.Amplitude
	sq := c.SqLength()

	switch p.kind {
	case Amulet:
		return b.Scale(1 + a*sq)
	case CrystalBall:
		return b.Scale(1 - a*sq)
	case Scrunch:
		return coords.New(b.X()*(1+a*sq), b.Y()*(1-a*sq))
	case Speedway:
		return coords.New(b.X()*(1+a*c.Y()), b.Y())
	case Wave:
		return b.Scale(1 + a*sin32(p.params.Frequency*sq))
	case YOnly:
		return coords.New(0, b.Y()*(1+a*sin32(p.params.Frequency*c.Y())))
	default:
		return b
	}
}

// NameValueParams implements ParamReporter.
func (p *Primary) NameValueParams(group string) []NameValue {
	g := SubGroup(group, p.kind.String())
	return []NameValue{
		Pair(g, "speed", p.speed),
		Pair(g, "base", p.params.Base),
		Pair(g, "amplitude", p.params.Amplitude),
		Pair(g, "frequency", p.params.Frequency),
	}
}
