// Package effects implements the zoom point function: the per-pixel
// displacement that the transform buffer producer evaluates once for every
// output pixel.
//
// The displacement is composed in a fixed order by a Pipeline:
//
//  1. the base displacement of the selected primary effect;
//  2. plus the delta of each enabled after-effect, in the order
//     image-velocity, xy-lerp, rotation, tangent, noise, hypercos overlay;
//  3. the horizontal and vertical plane overrides, which replace one axis;
//  4. the multiplier, which rescales the net displacement;
//  5. the minimum-step snap, which raises any component smaller than one
//     minimal step to that step so no pixel stalls.
//
// Every stage is an Effect. Parameters change only through
// SetRandomParameters or ZoomVector.SetSettings, and only while no pass is
// running; during a pass GetDisplacement is called concurrently from
// several goroutines and must not mutate anything.
package effects

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// Effect is one stage of the zoom point function.
type Effect interface {
	// SetRandomParameters chooses a new set of parameters.
	SetRandomParameters(rng *rand.Rand)

	// GetDisplacement returns this stage's output for the centred
	// coordinate c, given the displacement acc accumulated by the
	// earlier stages. How the output is combined with acc depends on the
	// stage; see the package documentation.
	GetDisplacement(c, acc coords.NormalizedCoords) coords.NormalizedCoords
}

// NameValue is one named diagnostic value. Names have the form
// "group::name".
type NameValue struct {
	Name  string
	Value string
}

// ParamReporter is implemented by effects that can describe their current
// parameters.
type ParamReporter interface {
	NameValueParams(group string) []NameValue
}

// Pair builds a NameValue for value under group.
func Pair(group, name string, value any) NameValue {
	return NameValue{Name: group + "::" + name, Value: formatValue(value)}
}

// SubGroup joins nested parameter group names.
func SubGroup(group, sub string) string {
	if group == "" {
		return sub
	}
	return group + "::" + sub
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 3, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case coords.NormalizedCoords:
		return "(" + formatValue(v.X()) + ", " + formatValue(v.Y()) + ")"
	case interface{ String() string }:
		return v.String()
	default:
		return "?"
	}
}

// randIn returns a uniformly distributed value in [lo, hi).
func randIn(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// probabilityOf returns true with probability p.
func probabilityOf(rng *rand.Rand, p float32) bool {
	return rng.Float32() < p
}

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }
