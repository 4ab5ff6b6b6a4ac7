package coords

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// DefaultMinStep is the minimal screen-space step used when none is given.
// It matches the sub-pixel resolution of the warp stage's filter coefficients.
const DefaultMinStep float32 = 1.0 / 16.0

// Errors returned by the coordinate system.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("coords: invalid screen dimensions")

	// ErrNotInitialized is the panic value raised when a process-wide
	// conversion is attempted before SetScreenDimensions.
	ErrNotInitialized = errors.New("coords: screen dimensions not set")
)

// Step selects the axes advanced by Increment.
type Step uint8

const (
	// StepX advances the horizontal component by one pixel.
	StepX Step = 1 << iota
	// StepY advances the vertical component by one pixel.
	StepY

	// StepXY advances both components.
	StepXY = StepX | StepY
)

// Converter converts between screen pixels and normalized coordinates for
// one set of screen dimensions.
//
// A Converter is immutable after construction and safe for concurrent use.
type Converter struct {
	width  int
	height int

	// screenToNormalized is the normalized size of one pixel. It is the same
	// on both axes so non-square frames keep on-screen angles.
	screenToNormalized float32
	normalizedToScreen float32

	minStep           float32
	minNormalizedStep float32
}

// NewConverter creates a converter for a width x height screen.
// minStep is the smallest screen-space step the caller needs to represent;
// if it is zero or negative DefaultMinStep is used.
func NewConverter(width, height int, minStep float32) (*Converter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if minStep <= 0 {
		minStep = DefaultMinStep
	}

	span := max(width, height) - 1
	if span < 1 {
		span = 1
	}
	ratio := CoordWidth / float32(span)

	return &Converter{
		width:              width,
		height:             height,
		screenToNormalized: ratio,
		normalizedToScreen: 1 / ratio,
		minStep:            minStep,
		minNormalizedStep:  minStep * ratio,
	}, nil
}

// Width returns the screen width in pixels.
func (cv *Converter) Width() int { return cv.width }

// Height returns the screen height in pixels.
func (cv *Converter) Height() int { return cv.height }

// StepSize returns the normalized distance between adjacent pixels.
func (cv *Converter) StepSize() float32 { return cv.screenToNormalized }

// MinStep returns the screen-space minimal step the converter was built with.
func (cv *Converter) MinStep() float32 { return cv.minStep }

// MinNormalizedX returns the minimal step expressed in normalized units
// along the horizontal axis.
func (cv *Converter) MinNormalizedX() float32 { return cv.minNormalizedStep }

// MinNormalizedY returns the minimal step expressed in normalized units
// along the vertical axis.
func (cv *Converter) MinNormalizedY() float32 { return cv.minNormalizedStep }

// ToNormalized converts a screen pixel to normalized coordinates.
func (cv *Converter) ToNormalized(p image.Point) NormalizedCoords {
	return NormalizedCoords{
		MinCoord + cv.screenToNormalized*float32(p.X),
		MinCoord + cv.screenToNormalized*float32(p.Y),
	}
}

// ToScreenFloat converts normalized coordinates to fractional screen
// coordinates without rounding or clamping.
func (cv *Converter) ToScreenFloat(c NormalizedCoords) (x, y float32) {
	return cv.normalizedToScreen * (c[0] - MinCoord), cv.normalizedToScreen * (c[1] - MinCoord)
}

// ToScreen converts normalized coordinates to the nearest screen pixel.
// The result is not clamped to the screen.
func (cv *Converter) ToScreen(c NormalizedCoords) image.Point {
	x, y := cv.ToScreenFloat(c)
	return image.Pt(int(math.Round(float64(x))), int(math.Round(float64(y))))
}

// IncX returns c advanced by one pixel horizontally.
func (cv *Converter) IncX(c NormalizedCoords) NormalizedCoords {
	c[0] += cv.screenToNormalized
	return c
}

// IncY returns c advanced by one pixel vertically.
func (cv *Converter) IncY(c NormalizedCoords) NormalizedCoords {
	c[1] += cv.screenToNormalized
	return c
}

// Increment returns c advanced by one pixel along the axes selected by step.
func (cv *Converter) Increment(c NormalizedCoords, step Step) NormalizedCoords {
	if step&StepX != 0 {
		c = cv.IncX(c)
	}
	if step&StepY != 0 {
		c = cv.IncY(c)
	}
	return c
}

// Contains reports whether p lies on the screen.
func (cv *Converter) Contains(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < cv.width && p.Y < cv.height
}
