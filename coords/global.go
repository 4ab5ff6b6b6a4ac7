package coords

import (
	"image"
	"sync/atomic"
)

// current holds the process-wide converter. It is replaced, never mutated,
// on every screen-dimension change.
var current atomic.Pointer[Converter]

// SetScreenDimensions installs the process-wide converter for a
// width x height screen. It must be called before any of the package-level
// conversion functions, and again after every screen resize.
func SetScreenDimensions(width, height int, minStep float32) error {
	cv, err := NewConverter(width, height, minStep)
	if err != nil {
		return err
	}
	current.Store(cv)
	return nil
}

// Current returns the process-wide converter.
// It panics with ErrNotInitialized if SetScreenDimensions was never called.
func Current() *Converter {
	cv := current.Load()
	if cv == nil {
		panic(ErrNotInitialized)
	}
	return cv
}

// ToNormalized converts p using the process-wide converter.
func ToNormalized(p image.Point) NormalizedCoords {
	return Current().ToNormalized(p)
}

// ToScreen converts c using the process-wide converter.
func ToScreen(c NormalizedCoords) image.Point {
	return Current().ToScreen(c)
}

// Increment advances c using the process-wide converter.
func Increment(c NormalizedCoords, step Step) NormalizedCoords {
	return Current().Increment(c, step)
}
