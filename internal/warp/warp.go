// Package warp resamples an image through a completed transform buffer.
//
// Each destination pixel (x, y) is read from the source at the screen
// position of the buffer's cell (x, y). Out-of-range coordinates are
// clamped to the edge and non-finite coordinates sample the origin, so a
// pathological buffer degrades the picture but never fails.
package warp

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/glk1001/visualization.goom--sub005/coords"
	"github.com/glk1001/visualization.goom--sub005/internal/parallel"
)

// ErrSizeMismatch is returned when the source, destination and buffer
// sizes disagree.
var ErrSizeMismatch = errors.New("warp: size mismatch")

// Buffer is the read side of a transform buffer.
type Buffer interface {
	Width() int
	Height() int
	Row(y int) []coords.NormalizedCoords
}

// InterpolationMode selects how the source is sampled.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest source pixel.
	InterpNearest InterpolationMode = iota

	// InterpBilinear blends the four surrounding source pixels.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// Warper applies transform buffers to images using a row worker pool.
type Warper struct {
	rows *parallel.RowExecutor
	mode InterpolationMode
}

// New creates a Warper with the given pool size and interpolation mode.
func New(workers int, mode InterpolationMode) *Warper {
	return &Warper{rows: parallel.NewRowExecutor(workers), mode: mode}
}

// Close releases the worker pool.
func (w *Warper) Close() {
	w.rows.Close()
}

// Warp fills dst by sampling src through buf. conv converts the buffer's
// normalized coordinates to source pixels. dst and src must not alias.
func (w *Warper) Warp(dst, src *image.RGBA, buf Buffer, conv *coords.Converter) error {
	width, height := buf.Width(), buf.Height()
	if dst.Rect.Dx() != width || dst.Rect.Dy() != height ||
		src.Rect.Dx() != width || src.Rect.Dy() != height {
		return fmt.Errorf("%w: dst %v, src %v, buffer %dx%d",
			ErrSizeMismatch, dst.Rect.Size(), src.Rect.Size(), width, height)
	}

	sample := sampleBilinear
	if w.mode == InterpNearest {
		sample = sampleNearest
	}

	w.rows.ForRows(height, func(y int) {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*width]
		for x, c := range buf.Row(y) {
			fx, fy := conv.ToScreenFloat(c)
			sample(src, float64(fx), float64(fy), out[4*x:4*x+4])
		}
	})

	return nil
}

// sampleNearest copies the source pixel nearest to (fx, fy) into px.
func sampleNearest(src *image.RGBA, fx, fy float64, px []byte) {
	x := int(math.Round(toEdge(fx, src.Rect.Dx()-1)))
	y := int(math.Round(toEdge(fy, src.Rect.Dy()-1)))

	i := y*src.Stride + 4*x
	copy(px, src.Pix[i:i+4])
}

// sampleBilinear interpolates between the four source pixels around
// (fx, fy) and writes the result into px.
func sampleBilinear(src *image.RGBA, fx, fy float64, px []byte) {
	maxX, maxY := src.Rect.Dx()-1, src.Rect.Dy()-1

	fx, fy = toEdge(fx, maxX), toEdge(fy, maxY)
	x0, y0 := int(fx), int(fy)
	tx, ty := fx-float64(x0), fy-float64(y0)
	x1, y1 := min(x0+1, maxX), min(y0+1, maxY)

	top, bottom := src.Pix[y0*src.Stride:], src.Pix[y1*src.Stride:]
	for c := range 4 {
		upper := mix(top[4*x0+c], top[4*x1+c], tx)
		lower := mix(bottom[4*x0+c], bottom[4*x1+c], tx)
		px[c] = byte(upper + (lower-upper)*ty + 0.5)
	}
}

// toEdge clamps v to [0, limit]. NaN maps to 0 and infinities to the
// nearer edge.
func toEdge(v float64, limit int) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), float64(limit))
}

func mix(a, b byte, t float64) float64 {
	return float64(a) + (float64(b)-float64(a))*t
}
