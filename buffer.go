package goom

import (
	"fmt"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// TransformBuffer holds one normalized source coordinate per destination
// pixel, in row-major order.
type TransformBuffer struct {
	width  int
	height int
	cells  []coords.NormalizedCoords
}

// NewTransformBuffer allocates a width x height buffer of zero cells.
func NewTransformBuffer(width, height int) (*TransformBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &TransformBuffer{
		width:  width,
		height: height,
		cells:  make([]coords.NormalizedCoords, width*height),
	}, nil
}

// Width returns the buffer width.
func (b *TransformBuffer) Width() int { return b.width }

// Height returns the buffer height.
func (b *TransformBuffer) Height() int { return b.height }

// At returns the cell for destination pixel (x, y).
func (b *TransformBuffer) At(x, y int) coords.NormalizedCoords {
	return b.cells[y*b.width+x]
}

// Row returns row y. The slice aliases the buffer.
func (b *TransformBuffer) Row(y int) []coords.NormalizedCoords {
	i := y * b.width
	return b.cells[i : i+b.width : i+b.width]
}

// Cells returns all cells in row-major order. The slice aliases the buffer.
func (b *TransformBuffer) Cells() []coords.NormalizedCoords {
	return b.cells
}

// Fill sets every cell to c.
func (b *TransformBuffer) Fill(c coords.NormalizedCoords) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// SameSize reports whether b and o have equal dimensions.
func (b *TransformBuffer) SameSize(o *TransformBuffer) bool {
	return b.width == o.width && b.height == o.height
}

// CopyTo copies b into dst, reallocating dst's cells when the sizes differ.
func (b *TransformBuffer) CopyTo(dst *TransformBuffer) {
	if !b.SameSize(dst) {
		dst.width, dst.height = b.width, b.height
		dst.cells = make([]coords.NormalizedCoords, len(b.cells))
	}
	copy(dst.cells, b.cells)
}
