package warp

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// gridBuffer is a Buffer backed by a flat slice.
type gridBuffer struct {
	w, h  int
	cells []coords.NormalizedCoords
}

func (b *gridBuffer) Width() int  { return b.w }
func (b *gridBuffer) Height() int { return b.h }
func (b *gridBuffer) Row(y int) []coords.NormalizedCoords {
	return b.cells[y*b.w : (y+1)*b.w]
}

func identityBuffer(conv *coords.Converter) *gridBuffer {
	b := &gridBuffer{w: conv.Width(), h: conv.Height(), cells: make([]coords.NormalizedCoords, conv.Width()*conv.Height())}
	for y := range b.h {
		for x := range b.w {
			b.cells[y*b.w+x] = conv.ToNormalized(image.Pt(x, y))
		}
	}
	return b
}

func constantBuffer(w, h int, c coords.NormalizedCoords) *gridBuffer {
	b := &gridBuffer{w: w, h: h, cells: make([]coords.NormalizedCoords, w*h)}
	for i := range b.cells {
		b.cells[i] = c
	}
	return b
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	return img
}

func mustConverter(t *testing.T, w, h int) *coords.Converter {
	t.Helper()
	conv, err := coords.NewConverter(w, h, 0)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

func TestWarp_Identity(t *testing.T) {
	for _, mode := range []InterpolationMode{InterpNearest, InterpBilinear} {
		t.Run(mode.String(), func(t *testing.T) {
			const w, h = 13, 7
			conv := mustConverter(t, w, h)
			src := gradientImage(w, h)
			dst := image.NewRGBA(src.Rect)

			wp := New(2, mode)
			defer wp.Close()

			if err := wp.Warp(dst, src, identityBuffer(conv), conv); err != nil {
				t.Fatalf("Warp() error = %v", err)
			}
			for y := range h {
				for x := range w {
					if got, want := dst.RGBAAt(x, y), src.RGBAAt(x, y); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestWarp_Clamping(t *testing.T) {
	const w, h = 6, 4
	conv := mustConverter(t, w, h)
	src := gradientImage(w, h)

	tests := []struct {
		name string
		c    coords.NormalizedCoords
		want image.Point
	}{
		{"far positive", coords.New(100, 100), image.Pt(w-1, h-1)},
		{"far negative", coords.New(-100, -100), image.Pt(0, 0)},
		{"NaN", coords.New(float32(math.NaN()), float32(math.NaN())), image.Pt(0, 0)},
		{"infinite", coords.New(float32(math.Inf(1)), float32(math.Inf(-1))), image.Pt(w-1, 0)},
	}

	for _, tt := range tests {
		for _, mode := range []InterpolationMode{InterpNearest, InterpBilinear} {
			t.Run(tt.name+"/"+mode.String(), func(t *testing.T) {
				dst := image.NewRGBA(src.Rect)
				wp := New(1, mode)
				defer wp.Close()

				if err := wp.Warp(dst, src, constantBuffer(w, h, tt.c), conv); err != nil {
					t.Fatalf("Warp() error = %v", err)
				}
				want := src.RGBAAt(tt.want.X, tt.want.Y)
				if got := dst.RGBAAt(2, 2); got != want {
					t.Errorf("pixel = %v, want %v", got, want)
				}
			})
		}
	}
}

func TestToEdge(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"inside", 2.5, 2.5},
		{"below", -0.1, 0},
		{"above", 9.2, 5},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 5},
		{"-Inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toEdge(tt.v, 5); got != tt.want {
				t.Errorf("toEdge(%v, 5) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestWarp_BilinearHalfPixel(t *testing.T) {
	const w, h = 2, 2
	conv := mustConverter(t, w, h)

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	src.SetRGBA(0, 0, color.RGBA{A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(0, 1, color.RGBA{A: 255})
	src.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	mid := conv.ToNormalized(image.Pt(0, 0))
	mid = mid.WithX(mid.X() + conv.StepSize()/2)

	dst := image.NewRGBA(src.Rect)
	wp := New(1, InterpBilinear)
	defer wp.Close()

	if err := wp.Warp(dst, src, constantBuffer(w, h, mid), conv); err != nil {
		t.Fatalf("Warp() error = %v", err)
	}
	if got := dst.RGBAAt(0, 0).R; got < 127 || got > 128 {
		t.Errorf("half-way sample R = %d, want 127 or 128", got)
	}
}

func TestWarp_SizeMismatch(t *testing.T) {
	conv := mustConverter(t, 4, 4)
	wp := New(1, InterpBilinear)
	defer wp.Close()

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dst := image.NewRGBA(image.Rect(0, 0, 3, 4))
	err := wp.Warp(dst, src, constantBuffer(4, 4, coords.New(0, 0)), conv)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Warp() error = %v, want ErrSizeMismatch", err)
	}
}

func BenchmarkWarp_HD(b *testing.B) {
	const w, h = 1280, 720
	conv, _ := coords.NewConverter(w, h, 0)
	src := gradientImage(w, h)
	dst := image.NewRGBA(src.Rect)
	buf := identityBuffer(conv)

	wp := New(0, InterpBilinear)
	defer wp.Close()

	b.ReportAllocs()
	for b.Loop() {
		_ = wp.Warp(dst, src, buf, conv)
	}
}
