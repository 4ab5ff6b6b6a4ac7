package coords

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// =============================================================================
// NormalizedCoords arithmetic
// =============================================================================

func TestNormalizedCoords_Arithmetic(t *testing.T) {
	a := New(0.5, -1.0)
	b := New(0.25, 0.75)

	tests := []struct {
		name string
		got  NormalizedCoords
		want NormalizedCoords
	}{
		{"Add", a.Add(b), New(0.75, -0.25)},
		{"Sub", a.Sub(b), New(0.25, -1.75)},
		{"Scale", a.Scale(2), New(1.0, -2.0)},
		{"Mul", a.Mul(New(2, 3)), New(1.0, -3.0)},
		{"WithX", a.WithX(1.5), New(1.5, -1.0)},
		{"WithY", a.WithY(1.5), New(0.5, 1.5)},
		{"Lerp0", Lerp(a, b, 0), a},
		{"Lerp1", Lerp(a, b, 1), b},
		{"LerpHalf", Lerp(a, b, 0.5), New(0.375, -0.125)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestNormalizedCoords_SqDistance(t *testing.T) {
	got := SqDistance(New(1, 1), New(-2, 5))
	if got != 25 {
		t.Errorf("SqDistance() = %v, want 25", got)
	}
	if l := New(3, 4).SqLength(); l != 25 {
		t.Errorf("SqLength() = %v, want 25", l)
	}
}

func TestNormalizedCoords_IsFinite(t *testing.T) {
	if !New(1, 2).IsFinite() {
		t.Error("IsFinite() = false for finite coords")
	}
	if New(float32(math.NaN()), 0).IsFinite() {
		t.Error("IsFinite() = true for NaN")
	}
	if New(0, float32(math.Inf(-1))).IsFinite() {
		t.Error("IsFinite() = true for -Inf")
	}
}

// =============================================================================
// Converter
// =============================================================================

func TestNewConverter_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {0, 0}} {
		_, err := NewConverter(dims[0], dims[1], DefaultMinStep)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewConverter(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestConverter_RoundTrip(t *testing.T) {
	dims := [][2]int{
		{1, 1}, {1, 7}, {7, 1}, {4, 2}, {2, 4},
		{17, 9}, {640, 480}, {480, 640}, {1280, 720}, {1920, 1080},
	}

	for _, d := range dims {
		cv, err := NewConverter(d[0], d[1], DefaultMinStep)
		if err != nil {
			t.Fatalf("NewConverter(%d, %d): %v", d[0], d[1], err)
		}
		for y := range d[1] {
			for x := range d[0] {
				p := image.Pt(x, y)
				if got := cv.ToScreen(cv.ToNormalized(p)); got != p {
					t.Fatalf("%dx%d: ToScreen(ToNormalized(%v)) = %v", d[0], d[1], p, got)
				}
			}
		}
	}
}

func TestConverter_Range(t *testing.T) {
	cv, err := NewConverter(5, 3, DefaultMinStep)
	if err != nil {
		t.Fatal(err)
	}

	if got := cv.ToNormalized(image.Pt(0, 0)); !got.Equals(New(MinCoord, MinCoord)) {
		t.Errorf("ToNormalized(0,0) = %v, want (%v,%v)", got, MinCoord, MinCoord)
	}
	if got := cv.ToNormalized(image.Pt(4, 0)); !got.Equals(New(MaxCoord, MinCoord)) {
		t.Errorf("ToNormalized(4,0) = %v, want (%v,%v)", got, MaxCoord, MinCoord)
	}
	// The shorter axis spans (height-1)/(width-1) of the full range.
	if got := cv.ToNormalized(image.Pt(0, 2)); !got.Equals(New(MinCoord, 0)) {
		t.Errorf("ToNormalized(0,2) = %v, want (%v,0)", got, MinCoord)
	}
}

func TestConverter_AspectPreservesAngles(t *testing.T) {
	cv, err := NewConverter(101, 51, DefaultMinStep)
	if err != nil {
		t.Fatal(err)
	}

	// A screen-space diagonal must stay at 45 degrees in normalized space.
	a := cv.ToNormalized(image.Pt(10, 10))
	b := cv.ToNormalized(image.Pt(30, 30))
	d := b.Sub(a)
	angle := math.Atan2(float64(d.Y()), float64(d.X()))
	if math.Abs(angle-math.Pi/4) > 1e-5 {
		t.Errorf("diagonal angle = %v, want %v", angle, math.Pi/4)
	}
}

func TestConverter_Increment(t *testing.T) {
	cv, err := NewConverter(9, 5, DefaultMinStep)
	if err != nil {
		t.Fatal(err)
	}

	start := cv.ToNormalized(image.Pt(2, 1))
	tests := []struct {
		step Step
		want image.Point
	}{
		{StepX, image.Pt(3, 1)},
		{StepY, image.Pt(2, 2)},
		{StepXY, image.Pt(3, 2)},
		{0, image.Pt(2, 1)},
	}
	for _, tt := range tests {
		if got := cv.ToScreen(cv.Increment(start, tt.step)); got != tt.want {
			t.Errorf("Increment(step=%d) -> %v, want %v", tt.step, got, tt.want)
		}
	}
}

func TestConverter_IncXMatchesToNormalized(t *testing.T) {
	cv, err := NewConverter(320, 200, DefaultMinStep)
	if err != nil {
		t.Fatal(err)
	}

	c := cv.ToNormalized(image.Pt(0, 7))
	got := make([]float32, 0, cv.Width())
	want := make([]float32, 0, cv.Width())
	for x := range cv.Width() {
		got = append(got, c.X())
		want = append(want, cv.ToNormalized(image.Pt(x, 7)).X())
		c = cv.IncX(c)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-4)); diff != "" {
		t.Errorf("IncX drift (-want +got):\n%s", diff)
	}
}

func TestConverter_MinStep(t *testing.T) {
	cv, err := NewConverter(5, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cv.MinStep() != DefaultMinStep {
		t.Errorf("MinStep() = %v, want %v", cv.MinStep(), DefaultMinStep)
	}
	want := DefaultMinStep * CoordWidth / 4
	if cv.MinNormalizedX() != want || cv.MinNormalizedY() != want {
		t.Errorf("MinNormalized = (%v,%v), want %v", cv.MinNormalizedX(), cv.MinNormalizedY(), want)
	}
}

func TestConverter_ScreenFloatUnclamped(t *testing.T) {
	cv, err := NewConverter(5, 5, DefaultMinStep)
	if err != nil {
		t.Fatal(err)
	}
	x, y := cv.ToScreenFloat(New(MaxCoord+CoordWidth/4, MinCoord-CoordWidth/8))
	if x != 5 || y != -0.5 {
		t.Errorf("ToScreenFloat() = (%v,%v), want (5,-0.5)", x, y)
	}
	if cv.Contains(image.Pt(5, 0)) {
		t.Error("Contains(5,0) = true on a 5x5 screen")
	}
}

// =============================================================================
// Process-wide converter
// =============================================================================

func TestGlobal_PanicsBeforeInit(t *testing.T) {
	saved := current.Load()
	current.Store(nil)
	t.Cleanup(func() { current.Store(saved) })

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotInitialized) {
			t.Errorf("recover() = %v, want ErrNotInitialized", r)
		}
	}()
	_ = ToNormalized(image.Pt(0, 0))
}

func TestGlobal_SetScreenDimensions(t *testing.T) {
	saved := current.Load()
	t.Cleanup(func() { current.Store(saved) })

	if err := SetScreenDimensions(0, 3, 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("SetScreenDimensions(0,3) error = %v, want ErrInvalidDimensions", err)
	}

	if err := SetScreenDimensions(4, 2, 0); err != nil {
		t.Fatalf("SetScreenDimensions(4,2): %v", err)
	}
	p := image.Pt(3, 1)
	if got := ToScreen(ToNormalized(p)); got != p {
		t.Errorf("ToScreen(ToNormalized(%v)) = %v", p, got)
	}
	if got := ToScreen(Increment(ToNormalized(p), StepY)); got != image.Pt(3, 2) {
		t.Errorf("Increment(StepY) -> %v, want (3,2)", got)
	}

	// A resize replaces the constants.
	if err := SetScreenDimensions(9, 9, 0); err != nil {
		t.Fatal(err)
	}
	if Current().Width() != 9 {
		t.Errorf("Current().Width() = %d, want 9", Current().Width())
	}
}
