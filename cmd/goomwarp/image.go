package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/glk1001/visualization.goom--sub005/effects"
)

// loadImage decodes path (PNG, JPEG, BMP or WebP) and scales it to
// width x height. An empty path yields a generated test pattern.
func loadImage(path string, width, height int) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if path == "" {
		drawPattern(dst)
		return dst, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	logger.Debug("input loaded", "path", path, "format", format, "size", src.Bounds().Size())

	return dst, nil
}

// drawPattern fills img with concentric rings.
func drawPattern(img *image.RGBA) {
	b := img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			v := 0.5 + 0.5*math.Sin(d/6)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255 * v),
				G: uint8(255 * (1 - v)),
				B: uint8(128 + 127*math.Cos(float64(x)/20)),
				A: 255,
			})
		}
	}
}

// savePNG writes img to path.
func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// framePath returns the path for a numbered snapshot of output.
func framePath(output string, frame int) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-%04d%s", strings.TrimSuffix(output, ext), frame, ext)
}

// drawOverlay writes the diagnostics in the top-left corner of img on a
// translucent backing box.
func drawOverlay(img *image.RGBA, values []effects.NameValue) {
	const (
		lineHeight = 14
		margin     = 4
	)

	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.White), Face: face}

	lines := make([]string, len(values))
	width := fixed.I(0)
	for i, nv := range values {
		lines[i] = nv.Name + " = " + nv.Value
		width = max(width, d.MeasureString(lines[i]))
	}

	box := image.Rect(0, 0, width.Ceil()+2*margin, len(lines)*lineHeight+2*margin)
	xdraw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(color.RGBA{A: 160}), image.Point{}, xdraw.Over)

	for i, line := range lines {
		d.Dot = fixed.P(margin, margin+(i+1)*lineHeight-3)
		d.DrawString(line)
	}
}
