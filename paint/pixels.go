package paint

import (
	"math"

	"github.com/cursork/pixelperfect/catalog"
	"github.com/lucasb-eyer/go-colorful"
)

// PixelFunc returns the color of pixel (x, y) in a w×h raster.
type PixelFunc func(x, y, w, h int) colorful.Color

var (
	black   = colorful.Color{R: 0, G: 0, B: 0}
	white   = colorful.Color{R: 1, G: 1, B: 1}
	gridRed = mustHex("#EF4444")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// SolidSource fills every pixel with c.
func SolidSource(c colorful.Color) PixelFunc {
	return func(int, int, int, int) colorful.Color { return c }
}

// GradientSource interpolates g along its axis. The first and last pixel
// carry exactly the end colors.
func GradientSource(g catalog.GradientSpec) PixelFunc {
	return func(x, y, w, h int) colorful.Color {
		pos, span := x, w
		if g.Direction == catalog.Vertical {
			pos, span = y, h
		}
		if span <= 1 {
			return g.From
		}
		return g.At(float64(pos) / float64(span-1))
	}
}

// ContrastSource is a ramp of 100 gray bars, lightness 0% to 99% in HSL.
func ContrastSource() PixelFunc {
	return func(x, _, w, _ int) colorful.Color {
		if w <= 0 {
			return black
		}
		step := x * 100 / w
		return colorful.Hsl(0, 0, float64(step)/100).Clamped()
	}
}

// GridSource draws white grid lines every step pixels on black, with a red
// center cross and a red circle. aspect is the height of one pixel relative
// to its width; it keeps the grid square and the circle round on
// non-square pixels such as terminal cells.
func GridSource(step int, aspect float64) PixelFunc {
	if step < 2 {
		step = 2
	}
	if aspect <= 0 {
		aspect = 1
	}
	return func(x, y, w, h int) colorful.Color {
		// Work in square units.
		fx, fy := float64(x)+0.5, (float64(y)+0.5)*aspect
		cx, cy := float64(w)/2, float64(h)*aspect/2

		if x == w/2 || y == h/2 {
			return gridRed
		}
		r := math.Min(cx, cy) / 2
		if math.Abs(math.Hypot(fx-cx, fy-cy)-r) < 0.5*math.Max(1, aspect) {
			return gridRed
		}

		ystep := int(math.Round(float64(step) / aspect))
		if ystep < 1 {
			ystep = 1
		}
		if x%step == 0 || y%ystep == 0 {
			return white
		}
		return black
	}
}

// Source returns the pixel source for d, or false when d can only be drawn
// as text (the text readability pattern or an unknown composite).
func Source(d catalog.Descriptor, gridStep int, aspect float64) (PixelFunc, bool) {
	switch d.Kind {
	case catalog.Solid:
		return SolidSource(d.Color), true
	case catalog.Gradient:
		return GradientSource(d.Gradient), true
	}
	switch d.RendererName {
	case "contrast":
		return ContrastSource(), true
	case "grid":
		return GridSource(gridStep, aspect), true
	}
	return nil, false
}
