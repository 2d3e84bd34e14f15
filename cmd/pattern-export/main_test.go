package main

import (
	"image/color"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/paint"
	"github.com/stretchr/testify/require"
)

func builtin(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Builtin(paint.New(colorprofile.TrueColor, true).Registry())
	require.NoError(t, err)
	return cat
}

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestRenderEveryBuiltin(t *testing.T) {
	for _, d := range builtin(t).All() {
		img, err := render(d, 160, 90)
		require.NoError(t, err, d.ID)
		require.Equal(t, 160, img.Bounds().Dx(), d.ID)
		require.Equal(t, 90, img.Bounds().Dy(), d.ID)
	}
}

func TestRenderSolidAndGradient(t *testing.T) {
	cat := builtin(t)

	i, _ := cat.IndexOf("red")
	img, err := render(cat.At(i), 8, 8)
	require.NoError(t, err)
	require.Equal(t, [3]uint32{255, 0, 0}, rgb(img.At(3, 3)))

	i, _ = cat.IndexOf("grad-h")
	img, err = render(cat.At(i), 64, 4)
	require.NoError(t, err)
	require.Equal(t, [3]uint32{0, 0, 0}, rgb(img.At(0, 0)))
	require.Equal(t, [3]uint32{255, 255, 255}, rgb(img.At(63, 0)))
}

func TestRenderText(t *testing.T) {
	img := renderText(300, 150)
	require.Equal(t, 300, img.Bounds().Dx())
	require.Equal(t, [3]uint32{255, 255, 255}, rgb(img.At(0, 0)), "page corner is white")

	dark := 0
	for y := 0; y < 150; y++ {
		for x := 0; x < 300; x++ {
			if rgb(img.At(x, y))[0] < 128 {
				dark++
			}
		}
	}
	require.Positive(t, dark, "glyphs are drawn")
}

func TestRenderUnknownComposite(t *testing.T) {
	d := catalog.NewComposite("plasma", "Plasma", "plasma", func(w, h int) string { return "" }, "")
	_, err := render(d, 10, 10)
	require.ErrorIs(t, err, errNoPixels)
}
