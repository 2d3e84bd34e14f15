// pattern-export renders the pattern catalog to image files at a chosen
// resolution, for displays that cannot run a terminal.
//
//	go build ./cmd/pattern-export
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/paint"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Grid line spacing in image pixels.
const gridStep = 50

var errNoPixels = errors.New("pattern has no pixel renderer")

func main() {
	width := flag.Int("width", 1920, "image width in pixels")
	height := flag.Int("height", 1080, "image height in pixels")
	out := flag.String("out", "patterns", "output directory")
	format := flag.String("format", "png", "image format: png, jpg, gif, bmp or tiff")
	catalogPath := flag.String("catalog", "", "extra pattern file (.toml, .yaml or .yml) appended to the builtin set")
	only := flag.String("only", "", "comma-separated pattern IDs to export")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *width <= 0 || *height <= 0 {
		log.Fatalf("invalid size %dx%d", *width, *height)
	}
	if _, err := imaging.FormatFromExtension(*format); err != nil {
		log.Fatalf("format %q: %v", *format, err)
	}

	reg := paint.New(colorprofile.TrueColor, true).Registry()
	cat, err := catalog.Builtin(reg)
	if err != nil {
		log.Fatal(err)
	}
	if *catalogPath != "" {
		extra, err := catalog.LoadFile(*catalogPath, reg)
		if err != nil {
			log.Fatal(err)
		}
		if cat, err = cat.Append(extra...); err != nil {
			log.Fatal(err)
		}
	}
	if *only != "" {
		if cat, err = cat.Select(strings.Split(*only, ",")); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal(err)
	}

	written := 0
	for i, d := range cat.All() {
		img, err := render(d, *width, *height)
		if err != nil {
			logger.Warn("skipping pattern", "pattern", d.ID, "err", err)
			continue
		}
		path := filepath.Join(*out, fmt.Sprintf("%02d-%s.%s", i+1, d.ID, *format))
		if err := imaging.Save(img, path); err != nil {
			log.Fatalf("saving %s: %v", path, err)
		}
		logger.Info("exported", "pattern", d.ID, "path", path)
		written++
	}
	logger.Info("done", "patterns", written, "size", fmt.Sprintf("%dx%d", *width, *height))
}

// render draws d at w×h pixels.
func render(d catalog.Descriptor, w, h int) (image.Image, error) {
	if src, ok := paint.Source(d, gridStep, 1); ok {
		img := imaging.New(w, h, color.Black)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Set(x, y, src(x, y, w, h))
			}
		}
		return img, nil
	}
	if d.RendererName == "text" {
		return renderText(w, h), nil
	}
	return nil, fmt.Errorf("%w: %q", errNoPixels, d.RendererName)
}

// renderText draws the readability page with a bitmap font. The page is
// laid out at a third of the target size and scaled up with nearest
// neighbour sampling so glyph edges stay hard.
func renderText(w, h int) image.Image {
	const scale = 3
	face := basicfont.Face7x13
	sw, sh := max(w/scale, 1), max(h/scale, 1)
	page := imaging.New(sw, sh, color.White)

	lines := paint.TextSample()
	lineH := face.Metrics().Height.Ceil() + 4
	top := (sh - len(lines)*lineH) / 2

	dr := &font.Drawer{Dst: page, Src: image.NewUniform(color.Black), Face: face}
	for i, line := range lines {
		adv := dr.MeasureString(line).Ceil()
		dr.Dot = fixed.P((sw-adv)/2, top+i*lineH+face.Metrics().Ascent.Ceil())
		dr.DrawString(line)
	}

	swatches := []color.Color{
		color.RGBA{0xF3, 0xF4, 0xF6, 0xFF},
		color.RGBA{0xE5, 0xE7, 0xEB, 0xFF},
		color.RGBA{0x1F, 0x29, 0x37, 0xFF},
		color.Black,
	}
	const swW, swH = 40, 16
	x := (sw - len(swatches)*(swW+8)) / 2
	y := top + len(lines)*lineH + lineH
	for _, c := range swatches {
		for py := y; py < min(y+swH, sh); py++ {
			for px := max(x, 0); px < min(x+swW, sw); px++ {
				page.Set(px, py, c)
			}
		}
		x += swW + 8
	}

	return imaging.Resize(page, w, h, imaging.NearestNeighbor)
}
