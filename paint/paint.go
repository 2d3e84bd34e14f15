// Package paint draws test patterns as terminal cells.
//
// Patterns are rasterized into a cellbuf.Buffer. With half blocks enabled
// every cell carries two vertically stacked pixels (upper half in the
// foreground color, lower half in the background color), which gives
// roughly square pixels on common terminal fonts. Colors are downsampled to
// the terminal's color profile; without color support the luminance is
// shown with shade characters instead.
package paint

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/lucasb-eyer/go-colorful"
)

const upperHalf = '▀'

// Shade characters from dark to light, used when the profile has no colors.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// Painter renders descriptors for one terminal.
type Painter struct {
	profile   colorprofile.Profile
	halfBlock bool
}

// New returns a painter for the given color profile.
func New(profile colorprofile.Profile, halfBlock bool) *Painter {
	return &Painter{profile: profile, halfBlock: halfBlock}
}

// Profile returns the color profile the painter targets.
func (p *Painter) Profile() colorprofile.Profile { return p.profile }

// HalfBlock reports whether cells carry two pixels.
func (p *Painter) HalfBlock() bool { return p.halfBlock }

// Color converts c to the painter's profile. It returns nil when the
// profile has no colors; lipgloss treats nil as "no color".
func (p *Painter) Color(c color.Color) color.Color {
	return p.profile.Convert(c)
}

// Hex is Color for a "#RRGGBB" string. Invalid input yields nil.
func (p *Painter) Hex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil
	}
	return p.Color(c)
}

// Pattern renders d into a w×h cell area.
func (p *Painter) Pattern(d catalog.Descriptor, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	switch d.Kind {
	case catalog.Solid:
		return p.Pixels(w, h, SolidSource(d.Color))
	case catalog.Gradient:
		return p.Pixels(w, h, GradientSource(d.Gradient))
	}
	if d.Render == nil {
		return p.Pixels(w, h, SolidSource(black))
	}
	return d.Render(w, h)
}

// Pixels rasterizes fn into a w×h cell area.
func (p *Painter) Pixels(w, h int, fn PixelFunc) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	buf := cellbuf.NewBuffer(w, h)
	p.fill(buf, fn)
	return p.render(buf)
}

// pixelHeight is the raster height of an h-row area.
func (p *Painter) pixelHeight(h int) int {
	if p.halfBlock {
		return h * 2
	}
	return h
}

// aspect is the height of one raster pixel relative to its width.
func (p *Painter) aspect() float64 {
	if p.halfBlock {
		return 1
	}
	return 2
}

func (p *Painter) fill(buf *cellbuf.Buffer, fn PixelFunc) {
	w, h := buf.Width(), buf.Height()
	ph := p.pixelHeight(h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var top, bottom colorful.Color
			if p.halfBlock {
				top, bottom = fn(x, 2*y, w, ph), fn(x, 2*y+1, w, ph)
			} else {
				top = fn(x, y, w, ph)
				bottom = top
			}
			buf.SetCell(x, y, p.pixelCell(top, bottom))
		}
	}
}

func (p *Painter) pixelCell(top, bottom colorful.Color) *cellbuf.Cell {
	if p.profile <= colorprofile.Ascii {
		avg := top.BlendRgb(bottom, 0.5)
		return cellbuf.NewCell(shade(avg))
	}

	var c *cellbuf.Cell
	if top == bottom {
		c = cellbuf.NewCell(' ')
	} else {
		c = cellbuf.NewCell(upperHalf)
		c.Style.Foreground(top)
	}
	c.Style.Background(bottom)
	c.Style = cellbuf.ConvertStyle(c.Style, p.profile)
	return c
}

func shade(c colorful.Color) rune {
	c = c.Clamped()
	lum := 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
	i := int(lum * float64(len(shades)))
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

// putString writes s at (x, y) with style st. Characters past the buffer
// edge are dropped.
func (p *Painter) putString(buf *cellbuf.Buffer, x, y int, s string, st cellbuf.Style) {
	st = cellbuf.ConvertStyle(st, p.profile)
	if x < 0 {
		x = 0
	}
	for _, r := range s {
		c := cellbuf.NewCell(r)
		if c.Width == 0 {
			continue
		}
		c.Style = st
		if !buf.SetCell(x, y, c) {
			return
		}
		x += c.Width
	}
}

// render turns buf into newline separated lines of exactly buf.Width()
// columns.
func (p *Painter) render(buf *cellbuf.Buffer) string {
	out := strings.ReplaceAll(cellbuf.Render(buf), "\r\n", "\n")
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		// Render trims trailing blank cells.
		if pad := buf.Width() - ansi.StringWidth(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	for len(lines) < buf.Height() {
		lines = append(lines, strings.Repeat(" ", buf.Width()))
	}
	return strings.Join(lines, "\n")
}
