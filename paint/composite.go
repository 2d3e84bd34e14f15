package paint

import (
	"strings"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/lucasb-eyer/go-colorful"
)

// Grid line spacing in terminal pixels.
const terminalGridStep = 8

const (
	contrastLabel = "Contrast / Gamma Gradient"
	textHeading   = "Text Readability & Sharpness Test"
	pangram       = "The quick brown fox jumps over the lazy dog."
)

// Registry returns the composite renderers bound to p, keyed by the
// renderer names used in catalogs.
func (p *Painter) Registry() catalog.Registry {
	return catalog.Registry{
		"contrast": p.Contrast,
		"grid":     p.Grid,
		"text":     p.Text,
	}
}

// Contrast draws the gray ramp with a centered caption.
func (p *Painter) Contrast(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	buf := cellbuf.NewBuffer(w, h)
	p.fill(buf, ContrastSource())

	label := " " + contrastLabel + " "
	var st cellbuf.Style
	st.Foreground(white).Background(mustHex("#000000"))
	p.putString(buf, (w-len(label))/2, h/2, label, st)
	return p.render(buf)
}

// Grid draws the alignment grid.
func (p *Painter) Grid(w, h int) string {
	return p.Pixels(w, h, GridSource(terminalGridStep, p.aspect()))
}

type textLine struct {
	label string
	text  string
	attrs cellbuf.AttrMask
	ul    bool
}

// Terminals have a single font size, so the readability sample varies the
// text attributes instead.
var textSamples = []textLine{
	{label: "Regular", text: pangram},
	{label: "Bold", text: pangram, attrs: cellbuf.BoldAttr},
	{label: "Italic", text: pangram, attrs: cellbuf.ItalicAttr},
	{label: "Faint", text: pangram, attrs: cellbuf.FaintAttr},
	{label: "Underline", text: pangram, ul: true},
	{label: "Confusables", text: "0O 1lI| rn m vv w cl d ,. ;: ''\""},
}

var textSwatches = []struct {
	label  string
	bg, fg string
}{
	{"Gray 100", "#F3F4F6", "#000000"},
	{"Gray 200", "#E5E7EB", "#000000"},
	{"Gray 800", "#1F2937", "#FFFFFF"},
	{"Black", "#000000", "#FFFFFF"},
}

// Text draws the text readability page: black text on white, a set of
// attribute samples and gray swatches.
func (p *Painter) Text(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	buf := cellbuf.NewBuffer(w, h)
	p.fill(buf, SolidSource(white))

	var lines []string
	var styles []cellbuf.Style
	add := func(s string, st cellbuf.Style) {
		lines = append(lines, s)
		styles = append(styles, st)
	}

	base := cellbuf.Style{Fg: colorful.Color{}, Bg: white}
	heading := base
	heading.Bold(true)
	add(textHeading, heading)
	add("", base)
	for _, s := range textSamples {
		st := base
		st.Attrs = s.attrs
		if s.ul {
			st.Underline(true)
		}
		add(s.label+" - "+s.text, st)
	}
	add("", base)

	top := (h - len(lines) - 3) / 2
	if top < 0 {
		top = 0
	}
	for i, line := range lines {
		p.putString(buf, (w-len(line))/2, top+i, line, styles[i])
	}

	// Swatch row: each swatch is a padded label on its own background.
	y := top + len(lines)
	const sw = 12
	x := (w - len(textSwatches)*(sw+2)) / 2
	for _, s := range textSwatches {
		var st cellbuf.Style
		st.Foreground(mustHex(s.fg)).Background(mustHex(s.bg))
		pad := (sw - len(s.label)) / 2
		cell := spaces(pad) + s.label + spaces(sw-pad-len(s.label))
		p.putString(buf, x, y, spaces(sw), st)
		p.putString(buf, x, y+1, cell, st)
		p.putString(buf, x, y+2, spaces(sw), st)
		x += sw + 2
	}
	return p.render(buf)
}

// TextSample returns the heading and sample lines of the readability page
// without styling, for renderers that draw their own glyphs.
func TextSample() []string {
	out := []string{textHeading}
	for _, s := range textSamples {
		out = append(out, s.label+" - "+s.text)
	}
	return out
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
