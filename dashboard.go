package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/paint"
	zone "github.com/lrstanley/bubblezone"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette
const (
	accentHex  = "#34D399"
	mutedHex   = "#94A3B8"
	dimHex     = "#475569"
	overlayHex = "#111827"
	buttonHex  = "#374151"
	dangerHex  = "#DC2626"
	borderHex  = "#4B5563"
)

var titleStops = []string{"#60A5FA", "#34D399", "#2DD4BF"}

const (
	zoneStart = "start"
	thumbW    = 4
	thumbH    = 2
)

func thumbZone(i int) string {
	return fmt.Sprintf("thumb-%d", i)
}

// Dashboard is the landing screen: title, start button and the sequence of
// patterns a test will step through.
type Dashboard struct {
	cat     *catalog.Catalog
	painter *paint.Painter
	zones   *zone.Manager

	// Hover is the thumbnail under the pointer, -1 for none
	Hover int
}

// NewDashboard creates the dashboard for cat.
func NewDashboard(cat *catalog.Catalog, painter *paint.Painter, zones *zone.Manager) *Dashboard {
	return &Dashboard{cat: cat, painter: painter, zones: zones, Hover: -1}
}

// View renders the dashboard into w×h cells. The result still carries zone
// markers; the caller scans the final frame.
func (d *Dashboard) View(w, h int) string {
	hero := lipgloss.JoinVertical(lipgloss.Center,
		d.title(),
		"",
		lipgloss.NewStyle().Foreground(d.painter.Hex(mutedHex)).Render("Professional Monitor Calibration & Defect Detection"),
		"",
		d.zones.Mark(zoneStart, d.startButton()),
		"",
		d.features(),
	)

	footer := d.footer(w)
	bodyH := max(h-lipgloss.Height(footer), 0)
	body := lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, hero)
	return body + "\n" + footer
}

func (d *Dashboard) title() string {
	const text = "P i x e l P e r f e c t"
	stops := make([]colorful.Color, len(titleStops))
	for i, s := range titleStops {
		stops[i], _ = colorful.Hex(s)
	}

	runes := []rune(text)
	var sb strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(max(len(runes)-1, 1))
		seg := min(int(t*float64(len(stops)-1)), len(stops)-2)
		local := t*float64(len(stops)-1) - float64(seg)
		c := stops[seg].BlendLuv(stops[seg+1], local).Clamped()
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(d.painter.Color(c)).Render(string(r)))
	}
	return sb.String()
}

func (d *Dashboard) startButton() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.painter.Hex(accentHex)).
		Foreground(d.painter.Hex(accentHex)).
		Bold(true).
		Padding(0, 6).
		Render("▶  START TEST")
}

func (d *Dashboard) features() string {
	item := func(icon, label, hex string) string {
		return lipgloss.NewStyle().Foreground(d.painter.Hex(hex)).Render(icon) + " " +
			lipgloss.NewStyle().Foreground(d.painter.Hex(mutedHex)).Render(label)
	}
	gap := "     "
	return item("■", "Dead Pixel Check", "#3B82F6") + gap +
		item("▲", "Backlight Bleed", "#F59E0B") + gap +
		item("●", "Color Accuracy", "#A855F7")
}

func (d *Dashboard) footer(w int) string {
	muted := lipgloss.NewStyle().Foreground(d.painter.Hex(mutedHex))
	dim := lipgloss.NewStyle().Foreground(d.painter.Hex(dimHex))

	rule := dim.Render(strings.Repeat("─", 12))
	heading := rule + muted.Render("  TEST SEQUENCE  ") + rule

	perRow := max((w-2)/(thumbW+1), 1)
	var rows []string
	for start := 0; start < d.cat.Len(); start += perRow {
		var cells []string
		for i := start; i < min(start+perRow, d.cat.Len()); i++ {
			if i > start {
				cells = append(cells, " ")
			}
			cells = append(cells, d.zones.Mark(thumbZone(i), d.painter.Pattern(d.cat.At(i), thumbW, thumbH)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	caption := " "
	if d.Hover >= 0 && d.Hover < d.cat.Len() {
		caption = muted.Render(d.cat.At(d.Hover).Name)
	}

	lines := []string{heading}
	lines = append(lines, rows...)
	lines = append(lines, caption, dim.Render("Press ESC to exit fullscreen"))
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Target returns the catalog index a click should start at: -1 for none,
// the configured start for the start button, or a thumbnail's index.
func (d *Dashboard) Target(msg tea.MouseMsg, start int) int {
	if d.zones.Get(zoneStart).InBounds(msg) {
		return start
	}
	return d.thumbAt(msg)
}

// Track updates Hover from pointer motion.
func (d *Dashboard) Track(msg tea.MouseMsg) bool {
	i := d.thumbAt(msg)
	if i == d.Hover {
		return false
	}
	d.Hover = i
	return true
}

func (d *Dashboard) thumbAt(msg tea.MouseMsg) int {
	for i := 0; i < d.cat.Len(); i++ {
		if d.zones.Get(thumbZone(i)).InBounds(msg) {
			return i
		}
	}
	return -1
}
