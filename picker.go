package main

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/paint"
)

// PatternPicker is a filterable list of catalog patterns
type PatternPicker struct {
	cat          *catalog.Catalog
	painter      *paint.Painter
	filtered     []int // catalog indexes
	query        string
	selected     int
	scrollOffset int // First visible item index

	// Chosen is the catalog index picked with enter or a click, -1 until then
	Chosen int
}

// NewPatternPicker creates a picker over every pattern in cat
func NewPatternPicker(cat *catalog.Catalog, painter *paint.Painter) *PatternPicker {
	p := &PatternPicker{cat: cat, painter: painter, Chosen: -1}
	p.filter()
	return p
}

func (p *PatternPicker) filter() {
	q := strings.ToLower(p.query)
	p.filtered = p.filtered[:0]
	for i, d := range p.cat.All() {
		if q == "" ||
			strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.ID), q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			p.filtered = append(p.filtered, i)
		}
	}

	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
	p.scrollOffset = 0
}

func (p *PatternPicker) Title() string {
	return "Patterns"
}

func (p *PatternPicker) Render(w, h int) string {
	var sb strings.Builder

	promptStyle := lipgloss.NewStyle().Foreground(p.painter.Hex(accentHex))
	cursor := lipgloss.NewStyle().Reverse(true)
	sb.WriteString(promptStyle.Render("/ "))
	sb.WriteString(p.query)
	sb.WriteString(cursor.Render(" "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")

	selectedStyle := lipgloss.NewStyle().Background(p.painter.Hex(accentHex)).Foreground(p.painter.Hex("#000000"))
	kindStyle := lipgloss.NewStyle().Foreground(p.painter.Hex(mutedHex))

	listH := max(h-2, 1)
	p.AdjustScroll(listH)

	nameW := max(w/3, 10)
	visible := 0
	for i := p.scrollOffset; i < len(p.filtered) && visible < listH; i++ {
		d := p.cat.At(p.filtered[i])
		swatch := p.painter.Pattern(d, 2, 1)
		name := padRight(ansi.Truncate(d.Name, nameW, "…"), nameW)
		if i == p.selected {
			name = selectedStyle.Render(name)
		}
		line := swatch + " " + name + " " + kindStyle.Render(d.Kind.String())
		sb.WriteString(ansi.Truncate(line, w, ""))
		visible++
		if visible < listH {
			sb.WriteString("\n")
		}
	}
	if len(p.filtered) == 0 {
		sb.WriteString(kindStyle.Render("no matching pattern"))
	}

	return sb.String()
}

func padRight(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func (p *PatternPicker) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true

	case tea.KeyDown:
		if p.selected < len(p.filtered)-1 {
			p.selected++
		}
		return true

	case tea.KeyEnter:
		if p.selected >= 0 && p.selected < len(p.filtered) {
			p.Chosen = p.filtered[p.selected]
		}
		return true

	case tea.KeyBackspace:
		if _, size := utf8.DecodeLastRuneInString(p.query); size > 0 {
			p.query = p.query[:len(p.query)-size]
			p.filter()
		}
		return true

	case tea.KeyEscape:
		// Let parent handle escape
		return false

	case tea.KeySpace:
		p.query += " "
		p.filter()
		return true

	case tea.KeyRunes:
		p.query += string(msg.Runes)
		p.filter()
		return true
	}

	return false
}

// AdjustScroll ensures selected item is visible given the list height
func (p *PatternPicker) AdjustScroll(listH int) {
	listH = max(listH, 1)
	if p.selected >= p.scrollOffset+listH {
		p.scrollOffset = p.selected - listH + 1
	}
	if p.selected < p.scrollOffset {
		p.scrollOffset = p.selected
	}
}

func (p *PatternPicker) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || y < 2 {
		return false
	}
	idx := p.scrollOffset + y - 2 // query line and separator
	if idx >= 0 && idx < len(p.filtered) {
		p.selected = idx
		p.Chosen = p.filtered[idx]
		return true
	}
	return false
}
