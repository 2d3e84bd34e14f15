package main

import (
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/cursork/pixelperfect/paint"
)

// HitZone represents where a mouse click landed on a pane
type HitZone int

const (
	ZoneNone HitZone = iota
	ZoneTitleBar
	ZoneBorder
	ZoneContent
)

// PaneContent defines what a pane can display
type PaneContent interface {
	// Render returns the content string to display within pane borders
	// w, h are the content area dimensions (inside borders)
	Render(w, h int) string

	// HandleKey processes keyboard input when this pane has focus
	// Returns true if the key was consumed
	HandleKey(msg tea.KeyMsg) bool

	// HandleMouse processes mouse input within this pane's bounds
	// x, y are relative to the pane's content area
	HandleMouse(x, y int, msg tea.MouseMsg) bool

	// Title returns the pane's title
	Title() string
}

// Pane is a floating window over the dashboard
type Pane struct {
	ID      string
	X, Y    int // Top-left position
	Width   int // Including borders
	Height  int
	Focused bool
	Content PaneContent

	dragging    bool
	dragOffsetX int
	dragOffsetY int
}

// NewPane creates a new pane
func NewPane(id string, content PaneContent, x, y, w, h int) *Pane {
	return &Pane{
		ID:      id,
		X:       x,
		Y:       y,
		Width:   max(w, 10),
		Height:  max(h, 3),
		Content: content,
	}
}

// HitZone determines where a point falls within the pane
func (p *Pane) HitZone(x, y int) HitZone {
	if x < p.X || x >= p.X+p.Width || y < p.Y || y >= p.Y+p.Height {
		return ZoneNone
	}
	relX, relY := x-p.X, y-p.Y
	switch {
	case relY == 0:
		return ZoneTitleBar
	case relY == p.Height-1 || relX == 0 || relX == p.Width-1:
		return ZoneBorder
	}
	return ZoneContent
}

// StartDrag begins moving the pane with the mouse
func (p *Pane) StartDrag(mouseX, mouseY int) {
	p.dragging = true
	p.dragOffsetX = mouseX - p.X
	p.dragOffsetY = mouseY - p.Y
}

// UpdateDrag moves the pane, keeping its title bar on screen
func (p *Pane) UpdateDrag(mouseX, mouseY, screenW, screenH int) {
	if !p.dragging {
		return
	}
	p.X = clamp(mouseX-p.dragOffsetX, -p.Width+5, screenW-5)
	p.Y = clamp(mouseY-p.dragOffsetY, 0, screenH-1)
}

// StopDrag ends the current drag operation
func (p *Pane) StopDrag() {
	p.dragging = false
}

// Render draws the pane frame around its content. The focused pane gets a
// double accent-colored frame.
func (p *Pane) Render(focus, idle color.Color) string {
	frame, fg := lipgloss.NormalBorder(), idle
	if p.Focused {
		frame, fg = lipgloss.DoubleBorder(), focus
	}
	edge := lipgloss.NewStyle().Foreground(fg)

	contentW := max(p.Width-2, 1)
	contentH := max(p.Height-2, 1)

	var body []string
	title := ""
	if p.Content != nil {
		body = strings.Split(p.Content.Render(contentW, contentH), "\n")
		title = ansi.Truncate(p.Content.Title(), max(contentW-2, 0), "")
	}
	fill := max(contentW-ansi.StringWidth(title)-2, 0)

	lines := make([]string, 0, contentH+2)
	lines = append(lines, edge.Render(frame.TopLeft)+" "+
		lipgloss.NewStyle().Bold(true).Render(title)+" "+
		edge.Render(strings.Repeat(frame.Top, fill)+frame.TopRight))
	for i := range contentH {
		line := ""
		if i < len(body) {
			line = ansi.Truncate(body[i], contentW, "")
		}
		line += strings.Repeat(" ", max(contentW-ansi.StringWidth(line), 0))
		lines = append(lines, edge.Render(frame.Left)+line+edge.Render(frame.Right))
	}
	lines = append(lines, edge.Render(frame.BottomLeft+strings.Repeat(frame.Bottom, contentW)+frame.BottomRight))

	return strings.Join(lines, "\n")
}

// PaneManager tracks all floating panes
type PaneManager struct {
	panes     map[string]*Pane
	zOrder    []string // Ordered by z-index, last = topmost
	focusedID string
	screenW   int
	screenH   int
	painter   *paint.Painter
}

// NewPaneManager creates a new pane manager
func NewPaneManager(screenW, screenH int, painter *paint.Painter) *PaneManager {
	return &PaneManager{
		panes:   make(map[string]*Pane),
		screenW: screenW,
		screenH: screenH,
		painter: painter,
	}
}

// Add adds a pane to the manager
func (pm *PaneManager) Add(pane *Pane) {
	pm.panes[pane.ID] = pane
	pm.zOrder = append(pm.zOrder, pane.ID)
}

// Remove removes a pane from the manager
func (pm *PaneManager) Remove(id string) {
	delete(pm.panes, id)
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			break
		}
	}
	if pm.focusedID == id {
		pm.focusedID = ""
		if n := len(pm.zOrder); n > 0 {
			pm.Focus(pm.zOrder[n-1])
		}
	}
}

// Get returns a pane by ID
func (pm *PaneManager) Get(id string) *Pane {
	return pm.panes[id]
}

// Focus focuses a pane and raises it to the top
func (pm *PaneManager) Focus(id string) {
	if p := pm.panes[pm.focusedID]; p != nil {
		p.Focused = false
	}
	pm.focusedID = id
	if p := pm.panes[id]; p != nil {
		p.Focused = true
		pm.raise(id)
	}
}

func (pm *PaneManager) raise(id string) {
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			pm.zOrder = append(pm.zOrder, id)
			break
		}
	}
}

// FocusedPane returns the currently focused pane
func (pm *PaneManager) FocusedPane() *Pane {
	return pm.panes[pm.focusedID]
}

// Dragging returns the pane being dragged, if any
func (pm *PaneManager) Dragging() *Pane {
	for _, p := range pm.panes {
		if p.dragging {
			return p
		}
	}
	return nil
}

// PaneAt returns the topmost pane at the given coordinates
func (pm *PaneManager) PaneAt(x, y int) *Pane {
	for i := len(pm.zOrder) - 1; i >= 0; i-- {
		pane := pm.panes[pm.zOrder[i]]
		if pane != nil && pane.HitZone(x, y) != ZoneNone {
			return pane
		}
	}
	return nil
}

// UpdateSize updates the screen dimensions
func (pm *PaneManager) UpdateSize(w, h int) {
	pm.screenW = w
	pm.screenH = h
	for _, pane := range pm.panes {
		if pane.X > w-5 {
			pane.X = w - 5
		}
		if pane.Y >= h {
			pane.Y = h - 1
		}
	}
}

// HasPanes returns true if there are any panes
func (pm *PaneManager) HasPanes() bool {
	return len(pm.zOrder) > 0
}

// Render composites all panes over the base content
func (pm *PaneManager) Render(base string) string {
	if len(pm.zOrder) == 0 {
		return base
	}

	focus, idle := pm.painter.Hex(accentHex), pm.painter.Hex(borderHex)
	canvas := lipgloss.NewCanvas(
		lipgloss.NewLayer(base).Width(pm.screenW).Height(pm.screenH),
	)
	for i, id := range pm.zOrder {
		pane := pm.panes[id]
		if pane == nil {
			continue
		}
		x, y := max(pane.X, 0), max(pane.Y, 0)
		canvas.AddLayers(lipgloss.NewLayer(pane.Render(focus, idle)).ID(id).X(x).Y(y).Z(i + 1))
	}
	return strings.ReplaceAll(canvas.Render(), "\r\n", "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
