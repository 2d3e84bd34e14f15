package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/navigator"
	"github.com/cursork/pixelperfect/paint"
	"github.com/google/uuid"
)

// Layer IDs of the test view
const (
	layerPattern  = "pattern"
	layerInfo     = "info"
	layerInfoExit = "info-exit"
	layerCounter  = "counter"
	layerButtons  = "buttons"
	layerPrev     = "prev"
	layerExit     = "exit"
	layerNext     = "next"
)

var layerTargets = map[string]navigator.Target{
	layerPattern:  navigator.TargetPattern,
	layerInfo:     navigator.TargetOverlay,
	layerInfoExit: navigator.TargetExit,
	layerCounter:  navigator.TargetOverlay,
	layerButtons:  navigator.TargetOverlay,
	layerPrev:     navigator.TargetPrev,
	layerExit:     navigator.TargetExit,
	layerNext:     navigator.TargetNext,
}

// hideTimerMsg is delivered when an overlay hide timer elapses.
type hideTimerMsg struct {
	session string
	timer   navigator.Timer
	tag     uint64
}

// Runner is one running test session: the navigator plus everything needed
// to draw it.
type Runner struct {
	id      string
	cat     *catalog.Catalog
	nav     *navigator.Navigator
	painter *paint.Painter
	keys    KeyMap
	help    help.Model

	cache patternCache
}

type patternCache struct {
	index, w, h int
	out         string
	ok          bool
}

// NewRunner creates a runner positioned at start. The mount effects must be
// scheduled by the caller.
func NewRunner(cat *catalog.Catalog, painter *paint.Painter, keys KeyMap, start int, cfg navigator.Config) (*Runner, []navigator.Effect, error) {
	nav, err := navigator.New(cat.Len(), start, cfg)
	if err != nil {
		return nil, nil, err
	}
	r := &Runner{
		id:      uuid.NewString(),
		cat:     cat,
		nav:     nav,
		painter: painter,
		keys:    keys,
		help:    help.New(),
	}
	return r, nav.Mount(), nil
}

// ID identifies the session the runner belongs to.
func (r *Runner) ID() string { return r.id }

// Current returns the pattern on screen.
func (r *Runner) Current() catalog.Descriptor {
	return r.cat.At(r.nav.Index())
}

// Schedule turns navigator effects into timer commands. Cancels need no
// command: a cancelled timer's tag is stale by the time it fires.
func (r *Runner) Schedule(effects []navigator.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		if e.Op != navigator.Schedule {
			continue
		}
		msg := hideTimerMsg{session: r.id, timer: e.Timer, tag: e.Tag}
		cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg { return msg }))
	}
	return tea.Batch(cmds...)
}

// Fire applies a timer message. Messages from other sessions are dropped.
func (r *Runner) Fire(msg hideTimerMsg) bool {
	if msg.session != r.id {
		return false
	}
	return r.nav.Fire(msg.timer, msg.tag)
}

// KeyInput maps a key to a navigator input.
func (r *Runner) KeyInput(msg tea.KeyMsg) navigator.Input {
	switch {
	case key.Matches(msg, r.keys.Next):
		return navigator.InputNext
	case key.Matches(msg, r.keys.Prev):
		return navigator.InputPrev
	case key.Matches(msg, r.keys.Exit):
		return navigator.InputExit
	case key.Matches(msg, r.keys.Info):
		return navigator.InputInfo
	}
	return navigator.InputNone
}

// MouseEvent maps a mouse message to a navigator event. Wheel and release
// events have no meaning in the test view.
func (r *Runner) MouseEvent(msg tea.MouseMsg, w, h int) (navigator.Event, bool) {
	switch {
	case msg.Action == tea.MouseActionMotion:
		return navigator.Event{Input: navigator.InputPointerMove}, true
	case msg.Action != tea.MouseActionPress:
		return navigator.Event{}, false
	case msg.Button == tea.MouseButtonLeft:
		return navigator.Event{Input: navigator.InputPointerPrimary, Target: r.Hit(msg.X, msg.Y, w, h)}, true
	case msg.Button == tea.MouseButtonRight:
		return navigator.Event{Input: navigator.InputPointerSecondary, Target: r.Hit(msg.X, msg.Y, w, h)}, true
	}
	return navigator.Event{}, false
}

// Hit returns what is drawn at x, y.
func (r *Runner) Hit(x, y, w, h int) navigator.Target {
	l := r.canvas("", w, h).Hit(x, y)
	if l == nil {
		return navigator.TargetPattern
	}
	if t, ok := layerTargets[l.GetID()]; ok {
		return t
	}
	return navigator.TargetOverlay
}

// View renders the pattern with whatever overlays are visible.
func (r *Runner) View(w, h int) string {
	return strings.ReplaceAll(r.canvas(r.pattern(w, h), w, h).Render(), "\r\n", "\n")
}

func (r *Runner) pattern(w, h int) string {
	i := r.nav.Index()
	if !r.cache.ok || r.cache.index != i || r.cache.w != w || r.cache.h != h {
		r.cache = patternCache{index: i, w: w, h: h, out: r.painter.Pattern(r.cat.At(i), w, h), ok: true}
	}
	return r.cache.out
}

func (r *Runner) canvas(pattern string, w, h int) *lipgloss.Canvas {
	c := lipgloss.NewCanvas(lipgloss.NewLayer(pattern).ID(layerPattern).Width(w).Height(h))
	if r.nav.InfoVisible() {
		c.AddLayers(r.infoLayer(w, h))
	}
	if r.nav.ControlsVisible() {
		c.AddLayers(r.controlLayers(w, h)...)
	}
	return c
}

func (r *Runner) overlayStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(r.painter.Hex(overlayHex)).
		Foreground(r.painter.Hex("#FFFFFF"))
}

func (r *Runner) button(label string, danger bool) string {
	bg := buttonHex
	if danger {
		bg = dangerHex
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Background(r.painter.Hex(bg)).
		Foreground(r.painter.Hex("#FFFFFF")).
		Render(label)
}

func (r *Runner) infoLayer(w, h int) *lipgloss.Layer {
	d := r.Current()
	maxW := max(w-8, 10)

	r.help.Width = maxW
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(d.Name, maxW, "…")),
		lipgloss.NewStyle().Foreground(r.painter.Hex(mutedHex)).Render(ansi.Truncate(d.Description, maxW, "…")),
		r.help.ShortHelpView(sessionKeys(r.keys).ShortHelp()),
	}
	exitBtn := r.button("✕ exit", false)
	innerW := lipgloss.Width(exitBtn)
	for _, l := range lines {
		innerW = max(innerW, lipgloss.Width(l))
	}
	lines = append(lines, exitBtn)

	panel := r.overlayStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.painter.Hex(borderHex)).
		BorderBackground(r.painter.Hex(overlayHex)).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))

	x := max((w-lipgloss.Width(panel))/2, 0)
	y := min(h/6, max(h-lipgloss.Height(panel), 0))
	btnX := 1 + 2 + (innerW-lipgloss.Width(exitBtn))/2
	return lipgloss.NewLayer(panel).ID(layerInfo).X(x).Y(y).Z(1).AddLayers(
		lipgloss.NewLayer(exitBtn).ID(layerInfoExit).X(btnX).Y(1 + 3).Z(2),
	)
}

func (r *Runner) controlLayers(w, h int) []*lipgloss.Layer {
	y := max(h-2, 0)
	if h < 3 {
		y = max(h-1, 0)
	}

	counter := r.overlayStyle().Padding(0, 1).
		Render(fmt.Sprintf("%d / %d", r.nav.Index()+1, r.nav.Len()))

	prev := r.button("< prev", false)
	exit := r.button("exit", true)
	next := r.button("next >", false)
	gap := r.overlayStyle().Render(" ")
	bar := gap + prev + gap + exit + gap + next + gap

	barX := max(w-lipgloss.Width(bar)-2, 0)
	prevX := 1
	exitX := prevX + lipgloss.Width(prev) + 1
	nextX := exitX + lipgloss.Width(exit) + 1

	return []*lipgloss.Layer{
		lipgloss.NewLayer(counter).ID(layerCounter).X(min(2, w-1)).Y(y).Z(3),
		lipgloss.NewLayer(bar).ID(layerButtons).X(barX).Y(y).Z(3).AddLayers(
			lipgloss.NewLayer(prev).ID(layerPrev).X(prevX).Z(4),
			lipgloss.NewLayer(exit).ID(layerExit).X(exitX).Z(4),
			lipgloss.NewLayer(next).ID(layerNext).X(nextX).Z(4),
		),
	}
}
