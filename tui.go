package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/navigator"
	"github.com/cursork/pixelperfect/paint"
	"github.com/cursork/pixelperfect/session"
	zone "github.com/lrstanley/bubblezone"
)

// Display is a session.Display that also sees program messages.
type Display interface {
	session.Display
	Observe(msg tea.Msg) tea.Cmd
}

// sessionOutcomeMsg carries the result of a fullscreen transition.
type sessionOutcomeMsg struct {
	out session.Outcome
}

// Model holds all state for the TUI.
type Model struct {
	cfg  Config
	keys KeyMap
	help help.Model
	log  *slog.Logger
	ring *logRing

	cat     *catalog.Catalog
	painter *paint.Painter
	display Display
	ctrl    *session.Controller

	dashboard *Dashboard
	zones     *zone.Manager

	// Floating panes
	panes     *PaneManager
	debugPane *DebugPane
	picker    *PatternPicker

	// Running test, nil on the dashboard
	run *Runner
	// Index the next session starts at, -1 when no start is in flight
	pending int
	// Quit once the session in progress has ended
	quitting bool

	// Terminal dimensions
	width  int
	height int
}

// NewModel creates the model. ring may be nil, in which case the debug pane
// is unavailable.
func NewModel(cfg Config, cat *catalog.Catalog, painter *paint.Painter, display Display, log *slog.Logger, ring *logRing) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	zones := zone.New()
	return Model{
		cfg:       cfg,
		keys:      cfg.ToKeyMap(),
		help:      help.New(),
		log:       log,
		ring:      ring,
		cat:       cat,
		painter:   painter,
		display:   display,
		ctrl:      session.NewController(display, log),
		dashboard: NewDashboard(cat, painter, zones),
		zones:     zones,
		panes:     NewPaneManager(80, 24, painter), // Will be updated on WindowSizeMsg
		pending:   -1,
	}
}

func (m Model) Init() tea.Cmd {
	m.log.Info("ready", "patterns", m.cat.Len(), "profile", m.painter.Profile().String())
	return nil
}

// Active reports whether a test is running.
func (m Model) Active() bool { return m.run != nil }

// Runner returns the running test, nil on the dashboard.
func (m Model) Runner() *Runner { return m.run }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	observed := m.display.Observe(msg)

	var cmd tea.Cmd
	m, cmd = m.update(msg)

	// Fullscreen can be lost without the session asking for it.
	if m.run != nil && m.pending < 0 && !m.ctrl.Active() {
		if !m.run.nav.Exited() && !m.quitting {
			m.log.Info("fullscreen lost", "session", m.run.ID())
		}
		m.teardown()
		if m.quitting {
			cmd = tea.Batch(cmd, tea.Quit)
		}
	}
	return m, tea.Batch(observed, cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panes.UpdateSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case sessionOutcomeMsg:
		return m.handleOutcome(msg.out)

	case hideTimerMsg:
		if m.run != nil && m.run.Fire(msg) {
			m.log.Debug("overlay hidden", "timer", msg.timer.String())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Typing into the picker query
	if fp := m.panes.FocusedPane(); m.run == nil && fp != nil && fp.ID == "picker" &&
		(msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
		fp.Content.HandleKey(msg)
		return m, nil
	}

	// Global shortcuts (always work regardless of focus)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Suspend):
		return m, tea.Suspend
	}

	if m.run != nil {
		return m.handleRunnerEvent(navigator.Event{Input: m.run.KeyInput(msg)})
	}

	switch {
	case key.Matches(msg, m.keys.Debug):
		m.toggleDebugPane()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Route to focused pane first
	if fp := m.panes.FocusedPane(); fp != nil && fp.Content != nil {
		if key.Matches(msg, m.keys.Exit) {
			m.closePane(fp.ID)
			return m, nil
		}
		if fp.Content.HandleKey(msg) {
			return m.pickerChosen()
		}
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		return m.start(m.startIndex())

	case key.Matches(msg, m.keys.Picker):
		m.openPicker()
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.run != nil {
		ev, ok := m.run.MouseEvent(msg, m.width, m.height)
		if !ok {
			return m, nil
		}
		return m.handleRunnerEvent(ev)
	}

	// Check if any pane is being dragged
	if pane := m.panes.Dragging(); pane != nil {
		switch msg.Action {
		case tea.MouseActionMotion:
			pane.UpdateDrag(msg.X, msg.Y, m.width, m.height)
			return m, nil
		case tea.MouseActionRelease:
			pane.StopDrag()
			return m, nil
		}
	}

	if pane := m.panes.PaneAt(msg.X, msg.Y); pane != nil {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.panes.Focus(pane.ID)
			switch pane.HitZone(msg.X, msg.Y) {
			case ZoneTitleBar:
				pane.StartDrag(msg.X, msg.Y)
				return m, nil
			case ZoneBorder:
				return m, nil
			}
		}
		if pane.Content != nil && pane.HitZone(msg.X, msg.Y) == ZoneContent {
			if pane.Content.HandleMouse(msg.X-pane.X-1, msg.Y-pane.Y-1, msg) {
				return m.pickerChosen()
			}
		}
		return m, nil
	}

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.dashboard.Track(msg)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if i := m.dashboard.Target(msg, m.startIndex()); i >= 0 {
			return m.start(i)
		}
	}
	return m, nil
}

func (m Model) handleRunnerEvent(ev navigator.Event) (Model, tea.Cmd) {
	if ev.Input == navigator.InputNone {
		return m, nil
	}
	res := m.run.nav.Handle(ev)
	cmd := m.run.Schedule(res.Effects)
	if res.Changed {
		m.log.Debug("navigator", "input", ev.Input.String(), "target", ev.Target.String(), "index", m.run.nav.Index())
	}
	if res.Exit {
		return m, tea.Batch(cmd, m.end())
	}
	return m, cmd
}

// startIndex is the configured start pattern, falling back to the first.
func (m Model) startIndex() int {
	if i, ok := m.cat.IndexOf(m.cfg.Session.Start); ok {
		return i
	}
	return 0
}

// start begins a session at index i. Without fullscreen the start
// completes immediately.
func (m Model) start(i int) (Model, tea.Cmd) {
	if m.run != nil || m.pending >= 0 {
		return m, nil
	}
	m.pending = i
	if !m.cfg.Session.Fullscreen {
		return m.handleOutcome(session.Outcome{Phase: session.Starting})
	}
	effect := m.ctrl.Start(context.Background())
	return m, func() tea.Msg { return sessionOutcomeMsg{out: effect()} }
}

// end asks the controller to leave fullscreen. The runner is torn down when
// the outcome arrives.
func (m Model) end() tea.Cmd {
	effect := m.ctrl.End(context.Background())
	return func() tea.Msg { return sessionOutcomeMsg{out: effect()} }
}

func (m Model) handleOutcome(out session.Outcome) (Model, tea.Cmd) {
	m.ctrl.Complete(out)

	switch out.Phase {
	case session.Starting:
		i := m.pending
		m.pending = -1
		if i < 0 {
			return m, nil
		}
		run, effects, err := NewRunner(m.cat, m.painter, m.keys, i, m.cfg.NavigatorConfig())
		if err != nil {
			m.log.Error("starting session", "err", err)
			return m, m.end()
		}
		m.run = run
		m.closeAllPanes()
		m.log.Info("session started", "session", run.ID(), "pattern", run.Current().ID)
		return m, run.Schedule(effects)

	case session.Ending:
		m.teardown()
		if m.quitting {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) teardown() {
	if m.run == nil {
		return
	}
	m.run.nav.Stop()
	m.log.Info("session ended", "session", m.run.ID(), "pattern", m.run.Current().ID)
	m.run = nil
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.run == nil {
		return m, tea.Quit
	}
	if m.quitting {
		return m, nil
	}
	m.quitting = true
	m.run.nav.Stop()
	return m, m.end()
}

func (m *Model) toggleDebugPane() {
	if m.ring == nil {
		return
	}
	if m.panes.Get("debug") != nil {
		m.closePane("debug")
		return
	}

	paneW := min(70, max(m.width-4, 10))
	paneH := max(m.height-4, 10)
	paneX := max(m.width-paneW-2, 0)

	m.debugPane = NewDebugPane(m.ring)
	m.panes.Add(NewPane("debug", m.debugPane, paneX, 1, paneW, paneH))
	m.panes.Focus("debug")
}

func (m *Model) openPicker() {
	if m.panes.Get("picker") != nil {
		m.panes.Focus("picker")
		return
	}
	paneW := min(60, max(m.width-4, 20))
	paneH := min(m.cat.Len()+4, max(m.height-4, 6))
	paneX := max((m.width-paneW)/2, 0)
	paneY := max((m.height-paneH)/3, 0)

	m.picker = NewPatternPicker(m.cat, m.painter)
	m.panes.Add(NewPane("picker", m.picker, paneX, paneY, paneW, paneH))
	m.panes.Focus("picker")
}

// pickerChosen starts a session when the picker has a selection.
func (m Model) pickerChosen() (Model, tea.Cmd) {
	if m.picker == nil || m.picker.Chosen < 0 {
		return m, nil
	}
	i := m.picker.Chosen
	m.closePane("picker")
	return m.start(i)
}

func (m *Model) closePane(id string) {
	m.panes.Remove(id)
	switch id {
	case "debug":
		m.debugPane = nil
	case "picker":
		m.picker = nil
	}
}

func (m *Model) closeAllPanes() {
	for _, id := range []string{"debug", "picker"} {
		if m.panes.Get(id) != nil {
			m.closePane(id)
		}
	}
}

func (m Model) View() string {
	w, h := m.width, m.height
	if w < 20 {
		w = 80
	}
	if h < 5 {
		h = 24
	}

	if m.run != nil {
		return m.run.View(w, h)
	}

	// Reserve space for help line
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = len(m.keys.FullHelp())
	}
	mainH := h - helpHeight

	base := m.dashboard.View(w, mainH)

	// Composite floating panes over the dashboard
	if m.panes.HasPanes() {
		base = m.panes.Render(base)
	}

	m.help.Width = w
	helpView := lipgloss.NewStyle().Foreground(m.painter.Hex(mutedHex)).Render(m.help.View(m.keys))

	return m.zones.Scan(base + "\n" + helpView)
}
