package main

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/cursork/pixelperfect/navigator"
	"github.com/cursork/pixelperfect/paint"
	"github.com/cursork/pixelperfect/session"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	engaged    bool
	requestErr error
	requests   int
	releases   int
	subs       []func(bool)
}

func (d *fakeDisplay) Request(context.Context) error {
	d.requests++
	if d.requestErr != nil {
		return d.requestErr
	}
	d.set(true)
	return nil
}

func (d *fakeDisplay) Release(context.Context) error {
	d.releases++
	d.set(false)
	return nil
}

func (d *fakeDisplay) Engaged() bool { return d.engaged }

func (d *fakeDisplay) Subscribe(fn func(bool)) func() {
	d.subs = append(d.subs, fn)
	return func() {}
}

func (d *fakeDisplay) Observe(tea.Msg) tea.Cmd { return nil }

func (d *fakeDisplay) set(engaged bool) {
	d.engaged = engaged
	for _, fn := range d.subs {
		fn(engaged)
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("PIXELPERFECT_CONFIG", "")
	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	require.Empty(t, path)
	return cfg
}

func newTestModel(t *testing.T, cfg Config) (Model, *fakeDisplay) {
	t.Helper()
	painter := paint.New(colorprofile.TrueColor, true)
	cat, err := buildCatalog(cfg.Catalog, painter.Registry())
	require.NoError(t, err)
	log, ring, _, err := newLogger("", slog.LevelDebug)
	require.NoError(t, err)
	d := &fakeDisplay{}
	m := NewModel(cfg, cat, painter, d, log, ring)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, d
}

// update runs one message through the model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = update(t, m, msg)
	}
	return m
}

// transition runs a fullscreen transition command and feeds its outcome
// back into the model.
func transition(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	out, ok := msg.(sessionOutcomeMsg)
	require.True(t, ok, "expected a session outcome, got %T", msg)
	return update(t, m, out)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "f12":
		return tea.KeyMsg{Type: tea.KeyF12}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: button}
}

func startSession(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, keyMsg("enter"))
	m, _ = transition(t, m, cmd)
	require.True(t, m.Active())
	return m
}

func TestStartAndExitSession(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	require.False(t, m.Active())

	m = startSession(t, m)
	require.Equal(t, 1, d.requests)
	require.True(t, d.engaged)
	require.True(t, m.ctrl.Active())
	require.Equal(t, "red", m.Runner().Current().ID)
	require.True(t, m.Runner().nav.ControlsVisible())
	require.True(t, m.Runner().nav.InfoVisible())

	m, cmd := update(t, m, keyMsg("esc"))
	require.True(t, m.Active(), "runner stays until fullscreen is released")
	m, _ = transition(t, m, cmd)
	require.False(t, m.Active())
	require.False(t, m.ctrl.Active())
	require.Equal(t, 1, d.releases)
	require.False(t, d.engaged)
}

func TestStartWithoutFullscreen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.Fullscreen = false
	m, d := newTestModel(t, cfg)

	m, _ = update(t, m, keyMsg("enter"))
	require.True(t, m.Active())
	require.Zero(t, d.requests)

	m, cmd := update(t, m, keyMsg("esc"))
	m, _ = transition(t, m, cmd)
	require.False(t, m.Active())
	require.Zero(t, d.releases)
}

func TestStartWhenFullscreenRefused(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	d.requestErr = errors.New("refused")

	m = startSession(t, m)
	require.True(t, m.ctrl.Active(), "a refused request still starts the session")
	require.False(t, d.engaged)

	m, cmd := update(t, m, keyMsg("esc"))
	m, _ = transition(t, m, cmd)
	require.False(t, m.Active())
	require.Zero(t, d.releases, "nothing to release")
}

func TestConfiguredStartPattern(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.Start = "white"
	m, _ := newTestModel(t, cfg)
	m = startSession(t, m)
	require.Equal(t, "white", m.Runner().Current().ID)
}

func TestNavigateWithKeys(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)
	n := m.cat.Len()

	m = send(t, m, keyMsg("right"))
	require.Equal(t, 1, m.Runner().nav.Index())
	m = send(t, m, keyMsg("space"))
	require.Equal(t, 2, m.Runner().nav.Index())
	m = send(t, m, keyMsg("left"), keyMsg("left"), keyMsg("left"))
	require.Equal(t, n-1, m.Runner().nav.Index())
}

func TestInfoKeyToggles(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	m = send(t, m, keyMsg("i"))
	require.False(t, m.Runner().nav.InfoVisible())
	m = send(t, m, keyMsg("i"))
	require.True(t, m.Runner().nav.InfoVisible())
}

func TestHideTimers(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)
	run := m.Runner()
	motion := tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionMotion}

	// Controls wait for the first input before their timer starts
	_, ok := run.nav.Pending(navigator.ControlsTimer)
	require.False(t, ok)
	m = send(t, m, motion)
	tag, ok := run.nav.Pending(navigator.ControlsTimer)
	require.True(t, ok)

	// Another session's timer is ignored
	m = send(t, m, hideTimerMsg{session: "other", timer: navigator.ControlsTimer, tag: tag})
	require.True(t, run.nav.ControlsVisible())

	m = send(t, m, hideTimerMsg{session: run.ID(), timer: navigator.ControlsTimer, tag: tag})
	require.False(t, run.nav.ControlsVisible())
	require.True(t, run.nav.InfoVisible())

	tag, ok = run.nav.Pending(navigator.InfoTimer)
	require.True(t, ok)
	m = send(t, m, hideTimerMsg{session: run.ID(), timer: navigator.InfoTimer, tag: tag})
	require.False(t, run.nav.InfoVisible())

	// Pointer movement brings the controls back
	m = send(t, m, motion)
	require.True(t, run.nav.ControlsVisible())
	require.False(t, run.nav.InfoVisible())
}

func TestStaleTimerAfterSessionEnds(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)
	old := m.Runner()
	m = send(t, m, keyMsg("right"))
	tag, _ := old.nav.Pending(navigator.ControlsTimer)

	m, cmd := update(t, m, keyMsg("esc"))
	m, _ = transition(t, m, cmd)
	m = startSession(t, m)

	m = send(t, m, hideTimerMsg{session: old.ID(), timer: navigator.ControlsTimer, tag: tag})
	require.True(t, m.Runner().nav.ControlsVisible())
}

func TestPatternClicks(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	// Middle of the screen is bare pattern
	require.Equal(t, navigator.TargetPattern, m.Runner().Hit(40, 12, 80, 24))

	m = send(t, m, click(40, 12, tea.MouseButtonLeft))
	require.Equal(t, 1, m.Runner().nav.Index())
	m = send(t, m, click(40, 12, tea.MouseButtonRight), click(40, 12, tea.MouseButtonRight))
	require.Equal(t, m.cat.Len()-1, m.Runner().nav.Index())
}

// find returns the first cell showing target.
func find(t *testing.T, r *Runner, target navigator.Target) (int, int) {
	t.Helper()
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			if r.Hit(x, y, 80, 24) == target {
				return x, y
			}
		}
	}
	t.Fatalf("no cell shows %s", target)
	return 0, 0
}

func TestOverlayButtons(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	m = startSession(t, m)
	run := m.Runner()

	x, y := find(t, run, navigator.TargetNext)
	m = send(t, m, click(x, y, tea.MouseButtonLeft))
	require.Equal(t, 1, run.nav.Index())

	x, y = find(t, run, navigator.TargetPrev)
	m = send(t, m, click(x, y, tea.MouseButtonLeft))
	require.Equal(t, 0, run.nav.Index())

	// Secondary clicks on overlays do nothing
	m = send(t, m, click(x, y, tea.MouseButtonRight))
	require.Equal(t, 0, run.nav.Index())

	x, y = find(t, run, navigator.TargetOverlay)
	m = send(t, m, click(x, y, tea.MouseButtonLeft))
	require.Equal(t, 0, run.nav.Index(), "overlay body is inert")

	x, y = find(t, run, navigator.TargetExit)
	m, cmd := update(t, m, click(x, y, tea.MouseButtonLeft))
	m, _ = transition(t, m, cmd)
	require.False(t, m.Active())
	require.Equal(t, 1, d.releases)
}

func TestHiddenOverlaysAreNotHit(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)
	run := m.Runner()

	x, y := find(t, run, navigator.TargetNext)
	m = send(t, m, tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionMotion})
	tag, _ := run.nav.Pending(navigator.ControlsTimer)
	m = send(t, m, hideTimerMsg{session: run.ID(), timer: navigator.ControlsTimer, tag: tag})
	require.Equal(t, navigator.TargetPattern, run.Hit(x, y, 80, 24))
}

func TestInputIgnoredWhileExiting(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	m, cmd := update(t, m, keyMsg("esc"))
	require.NotNil(t, cmd)
	m, cmd = update(t, m, keyMsg("esc"))
	require.Nil(t, cmd, "exit is requested once")
	m = send(t, m, keyMsg("right"))
	require.Equal(t, 0, m.Runner().nav.Index())
}

func TestExternalFullscreenLoss(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	d.set(false)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	require.False(t, m.Active())
	require.False(t, m.ctrl.Active())
	require.Zero(t, d.releases)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	_, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitDuringSession(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.Runner().nav.Stopped())
	m, cmd = transition(t, m, cmd)
	require.False(t, m.Active())
	require.Equal(t, 1, d.releases)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPickerStartsAtChosenPattern(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))

	m = send(t, m, keyMsg("/"))
	require.NotNil(t, m.picker)
	require.NotNil(t, m.panes.Get("picker"))

	// q is typed into the query, not taken as quit
	m, cmd := update(t, m, keyMsg("q"))
	require.Nil(t, cmd)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	m = send(t, m, keyMsg("g"), keyMsg("r"), keyMsg("i"), keyMsg("d"))
	m, cmd = update(t, m, keyMsg("enter"))
	require.Nil(t, m.panes.Get("picker"))
	m, _ = transition(t, m, cmd)

	want, _ := m.cat.IndexOf("grid")
	require.Equal(t, want, m.Runner().nav.Index())
}

func TestPickerEscapeCloses(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m = send(t, m, keyMsg("/"), keyMsg("esc"))
	require.Nil(t, m.panes.Get("picker"))
	require.Nil(t, m.picker)
	require.False(t, m.Active())
}

func TestDebugPane(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m.log.Info("hello from the test")

	m = send(t, m, keyMsg("f12"))
	require.NotNil(t, m.panes.Get("debug"))
	view := m.View()
	require.Contains(t, view, "debug")
	require.Contains(t, view, "level=INFO")

	m = send(t, m, keyMsg("f12"))
	require.Nil(t, m.panes.Get("debug"))
}

func TestDebugPaneLevelFilter(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	m.log.Info("routine")
	m.log.Warn("careful")

	m = send(t, m, keyMsg("f12"), keyMsg("l"), keyMsg("l"))
	require.Equal(t, slog.LevelWarn, m.debugPane.MinLevel())
	view := m.View()
	require.Contains(t, view, "debug ≥WARN")
	require.Contains(t, view, "careful")
	require.NotContains(t, view, "routine")

	m = send(t, m, keyMsg("l"), keyMsg("l"))
	require.Equal(t, slog.LevelDebug, m.debugPane.MinLevel(), "l wraps around")
	require.Contains(t, m.View(), "routine")
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line string
		want slog.Level
		ok   bool
	}{
		{"time=x level=WARN msg=careful", slog.LevelWarn, true},
		{"level=DEBUG msg=navigator", slog.LevelDebug, true},
		{"level=ERROR+2 msg=boom", slog.LevelError + 2, true},
		{"plain text", 0, false},
		{"level=LOUD msg=x", 0, false},
	}
	for _, tt := range tests {
		lvl, ok := lineLevel(tt.line)
		require.Equal(t, tt.ok, ok, tt.line)
		require.Equal(t, tt.want, lvl, tt.line)
	}
}

func TestViews(t *testing.T) {
	m, _ := newTestModel(t, testConfig(t))
	view := m.View()
	require.Contains(t, view, "START TEST")
	require.Contains(t, view, "TEST SEQUENCE")

	m = startSession(t, m)
	view = m.View()
	require.Contains(t, view, "1 / 13")
	require.Contains(t, view, "Red")
	require.Contains(t, view, "48;2;255;0;0")
}

func TestSessionControllerSharesDisplay(t *testing.T) {
	m, d := newTestModel(t, testConfig(t))
	m = startSession(t, m)

	// A second start while running is ignored
	_, cmd := update(t, m, keyMsg("enter"))
	require.Nil(t, cmd)
	require.Equal(t, 1, d.requests)

	out := m.ctrl.End(context.Background())()
	require.Equal(t, session.Ending, out.Phase)
	require.NoError(t, out.Err)
}
