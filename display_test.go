package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cursork/pixelperfect/session"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) { s.msgs = append(s.msgs, msg) }

func newTestDisplay(tty bool) (*terminalDisplay, *recordingSender, *[]bool) {
	d := &terminalDisplay{
		terminal: func() bool { return tty },
		subs:     map[int]func(bool){},
	}
	sender := &recordingSender{}
	d.Attach(sender)
	var changes []bool
	d.Subscribe(func(engaged bool) { changes = append(changes, engaged) })
	return d, sender, &changes
}

func TestDisplayRequestRelease(t *testing.T) {
	d, sender, changes := newTestDisplay(true)
	ctx := context.Background()

	require.NoError(t, d.Request(ctx))
	require.True(t, d.Engaged())
	require.NoError(t, d.Release(ctx))
	require.False(t, d.Engaged())

	require.Equal(t, []tea.Msg{tea.EnterAltScreen(), tea.ExitAltScreen()}, sender.msgs)
	require.Equal(t, []bool{true, false}, *changes)
}

func TestDisplayNotTerminal(t *testing.T) {
	d, sender, changes := newTestDisplay(false)

	require.ErrorIs(t, d.Request(context.Background()), errNotTerminal)
	require.False(t, d.Engaged())
	require.Empty(t, sender.msgs)
	require.Empty(t, *changes)
}

func TestDisplayWithoutProgram(t *testing.T) {
	d := newTerminalDisplay(nil)
	d.terminal = func() bool { return true }

	require.ErrorIs(t, d.Request(context.Background()), errNoProgram)
	require.ErrorIs(t, d.Release(context.Background()), errNoProgram)
	require.False(t, d.Engaged())
}

func TestDisplayCancelledContext(t *testing.T) {
	d, sender, _ := newTestDisplay(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, d.Request(ctx), context.Canceled)
	require.Empty(t, sender.msgs)
}

func TestDisplayResumeDropsFullscreen(t *testing.T) {
	d, sender, changes := newTestDisplay(true)
	ctrl := session.NewController(d, nil)
	defer ctrl.Close()

	ctrl.Complete(ctrl.Start(context.Background())())
	require.True(t, ctrl.Active())
	require.True(t, d.Engaged())

	require.Nil(t, d.Observe(tea.KeyMsg{Type: tea.KeyRight}), "other messages pass")

	cmd := d.Observe(tea.ResumeMsg{})
	require.NotNil(t, cmd)
	require.Equal(t, tea.ExitAltScreen(), cmd())
	require.False(t, d.Engaged())
	require.Equal(t, []bool{true, false}, *changes)
	require.False(t, ctrl.Active(), "external loss ends the session")
	require.Len(t, sender.msgs, 1, "the screen switch goes back as a command")

	require.Nil(t, d.Observe(tea.ResumeMsg{}), "nothing to drop when not engaged")
}

func TestResumeEndsRunningTest(t *testing.T) {
	cfg := testConfig(t)
	m, _ := newTestModel(t, cfg)
	d, _, _ := newTestDisplay(true)
	m = NewModel(cfg, m.cat, m.painter, d, m.log, m.ring)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = startSession(t, m)
	require.True(t, d.Engaged())

	m, cmd := update(t, m, tea.ResumeMsg{})
	require.False(t, m.Active())
	require.NotNil(t, cmd)
	require.Equal(t, tea.ExitAltScreen(), cmd())
}
