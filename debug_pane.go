package main

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Levels the debug pane cycles through with l.
var debugLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// DebugPane shows the log ring in a viewport, filtered by a minimum level.
type DebugPane struct {
	viewport viewport.Model
	ring     *logRing
	minLevel int // index into debugLevels
	shown    int // lines shown last render, for auto-scroll
}

// NewDebugPane creates a debug pane backed by the given log ring
func NewDebugPane(ring *logRing) *DebugPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &DebugPane{
		viewport: vp,
		ring:     ring,
	}
}

func (d *DebugPane) Title() string {
	if d.minLevel == 0 {
		return "debug"
	}
	return "debug ≥" + debugLevels[d.minLevel].String()
}

// MinLevel is the lowest level shown.
func (d *DebugPane) MinLevel() slog.Level { return debugLevels[d.minLevel] }

func (d *DebugPane) Render(w, h int) string {
	d.viewport.Width = w
	d.viewport.Height = h

	lines := d.visible()
	d.viewport.SetContent(strings.Join(lines, "\n"))
	if len(lines) != d.shown {
		d.viewport.GotoBottom()
		d.shown = len(lines)
	}
	return d.viewport.View()
}

// visible returns the ring lines at or above the minimum level. Lines
// without a level attribute are always kept.
func (d *DebugPane) visible() []string {
	lines := d.ring.Lines()
	if d.minLevel == 0 {
		return lines
	}
	floor := debugLevels[d.minLevel]
	out := lines[:0:0]
	for _, line := range lines {
		if lvl, ok := lineLevel(line); !ok || lvl >= floor {
			out = append(out, line)
		}
	}
	return out
}

// lineLevel reads the level=... attribute of a slog text record.
func lineLevel(line string) (slog.Level, bool) {
	_, rest, ok := strings.Cut(line, "level=")
	if !ok {
		return 0, false
	}
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rest = rest[:i]
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(rest)); err != nil {
		return 0, false
	}
	return lvl, true
}

func (d *DebugPane) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyRunes && string(msg.Runes) == "l" {
		d.minLevel = (d.minLevel + 1) % len(debugLevels)
		d.shown = -1
		return true
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd != nil
}

func (d *DebugPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd != nil
}
