package main

import (
	"context"
	"errors"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

var (
	errNotTerminal = errors.New("output is not a terminal")
	errNoProgram   = errors.New("display is not attached to a program")
)

// msgSender is the part of *tea.Program the display needs.
type msgSender interface {
	Send(msg tea.Msg)
}

// terminalDisplay implements session.Display with the terminal's alternate
// screen. A job-control suspend counts as leaving fullscreen behind the
// application's back: on resume the display drops back to the main screen
// and tells its subscribers.
type terminalDisplay struct {
	mu       sync.Mutex
	program  msgSender
	terminal func() bool
	engaged  bool
	subs     map[int]func(bool)
	nextSub  int
}

func newTerminalDisplay(out *os.File) *terminalDisplay {
	return &terminalDisplay{
		terminal: func() bool {
			fd := out.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		subs: map[int]func(bool){},
	}
}

// Attach connects the display to the running program.
func (d *terminalDisplay) Attach(p msgSender) {
	d.mu.Lock()
	d.program = p
	d.mu.Unlock()
}

func (d *terminalDisplay) Request(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.terminal() {
		return errNotTerminal
	}
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p == nil {
		return errNoProgram
	}
	p.Send(tea.EnterAltScreen())
	d.set(true)
	return nil
}

func (d *terminalDisplay) Release(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p == nil {
		return errNoProgram
	}
	p.Send(tea.ExitAltScreen())
	d.set(false)
	return nil
}

func (d *terminalDisplay) Engaged() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engaged
}

func (d *terminalDisplay) Subscribe(fn func(bool)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Observe lets the display react to program messages. It is called from
// Update, so it returns the screen switch as a command instead of sending
// it.
func (d *terminalDisplay) Observe(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.ResumeMsg); !ok || !d.Engaged() {
		return nil
	}
	d.set(false)
	return tea.ExitAltScreen
}

func (d *terminalDisplay) set(engaged bool) {
	d.mu.Lock()
	if d.engaged == engaged {
		d.mu.Unlock()
		return
	}
	d.engaged = engaged
	subs := make([]func(bool), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(engaged)
	}
}
