// Package session owns the lifecycle of a fullscreen test session.
//
// A Controller tracks whether a session is active. The platform work of
// engaging and releasing fullscreen is handed back to the caller as a
// deferred function so it can run off the event loop; its Outcome is fed
// back through Complete, which is the only place the active flag changes
// besides an external fullscreen-loss notification.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Display is the platform fullscreen capability.
type Display interface {
	// Request engages fullscreen.
	Request(ctx context.Context) error
	// Release leaves fullscreen.
	Release(ctx context.Context) error
	// Engaged reports whether fullscreen is currently engaged.
	Engaged() bool
	// Subscribe registers fn to be called with the new engaged state
	// whenever it changes, including changes the application did not ask
	// for. The returned func unsubscribes.
	Subscribe(fn func(engaged bool)) (cancel func())
}

var (
	ErrRequestFailed = errors.New("fullscreen request failed")
	ErrExitFailed    = errors.New("fullscreen exit failed")
)

// Phase says which transition an Outcome completes.
type Phase int

const (
	Starting Phase = iota
	Ending
)

func (p Phase) String() string {
	if p == Ending {
		return "end"
	}
	return "start"
}

// Outcome is the result of running a Start or End effect.
type Outcome struct {
	Phase Phase
	// Err is nil on success, otherwise it wraps ErrRequestFailed or
	// ErrExitFailed.
	Err error
}

// Controller is the session state machine {inactive, active}.
type Controller struct {
	display Display
	log     *slog.Logger

	mu          sync.Mutex
	active      bool
	unsubscribe func()
}

// NewController creates an inactive controller and subscribes to display
// changes for the controller's lifetime.
func NewController(d Display, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{display: d, log: log}
	c.unsubscribe = d.Subscribe(c.displayChanged)
	return c
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Start returns the effect that engages fullscreen. The request is only made
// when the display is not already engaged. The returned func may run on any
// goroutine; pass its result to Complete.
func (c *Controller) Start(ctx context.Context) func() Outcome {
	return func() Outcome {
		out := Outcome{Phase: Starting}
		if c.display.Engaged() {
			return out
		}
		if err := c.display.Request(ctx); err != nil {
			out.Err = fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		return out
	}
}

// End returns the effect that releases fullscreen. The release is only made
// when the display is engaged. A panicking release is reported as an error.
func (c *Controller) End(ctx context.Context) func() Outcome {
	return func() (out Outcome) {
		out.Phase = Ending
		defer func() {
			if r := recover(); r != nil {
				out.Err = fmt.Errorf("%w: panic: %v", ErrExitFailed, r)
			}
		}()
		if !c.display.Engaged() {
			return out
		}
		if err := c.display.Release(ctx); err != nil {
			out.Err = fmt.Errorf("%w: %w", ErrExitFailed, err)
		}
		return out
	}
}

// Complete applies the continuation of a Start or End effect. A start
// always activates the session and an end always deactivates it; failures
// are logged and otherwise ignored.
func (c *Controller) Complete(out Outcome) {
	if out.Err != nil {
		c.log.Warn("fullscreen transition failed", "phase", out.Phase.String(), "err", out.Err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = out.Phase == Starting
	c.log.Debug("session state", "phase", out.Phase.String(), "active", c.active)
}

// Close stops listening to display changes.
func (c *Controller) Close() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (c *Controller) displayChanged(engaged bool) {
	if engaged {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.log.Info("fullscreen lost, ending session")
	}
	c.active = false
}
