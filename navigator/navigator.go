// Package navigator implements the pattern navigation state machine of a
// test session: the current pattern index, the two auto-hiding overlays
// (controls and info), and the mapping from input events to transitions.
//
// The navigator never sleeps and never starts goroutines. Operations that
// need a timer return Effect values describing what to schedule or cancel;
// the caller runs the timers and reports back through Fire. Each timer
// category has a single slot: scheduling a new timer supersedes the pending
// one, and Fire ignores any tag that is no longer pending.
package navigator

import (
	"errors"
	"time"
)

// Direction selects the neighbour Advance moves to.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

func (d Direction) delta() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Timer identifies a timer category.
type Timer int

const (
	ControlsTimer Timer = iota
	InfoTimer
	numTimers
)

func (t Timer) String() string {
	switch t {
	case ControlsTimer:
		return "controls"
	case InfoTimer:
		return "info"
	}
	return "unknown"
}

// Op is what an Effect asks the caller to do.
type Op int

const (
	Schedule Op = iota
	Cancel
)

func (o Op) String() string {
	if o == Cancel {
		return "cancel"
	}
	return "schedule"
}

// Effect describes timer work produced by a transition. For Schedule, the
// caller must call Fire(Timer, Tag) once Delay has elapsed. For Cancel, the
// timer with Tag will be ignored by Fire whether or not the caller stops it.
type Effect struct {
	Op    Op
	Timer Timer
	Delay time.Duration
	Tag   uint64
}

// Config holds the hide delays.
type Config struct {
	ControlsHideDelay time.Duration
	InfoHideDelay     time.Duration
}

// DefaultConfig returns the stock delays: controls hide after 2s of
// inactivity, info hides 3s after the pattern changes.
func DefaultConfig() Config {
	return Config{
		ControlsHideDelay: 2 * time.Second,
		InfoHideDelay:     3 * time.Second,
	}
}

var (
	ErrNoPatterns = errors.New("navigator needs at least one pattern")
	ErrBadDelay   = errors.New("hide delay must be positive")
)

// Navigator is the per-session navigation state. The zero value is not
// usable; create one with New.
type Navigator struct {
	cfg   Config
	n     int
	index int

	controlsVisible bool
	infoVisible     bool

	pending [numTimers]uint64 // 0 means no timer pending
	nextTag uint64

	exited  bool
	stopped bool
}

// New creates a navigator over n patterns starting at index start. start is
// reduced modulo n so any integer is accepted. Both overlays start visible.
func New(n, start int, cfg Config) (*Navigator, error) {
	if n < 1 {
		return nil, ErrNoPatterns
	}
	if cfg.ControlsHideDelay <= 0 || cfg.InfoHideDelay <= 0 {
		return nil, ErrBadDelay
	}
	return &Navigator{
		cfg:             cfg,
		n:               n,
		index:           wrap(start, n),
		controlsVisible: true,
		infoVisible:     true,
	}, nil
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Index returns the current pattern index, always in [0, Len()).
func (nv *Navigator) Index() int { return nv.index }

// Len returns the number of patterns being navigated.
func (nv *Navigator) Len() int { return nv.n }

// ControlsVisible reports whether the controls overlay is shown.
func (nv *Navigator) ControlsVisible() bool { return nv.controlsVisible }

// InfoVisible reports whether the info overlay is shown.
func (nv *Navigator) InfoVisible() bool { return nv.infoVisible }

// Pending returns the tag of the pending timer in category t.
func (nv *Navigator) Pending(t Timer) (tag uint64, ok bool) {
	tag = nv.pending[t]
	return tag, tag != 0
}

// Stopped reports whether Stop has been called.
func (nv *Navigator) Stopped() bool { return nv.stopped }

// Mount returns the effects for the moment the session view appears. Both
// overlays are shown. Only the info timer is armed: the controls stay up
// until the first input starts their inactivity timer.
func (nv *Navigator) Mount() []Effect {
	if nv.stopped {
		return nil
	}
	nv.controlsVisible = true
	return nv.showInfo()
}

// Advance moves one pattern in direction d, wrapping at both ends. When the
// index changes the info overlay is forced visible and its timer re-armed.
func (nv *Navigator) Advance(d Direction) []Effect {
	if nv.stopped {
		return nil
	}
	prev := nv.index
	nv.index = wrap(nv.index+d.delta(), nv.n)
	if nv.index == prev {
		return nil
	}
	return nv.showInfo()
}

// NoteActivity shows the controls and re-arms their hide timer.
func (nv *Navigator) NoteActivity() []Effect {
	if nv.stopped {
		return nil
	}
	nv.controlsVisible = true
	return nv.rearm(ControlsTimer, nv.cfg.ControlsHideDelay)
}

// ToggleInfo flips info visibility. It leaves every timer alone; a pending
// info timer may still hide the overlay later.
func (nv *Navigator) ToggleInfo() {
	if nv.stopped {
		return
	}
	nv.infoVisible = !nv.infoVisible
}

// Fire is the timer callback. It reports whether the state changed, which is
// only the case when tag is the pending timer of category t.
func (nv *Navigator) Fire(t Timer, tag uint64) bool {
	if nv.stopped || t < 0 || t >= numTimers || tag == 0 || nv.pending[t] != tag {
		return false
	}
	nv.pending[t] = 0
	switch t {
	case ControlsTimer:
		nv.controlsVisible = false
	case InfoTimer:
		nv.infoVisible = false
	}
	return true
}

// Stop tears the navigator down. Every pending timer is cancelled and all
// later operations are no-ops.
func (nv *Navigator) Stop() []Effect {
	if nv.stopped {
		return nil
	}
	var effects []Effect
	for t := Timer(0); t < numTimers; t++ {
		if e, ok := nv.cancel(t); ok {
			effects = append(effects, e)
		}
	}
	nv.stopped = true
	return effects
}

func (nv *Navigator) showInfo() []Effect {
	nv.infoVisible = true
	return nv.rearm(InfoTimer, nv.cfg.InfoHideDelay)
}

func (nv *Navigator) rearm(t Timer, delay time.Duration) []Effect {
	var effects []Effect
	if e, ok := nv.cancel(t); ok {
		effects = append(effects, e)
	}
	nv.nextTag++
	nv.pending[t] = nv.nextTag
	return append(effects, Effect{Op: Schedule, Timer: t, Delay: delay, Tag: nv.nextTag})
}

func (nv *Navigator) cancel(t Timer) (Effect, bool) {
	tag := nv.pending[t]
	if tag == 0 {
		return Effect{}, false
	}
	nv.pending[t] = 0
	return Effect{Op: Cancel, Timer: t, Tag: tag}, true
}
