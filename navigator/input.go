package navigator

// Input is a discrete user input already translated from key or mouse
// events by the caller.
type Input int

const (
	InputNone Input = iota
	InputNext
	InputPrev
	InputExit
	InputInfo
	InputPointerPrimary
	InputPointerSecondary
	InputPointerMove
)

var inputNames = [...]string{
	InputNone:             "none",
	InputNext:             "next",
	InputPrev:             "prev",
	InputExit:             "exit",
	InputInfo:             "info",
	InputPointerPrimary:   "pointer-primary",
	InputPointerSecondary: "pointer-secondary",
	InputPointerMove:      "pointer-move",
}

func (i Input) String() string {
	if i >= 0 && int(i) < len(inputNames) {
		return inputNames[i]
	}
	return "unknown"
}

// Target is the view region a pointer event landed on.
type Target int

const (
	TargetPattern Target = iota
	TargetPrev
	TargetNext
	TargetExit
	// TargetOverlay is a non-button part of an overlay: the counter or the
	// body of the info panel. Clicks there do nothing.
	TargetOverlay
)

func (t Target) String() string {
	switch t {
	case TargetPattern:
		return "pattern"
	case TargetPrev:
		return "prev"
	case TargetNext:
		return "next"
	case TargetExit:
		return "exit"
	case TargetOverlay:
		return "overlay"
	}
	return "unknown"
}

// Event is one input. Target only matters for pointer clicks.
type Event struct {
	Input  Input
	Target Target
}

// Result is the outcome of Handle.
type Result struct {
	Effects []Effect
	// Exit asks the caller to end the session. It is set at most once per
	// navigator.
	Exit bool
	// Changed reports whether any visible state changed.
	Changed bool
}

// Handle maps an input event to navigator transitions.
//
// Keys: next notes activity then advances forward, prev notes activity then
// advances backward, exit requests the session end, info toggles the info
// panel without noting activity. Pointer: movement notes activity; a primary
// click on the pattern advances forward and a secondary click on it
// advances backward. Clicks on the overlay buttons act as their button and
// never reach the pattern handler.
func (nv *Navigator) Handle(ev Event) Result {
	if nv.stopped || nv.exited {
		return Result{}
	}
	before := nv.snapshot()

	var res Result
	switch ev.Input {
	case InputNext:
		res.Effects = append(nv.NoteActivity(), nv.Advance(Forward)...)
	case InputPrev:
		res.Effects = append(nv.NoteActivity(), nv.Advance(Backward)...)
	case InputExit:
		res.Exit = nv.exit()
	case InputInfo:
		nv.ToggleInfo()
	case InputPointerMove:
		res.Effects = nv.NoteActivity()
	case InputPointerPrimary:
		switch ev.Target {
		case TargetPattern, TargetNext:
			res.Effects = nv.Advance(Forward)
		case TargetPrev:
			res.Effects = nv.Advance(Backward)
		case TargetExit:
			res.Exit = nv.exit()
		}
	case InputPointerSecondary:
		if ev.Target == TargetPattern {
			res.Effects = nv.Advance(Backward)
		}
	}

	res.Changed = res.Exit || nv.snapshot() != before
	return res
}

// Exited reports whether the exit signal has been emitted.
func (nv *Navigator) Exited() bool { return nv.exited }

func (nv *Navigator) exit() bool {
	if nv.exited {
		return false
	}
	nv.exited = true
	return true
}

type snapshot struct {
	index           int
	controlsVisible bool
	infoVisible     bool
}

func (nv *Navigator) snapshot() snapshot {
	return snapshot{nv.index, nv.controlsVisible, nv.infoVisible}
}
