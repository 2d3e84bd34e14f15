package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for pixelperfect
type KeyMap struct {
	// Test view
	Next key.Binding
	Prev key.Binding
	Exit key.Binding
	Info key.Binding

	// Dashboard
	Start  key.Binding
	Picker key.Binding
	Debug  key.Binding
	Help   key.Binding

	// Anywhere
	Quit    key.Binding
	Suspend key.Binding
}

// DefaultKeyMap provides the default keybindings
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("right", " "),
		key.WithHelp("→/space", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev"),
	),
	Exit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "exit"),
	),
	Info: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "info"),
	),
	Start: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start test"),
	),
	Picker: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "pick pattern"),
	),
	Debug: key.NewBinding(
		key.WithKeys("f12"),
		key.WithHelp("F12", "debug"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Suspend: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("C-z", "suspend"),
	),
}

// ShortHelp returns keybindings for the dashboard help line
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Picker, k.Debug, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Picker, k.Debug},
		{k.Next, k.Prev, k.Info, k.Exit},
		{k.Suspend, k.Help, k.Quit},
	}
}

// sessionKeys is the help shown inside a running test.
type sessionKeys KeyMap

func (k sessionKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Info, k.Exit}
}

func (k sessionKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
