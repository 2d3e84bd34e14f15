// Package uitest provides TUI testing via tmux
package uitest

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoTmux is returned by RequireTmux when tmux is not installed.
var ErrNoTmux = errors.New("tmux not found in PATH")

const pollInterval = 100 * time.Millisecond

// Session wraps a tmux session for TUI testing
type Session struct {
	Name   string
	Width  int
	Height int
}

// RequireTmux checks that tmux can be run
func RequireTmux() error {
	if _, err := exec.LookPath("tmux"); err != nil {
		return fmt.Errorf("%w: %v", ErrNoTmux, err)
	}
	return nil
}

// NewSession creates a new tmux session running the given command
func NewSession(name string, width, height int, cmd string) (*Session, error) {
	s := &Session{Name: name, Width: width, Height: height}

	// Kill any existing session with this name
	exec.Command("tmux", "kill-session", "-t", name).Run()

	args := []string{
		"new-session", "-d",
		"-s", name,
		"-x", strconv.Itoa(width),
		"-y", strconv.Itoa(height),
		"-e", "COLORTERM=truecolor",
		cmd,
	}
	if out, err := exec.Command("tmux", args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to create tmux session: %w: %s", err, out)
	}

	return s, nil
}

// Close kills the tmux session
func (s *Session) Close() error {
	return exec.Command("tmux", "kill-session", "-t", s.Name).Run()
}

// SendKeys sends keys to the tmux session, using tmux key names
func (s *Session) SendKeys(keys ...string) error {
	args := append([]string{"send-keys", "-t", s.Name}, keys...)
	return exec.Command("tmux", args...).Run()
}

// Capture returns the visible pane content as plain text
func (s *Session) Capture() (string, error) {
	return s.capture("-p")
}

// CaptureStyled returns the visible pane content with SGR sequences kept
func (s *Session) CaptureStyled() (string, error) {
	return s.capture("-p", "-e")
}

func (s *Session) capture(flags ...string) (string, error) {
	args := append([]string{"capture-pane", "-t", s.Name}, flags...)
	out, err := exec.Command("tmux", args...).Output()
	if err != nil {
		return "", fmt.Errorf("failed to capture pane: %w", err)
	}
	return string(out), nil
}

// WaitFor waits until the output contains the pattern or timeout
func (s *Session) WaitFor(pattern string, timeout time.Duration) error {
	return s.poll(timeout, fmt.Sprintf("%q", pattern), func(content string) bool {
		return strings.Contains(content, pattern)
	})
}

// WaitForGone waits until the pattern is no longer shown
func (s *Session) WaitForGone(pattern string, timeout time.Duration) error {
	return s.poll(timeout, fmt.Sprintf("%q to disappear", pattern), func(content string) bool {
		return !strings.Contains(content, pattern)
	})
}

// WaitForRegex waits until the output matches the regex or timeout
func (s *Session) WaitForRegex(pattern string, timeout time.Duration) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	return s.poll(timeout, "pattern "+re.String(), re.MatchString)
}

func (s *Session) poll(timeout time.Duration, what string, done func(string) bool) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		content, err := s.Capture()
		if err != nil {
			return err
		}
		if done(content) {
			return nil
		}
		time.Sleep(pollInterval)
	}
	content, _ := s.Capture()
	return fmt.Errorf("timeout waiting for %s\nCurrent content:\n%s", what, content)
}

// Contains checks if the current output contains the pattern
func (s *Session) Contains(pattern string) (bool, error) {
	content, err := s.Capture()
	if err != nil {
		return false, err
	}
	return strings.Contains(content, pattern), nil
}

// ContainsRegex checks if the current output matches the regex
func (s *Session) ContainsRegex(pattern string) (bool, error) {
	content, err := s.Capture()
	if err != nil {
		return false, err
	}
	return regexp.MatchString(pattern, content)
}

// HasBackground reports whether any cell is drawn on the given 24-bit
// background color.
func (s *Session) HasBackground(r, g, b uint8) (bool, error) {
	content, err := s.CaptureStyled()
	if err != nil {
		return false, err
	}
	return strings.Contains(content, fmt.Sprintf("48;2;%d;%d;%d", r, g, b)), nil
}
