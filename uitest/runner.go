package uitest

import (
	"fmt"
	"testing"
	"time"
)

// Runner provides a test runner with snapshots and reporting
type Runner struct {
	T       *testing.T
	Session *Session
	Report  *Report
}

// NewRunner creates a new test runner. It skips the test when tmux is
// unavailable.
func NewRunner(t *testing.T, sessionName string, width, height int, cmd string, reportDir string) *Runner {
	t.Helper()
	if err := RequireTmux(); err != nil {
		t.Skip(err)
	}
	session, err := NewSession(sessionName, width, height, cmd)
	if err != nil {
		t.Fatalf("Failed to create runner: %v", err)
	}

	r := &Runner{
		T:       t,
		Session: session,
		Report:  NewReport(reportDir),
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// Close cleans up the runner
func (r *Runner) Close() error {
	return r.Session.Close()
}

// Snapshot captures the current screen with a label
func (r *Runner) Snapshot(label string) {
	content, err := r.Session.Capture()
	if err != nil {
		r.T.Logf("Warning: failed to capture snapshot %q: %v", label, err)
		return
	}
	r.Report.AddSnapshot(label, content)
}

// Test runs a check with automatic result recording
func (r *Runner) Test(name string, fn func() bool) bool {
	passed := fn()
	r.Report.AddResult(name, passed)
	if passed {
		r.T.Logf("PASS: %s", name)
	} else {
		r.T.Errorf("FAIL: %s", name)
		r.Snapshot(fmt.Sprintf("Failed: %s", name))
	}
	return passed
}

// SendKeys sends keys to the session and gives the program a moment to
// redraw
func (r *Runner) SendKeys(keys ...string) {
	if err := r.Session.SendKeys(keys...); err != nil {
		r.T.Fatalf("Failed to send keys: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
}

// WaitFor waits for a pattern to appear
func (r *Runner) WaitFor(pattern string, timeout time.Duration) bool {
	if err := r.Session.WaitFor(pattern, timeout); err != nil {
		r.T.Logf("WaitFor failed: %v", err)
		return false
	}
	return true
}

// WaitForGone waits for a pattern to disappear
func (r *Runner) WaitForGone(pattern string, timeout time.Duration) bool {
	if err := r.Session.WaitForGone(pattern, timeout); err != nil {
		r.T.Logf("WaitForGone failed: %v", err)
		return false
	}
	return true
}

// Contains checks if the screen contains a pattern
func (r *Runner) Contains(pattern string) bool {
	found, err := r.Session.Contains(pattern)
	if err != nil {
		r.T.Logf("Contains check failed: %v", err)
		return false
	}
	return found
}

// HasBackground checks if any cell uses the given background color
func (r *Runner) HasBackground(red, green, blue uint8) bool {
	found, err := r.Session.HasBackground(red, green, blue)
	if err != nil {
		r.T.Logf("Background check failed: %v", err)
		return false
	}
	return found
}

// Sleep pauses execution
func (r *Runner) Sleep(d time.Duration) {
	time.Sleep(d)
}

// GenerateReport writes the HTML report
func (r *Runner) GenerateReport() string {
	filename, err := r.Report.Generate()
	if err != nil {
		r.T.Errorf("Failed to generate report: %v", err)
		return ""
	}
	r.T.Logf("Report saved to: %s", filename)
	return filename
}
