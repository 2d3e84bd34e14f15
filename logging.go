package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Lines kept for the debug pane.
const debugLogLines = 500

// logRing keeps the last lines written to it. It backs the debug pane.
type logRing struct {
	mu      sync.Mutex
	lines   []string
	partial string
	max     int
}

func newLogRing(max int) *logRing {
	return &logRing{max: max}
}

func (r *logRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := r.partial + string(p)
	parts := strings.Split(text, "\n")
	r.partial = parts[len(parts)-1]
	r.lines = append(r.lines, parts[:len(parts)-1]...)
	if len(r.lines) > r.max {
		r.lines = r.lines[len(r.lines)-r.max:]
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (r *logRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of buffered lines.
func (r *logRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the application logger. Records always go to the ring;
// when path is set they are also appended to that file. Nothing is written
// to the terminal the UI is drawn on.
func newLogger(path string, level slog.Level) (*slog.Logger, *logRing, io.Closer, error) {
	ring := newLogRing(debugLogLines)
	var w io.Writer = ring
	var closer io.Closer = nopCloser{}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(f, ring)
		closer = f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), ring, closer, nil
}
