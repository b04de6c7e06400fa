package logger

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, 3, 9, 12, 30, 45, 0, time.UTC)

func mustConfig(t *testing.T, opts ...ConfigOption) *Config {
	t.Helper()
	// Location is off unless a test asks for it.
	cfg, err := NewConfig(append([]ConfigOption{WithUTC(true), WithLocation(Never())}, opts...)...)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	return cfg
}

func record(level Level, target, msg string) *Record {
	return &Record{Level: level, Target: target, Message: msg, Time: fixedTime}
}

// syncBuffer stands in for an OS stream whose writes are atomic per call.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var errBroken = errors.New("broken pipe")

// failingWriter fails every write after the first n.
type failingWriter struct {
	n      int
	writes int
	buf    bytes.Buffer
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, errBroken
	}
	return w.buf.Write(p)
}

// stubTerminalDetection makes OpenTerminal see every file as a terminal, or none.
func stubTerminalDetection(t *testing.T, attached bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(uintptr) bool { return attached }
	t.Cleanup(func() { isTerminal = prev })
}
