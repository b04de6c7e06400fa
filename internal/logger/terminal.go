// internal/logger/terminal.go

package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// Terminal is a color-capable output handle. Writes may be buffered until Flush.
type Terminal interface {
	io.Writer
	// Fg sets the foreground color for subsequent writes.
	Fg(color Color) error
	// Reset restores the terminal default attributes.
	Reset() error
	// Flush pushes buffered output to the device.
	Flush() error
	// Discard drops buffered output that was not flushed and clears any
	// write error, so the next record starts on a clean handle.
	Discard()
}

const ansiReset = "\x1b[0m"

// isTerminal is a variable so tests can simulate a detached process.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ansiTerminal drives a terminal with SGR escape sequences.
type ansiTerminal struct {
	out io.Writer
	w   *bufio.Writer
}

// OpenTerminal returns a Terminal for f, or ErrNoTerminal when f is not
// attached to a terminal or TERM says the terminal cannot handle colors.
func OpenTerminal(f *os.File) (Terminal, error) {
	if f == nil {
		return nil, ErrNoTerminal
	}
	if !isTerminal(f.Fd()) {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrNoTerminal)
	}
	if os.Getenv("TERM") == "dumb" {
		return nil, fmt.Errorf("%s: TERM=dumb: %w", f.Name(), ErrNoTerminal)
	}
	return NewANSITerminal(f), nil
}

// NewANSITerminal wraps w without checking that it is a terminal.
func NewANSITerminal(w io.Writer) Terminal {
	return &ansiTerminal{out: w, w: bufio.NewWriter(w)}
}

func (t *ansiTerminal) Write(p []byte) (int, error) {
	return t.w.Write(p)
}

func (t *ansiTerminal) Fg(color Color) error {
	if color < Black || color > White {
		return fmt.Errorf("unsupported color %d", int(color))
	}
	_, err := t.w.WriteString("\x1b[" + strconv.Itoa(30+int(color)) + "m")
	return err
}

func (t *ansiTerminal) Reset() error {
	_, err := t.w.WriteString(ansiReset)
	return err
}

func (t *ansiTerminal) Flush() error {
	return t.w.Flush()
}

// Discard resets the buffer; bufio.Writer otherwise keeps its first error forever.
func (t *ansiTerminal) Discard() {
	t.w.Reset(t.out)
}
