// internal/logger/errors.go

package logger

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTerminal is returned when stdout or stderr is not attached to a terminal.
	ErrNoTerminal = errors.New("a terminal could not be opened")

	// ErrLoggerAlreadySet is returned when a process-wide logger is installed twice.
	ErrLoggerAlreadySet = errors.New("a logger has already been installed")
)

// TermLogErrorKind distinguishes why setting up a terminal logger failed.
type TermLogErrorKind int

const (
	// ErrKindSetLogger means the emitter was built but could not be installed globally.
	ErrKindSetLogger TermLogErrorKind = iota
	// ErrKindTerm means no suitable terminal device was available.
	ErrKindTerm
)

// TermLogError is returned by NewTermEmitter and InitTerm.
type TermLogError struct {
	Kind TermLogErrorKind
	Err  error
}

func (e *TermLogError) Error() string {
	switch e.Kind {
	case ErrKindSetLogger:
		return fmt.Sprintf("set logger: %v", e.Err)
	default:
		if e.Err != nil && !errors.Is(e.Err, ErrNoTerminal) {
			return fmt.Sprintf("%v: %v", ErrNoTerminal, e.Err)
		}
		return ErrNoTerminal.Error()
	}
}

func (e *TermLogError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a terminal failure against ErrNoTerminal even when
// the underlying cause is a different error.
func (e *TermLogError) Is(target error) bool {
	return e.Kind == ErrKindTerm && target == ErrNoTerminal
}
