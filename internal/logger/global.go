// internal/logger/global.go

package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Process-wide logger. Emitters never touch it; only the helpers below do.
var (
	globalMu sync.RWMutex
	global   Emitter
)

// SetLogger installs e as the process logger. It can be called once; later
// calls return ErrLoggerAlreadySet and leave the installed logger in place.
func SetLogger(e Emitter) error {
	if e == nil {
		return fmt.Errorf("cannot install a nil logger")
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		return ErrLoggerAlreadySet
	}
	global = e
	return nil
}

// InitPlain installs a plain emitter as the process logger.
func InitPlain(level Level, cfg *Config) error {
	return SetLogger(NewPlainEmitter(level, cfg))
}

// InitTerm installs a terminal emitter as the process logger. The returned
// *TermLogError tells apart a missing terminal from a logger already being set.
func InitTerm(level Level, cfg *Config) error {
	term, err := NewTermEmitter(level, cfg)
	if err != nil {
		return err
	}
	if err := SetLogger(term); err != nil {
		return &TermLogError{Kind: ErrKindSetLogger, Err: err}
	}
	return nil
}

// Logger returns the installed process logger, or nil.
func Logger() Emitter {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// MaxLevel returns the filter level of the installed logger, or Off.
func MaxLevel() Level {
	if l := Logger(); l != nil {
		return l.Level()
	}
	return Off
}

// logf builds a record with the caller's location and hands it to the
// process logger. Formatting is skipped entirely when the level is filtered.
func logf(level Level, target, format string, args ...interface{}) {
	l := Logger()
	if l == nil || !l.Enabled(level) {
		return
	}

	r := &Record{
		Level:   level,
		Target:  target,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now(),
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		r.File = filepath.Base(file)
		r.Line = line
	}
	l.Log(r)
}

// Errorf logs a message at ERROR level
func Errorf(target, format string, args ...interface{}) {
	logf(Error, target, format, args...)
}

// Warnf logs a message at WARN level
func Warnf(target, format string, args ...interface{}) {
	logf(Warn, target, format, args...)
}

// Infof logs a message at INFO level
func Infof(target, format string, args ...interface{}) {
	logf(Info, target, format, args...)
}

// Debugf logs a message at DEBUG level
func Debugf(target, format string, args ...interface{}) {
	logf(Debug, target, format, args...)
}

// Tracef logs a message at TRACE level
func Tracef(target, format string, args ...interface{}) {
	logf(Trace, target, format, args...)
}
