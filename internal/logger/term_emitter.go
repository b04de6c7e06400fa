// internal/logger/term_emitter.go

package logger

import (
	"os"
	"sync"
)

// TermEmitter writes colored lines to terminal handles for stdout and stderr.
//
// Each handle has its own mutex. A Log call holds exactly one of them for the
// whole render and flush, so concurrent records to the same stream never
// interleave and a stdout record never waits on a stderr record. No code path
// takes both locks.
type TermEmitter struct {
	emitterBase

	stdoutMu sync.Mutex
	stdout   Terminal

	stderrMu sync.Mutex
	stderr   Terminal
}

// NewTermEmitter opens terminal handles for the process stdout and stderr.
// If either is not a terminal, it returns a *TermLogError matching
// ErrNoTerminal and no emitter.
func NewTermEmitter(level Level, cfg *Config, opts ...EmitterOption) (*TermEmitter, error) {
	stderr, err := OpenTerminal(os.Stderr)
	if err != nil {
		return nil, &TermLogError{Kind: ErrKindTerm, Err: err}
	}
	stdout, err := OpenTerminal(os.Stdout)
	if err != nil {
		return nil, &TermLogError{Kind: ErrKindTerm, Err: err}
	}
	return NewTermEmitterWithTerminals(level, cfg, stdout, stderr, opts...)
}

// NewTermEmitterWithTerminals builds a terminal emitter over caller-supplied
// handles. Both handles are required.
func NewTermEmitterWithTerminals(level Level, cfg *Config, stdout, stderr Terminal, opts ...EmitterOption) (*TermEmitter, error) {
	if stdout == nil || stderr == nil {
		return nil, &TermLogError{Kind: ErrKindTerm}
	}
	return &TermEmitter{
		emitterBase: newEmitterBase("term", level, cfg, opts),
		stdout:      stdout,
		stderr:      stderr,
	}, nil
}

// Log renders the record if it passes the filters. Errors are not returned.
func (t *TermEmitter) Log(r *Record) {
	t.report(t.tryLog(r))
}

func (t *TermEmitter) tryLog(r *Record) error {
	if !t.accepts(r) {
		return nil
	}
	if r.Level == Error {
		t.stderrMu.Lock()
		defer t.stderrMu.Unlock()
		return t.tryLogTerm(t.stderr, r)
	}
	t.stdoutMu.Lock()
	defer t.stdoutMu.Unlock()
	return t.tryLogTerm(t.stdout, r)
}

// tryLogTerm must be called with the lock for term held. A record that fails
// at any step is discarded whole, never left for the next record to flush.
func (t *TermEmitter) tryLogTerm(term Terminal, r *Record) error {
	err := writeRecord(term, term, t.config, r)
	if err == nil {
		err = term.Flush()
	}
	if err != nil {
		term.Discard()
	}
	return err
}

// Flush does nothing; Log flushes the handle before releasing its lock.
func (t *TermEmitter) Flush() {}

// Close does nothing: every record is either flushed or discarded inside Log,
// and the process owns stdout and stderr.
func (t *TermEmitter) Close() error { return nil }

// Ensure TermEmitter implements the Emitter interface.
var _ Emitter = (*TermEmitter)(nil)
