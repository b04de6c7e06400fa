// internal/logger/plain_emitter.go

package logger

import (
	"bytes"
	"io"
	"os"
)

// PlainEmitter writes uncolored lines to stdout, and error records to stderr.
//
// It owns no lock: each record is rendered into a buffer and handed to the
// destination in a single Write. Whether concurrent writes to the same file
// descriptor interleave is up to the platform.
type PlainEmitter struct {
	emitterBase
	stdout io.Writer
	stderr io.Writer
}

// NewPlainEmitter creates an emitter for the process stdout and stderr.
// It cannot fail: the standard streams are assumed to exist.
func NewPlainEmitter(level Level, cfg *Config, opts ...EmitterOption) *PlainEmitter {
	return NewPlainEmitterTo(level, cfg, os.Stdout, os.Stderr, opts...)
}

// NewPlainEmitterTo creates a plain emitter with explicit destinations.
func NewPlainEmitterTo(level Level, cfg *Config, stdout, stderr io.Writer, opts ...EmitterOption) *PlainEmitter {
	return &PlainEmitter{
		emitterBase: newEmitterBase("plain", level, cfg, opts),
		stdout:      stdout,
		stderr:      stderr,
	}
}

// Log renders the record if it passes the filters. Errors are not returned.
func (p *PlainEmitter) Log(r *Record) {
	p.report(p.tryLog(r))
}

func (p *PlainEmitter) tryLog(r *Record) error {
	if !p.accepts(r) {
		return nil
	}

	dest := p.stdout
	if r.Level == Error {
		dest = p.stderr
	}

	var buf bytes.Buffer
	if err := writeRecord(&buf, nil, p.config, r); err != nil {
		return err
	}
	_, err := dest.Write(buf.Bytes())
	return err
}

// Flush does nothing; Log writes the complete line every time.
func (p *PlainEmitter) Flush() {}

// Close does nothing; the standard streams stay open.
func (p *PlainEmitter) Close() error { return nil }

// Ensure PlainEmitter implements the Emitter interface.
var _ Emitter = (*PlainEmitter)(nil)
