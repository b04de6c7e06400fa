// internal/logger/interface.go

package logger

// Emitter defines the contract shared by every log destination (plain
// stream, terminal, file, gelf) and by the combined emitter that fans out
// to them.
type Emitter interface {
	// Enabled reports whether a record at this level would be processed at all.
	Enabled(level Level) bool

	// Log renders the record to the destination. It never fails the caller:
	// write errors are dropped after being handed to the error hook, if any.
	Log(record *Record)

	// Flush exists for emitters that buffer. Plain and terminal emitters
	// flush inside every Log call, so for them this does nothing.
	Flush()

	// Level returns the filter level the emitter was constructed with.
	Level() Level

	// Config returns the shared display configuration.
	Config() *Config

	// Name returns the unique name of the emitter instance (from config).
	Name() string

	// Close releases the destination. It should be called during shutdown.
	Close() error
}

// ErrorHook receives render failures that Log would otherwise drop.
type ErrorHook func(name string, err error)
