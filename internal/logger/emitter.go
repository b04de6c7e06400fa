// internal/logger/emitter.go

package logger

// emitterBase holds what every emitter carries: its own filter level, the
// shared display configuration, a name and an optional error hook.
type emitterBase struct {
	name    string
	level   Level
	config  *Config
	onError ErrorHook
}

// EmitterOption customizes an emitter at construction.
type EmitterOption func(*emitterBase)

// WithName sets the name the emitter reports to the combined emitter.
func WithName(name string) EmitterOption {
	return func(b *emitterBase) { b.name = name }
}

// WithErrorHook registers a callback for render failures. Without one, failures
// are silently dropped.
func WithErrorHook(hook ErrorHook) EmitterOption {
	return func(b *emitterBase) { b.onError = hook }
}

func newEmitterBase(defaultName string, level Level, cfg *Config, opts []EmitterOption) emitterBase {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b := emitterBase{name: defaultName, level: level, config: cfg}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Enabled reports whether level passes the emitter's filter.
func (b *emitterBase) Enabled(level Level) bool {
	return level.Passes(b.level)
}

// accepts combines the level filter with the config's target filters.
func (b *emitterBase) accepts(r *Record) bool {
	return r != nil && b.Enabled(r.Level) && b.config.Allows(r.Target)
}

func (b *emitterBase) report(err error) {
	if err != nil && b.onError != nil {
		b.onError(b.name, err)
	}
}

// Level returns the filter level.
func (b *emitterBase) Level() Level { return b.level }

// Config returns the shared display configuration.
func (b *emitterBase) Config() *Config { return b.config }

// Name returns the emitter name.
func (b *emitterBase) Name() string { return b.name }
