// internal/logger/combined.go

package logger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/orgoj/logemit/internal/config"
)

// CombinedEmitter fans every record out to a set of named emitters.
type CombinedEmitter struct {
	mu       sync.RWMutex
	emitters map[string]Emitter
	order    []string
	config   *Config
}

// NewCombined creates a combined emitter over the given emitters. Names must
// be unique.
func NewCombined(emitters ...Emitter) (*CombinedEmitter, error) {
	c := &CombinedEmitter{emitters: make(map[string]Emitter)}
	for _, e := range emitters {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers another emitter.
func (c *CombinedEmitter) Add(e Emitter) error {
	if e == nil {
		return errors.New("cannot add a nil emitter")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.emitters[e.Name()]; exists {
		return fmt.Errorf("duplicate emitter name '%s'", e.Name())
	}
	c.emitters[e.Name()] = e
	c.order = append(c.order, e.Name())
	if c.config == nil {
		c.config = e.Config()
	}
	return nil
}

// InitEmitters replaces the current emitters with ones built from the
// enabled destinations. Destinations that fail are skipped and reported
// together in the returned error; the others stay registered. The previous
// emitters are closed after the swap.
func (c *CombinedEmitter) InitEmitters(display *Config, destinations []config.EmitterDestination, opts ...EmitterOption) error {
	emitters := make(map[string]Emitter)
	var order []string
	var initErrors []error
	for _, dest := range destinations {
		if !dest.Enabled {
			continue
		}
		if _, exists := emitters[dest.Name]; exists {
			initErrors = append(initErrors, fmt.Errorf("emitter '%s': duplicate name", dest.Name))
			continue
		}

		e, err := newEmitter(display, dest, opts)
		if err != nil {
			Errorf("logemit", "failed to initialize emitter '%s' (type: %s): %v", dest.Name, dest.Type, err)
			initErrors = append(initErrors, fmt.Errorf("emitter '%s': %w", dest.Name, err))
			continue
		}

		emitters[dest.Name] = e
		order = append(order, dest.Name)
		Debugf("logemit", "initialized emitter '%s' (type: %s, level: %s)", dest.Name, dest.Type, e.Level())
	}

	c.mu.Lock()
	previous := c.emitters
	c.emitters = emitters
	c.order = order
	c.config = display
	c.mu.Unlock()

	// Close the replaced emitters (e.g., on config reload)
	for name, e := range previous {
		if err := e.Close(); err != nil {
			Warnf("logemit", "error closing emitter '%s' during re-initialization: %v", name, err)
		}
	}

	return errors.Join(initErrors...)
}

// newEmitter builds one emitter from its destination config.
func newEmitter(display *Config, dest config.EmitterDestination, opts []EmitterOption) (Emitter, error) {
	levelName := dest.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	opts = append([]EmitterOption{WithName(dest.Name)}, opts...)

	switch dest.Type {
	case config.TypePlain:
		return NewPlainEmitter(level, display, opts...), nil
	case config.TypeTerm:
		term, err := NewTermEmitter(level, display, opts...)
		if err == nil {
			return term, nil
		}
		if dest.FallbackPlain && errors.Is(err, ErrNoTerminal) {
			Infof("logemit", "emitter '%s': %v, falling back to plain output", dest.Name, err)
			return NewPlainEmitter(level, display, opts...), nil
		}
		return nil, err
	case config.TypeFile:
		return NewFileEmitter(level, display, dest, opts...)
	case config.TypeGelf:
		return NewGelfEmitter(level, display, dest, opts...)
	default:
		return nil, fmt.Errorf("unsupported emitter type: %s", dest.Type)
	}
}

// DisplayFromConfig turns the display section of a config file into a Config.
func DisplayFromConfig(d config.DisplayConfig) (*Config, error) {
	thresholds := make([]Threshold, 0, 4)
	for _, name := range []string{d.Time, d.Level, d.Target, d.Location} {
		if name == "" {
			name = "off"
		}
		lvl, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		thresholds = append(thresholds, At(lvl))
	}
	return NewConfig(
		WithTime(thresholds[0]),
		WithLevel(thresholds[1]),
		WithTarget(thresholds[2]),
		WithLocation(thresholds[3]),
		WithTimeFormat(d.TimeFormat),
		WithUTC(d.UTC),
		WithFilterAllow(d.FilterAllow...),
		WithFilterIgnore(d.FilterIgnore...),
	)
}

// BuildFromConfig builds the display config and all enabled emitters.
func BuildFromConfig(cfg *config.Config, opts ...EmitterOption) (*CombinedEmitter, error) {
	display, err := DisplayFromConfig(cfg.Display)
	if err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}
	c := &CombinedEmitter{emitters: make(map[string]Emitter)}
	if err := c.InitEmitters(display, cfg.Emitters, opts...); err != nil {
		return c, err
	}
	return c, nil
}

// Enabled is true when at least one child would take the level.
func (c *CombinedEmitter) Enabled(level Level) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.emitters {
		if e.Enabled(level) {
			return true
		}
	}
	return false
}

// Log forwards the record to every child that has its level enabled.
func (c *CombinedEmitter) Log(r *Record) {
	if r == nil {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.order {
		e := c.emitters[name]
		if e.Enabled(r.Level) {
			e.Log(r)
		}
	}
}

// Flush flushes every child.
func (c *CombinedEmitter) Flush() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.order {
		c.emitters[name].Flush()
	}
}

// Level returns the most verbose level of any child, or Off when empty.
func (c *CombinedEmitter) Level() Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	level := Off
	for _, e := range c.emitters {
		if e.Level() > level {
			level = e.Level()
		}
	}
	return level
}

// Config returns the display configuration the children were built with.
func (c *CombinedEmitter) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config == nil {
		return DefaultConfig()
	}
	return c.config
}

// Name returns "combined".
func (c *CombinedEmitter) Name() string { return "combined" }

// Emitter retrieves a child by name, or nil.
func (c *CombinedEmitter) Emitter(name string) Emitter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.emitters[name]
}

// Names returns the child names in registration order.
func (c *CombinedEmitter) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Close closes all children concurrently and clears the set.
func (c *CombinedEmitter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		closed []error
	)
	for name, e := range c.emitters {
		wg.Add(1)
		go func(name string, e Emitter) {
			defer wg.Done()
			if err := e.Close(); err != nil {
				errMu.Lock()
				closed = append(closed, fmt.Errorf("emitter '%s': %w", name, err))
				errMu.Unlock()
			}
		}(name, e)
	}
	wg.Wait()

	c.emitters = make(map[string]Emitter)
	c.order = nil
	return errors.Join(closed...)
}

// Ensure CombinedEmitter implements the Emitter interface.
var _ Emitter = (*CombinedEmitter)(nil)
