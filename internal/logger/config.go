// internal/logger/config.go

package logger

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Threshold controls a single rendered field. A disabled threshold never
// renders; an enabled one renders for records at least as severe as its level.
// Thresholds taken from loggers that gate on threshold <= record level invert here.
type Threshold struct {
	level   Level
	enabled bool
}

// At returns a threshold enabled at the given level.
func At(level Level) Threshold {
	if level == Off {
		return Never()
	}
	return Threshold{level: level, enabled: true}
}

// Never returns a disabled threshold.
func Never() Threshold {
	return Threshold{}
}

// Level returns the threshold level and whether the field is enabled at all.
func (t Threshold) Level() (Level, bool) {
	return t.level, t.enabled
}

// Allows reports whether a field with this threshold is rendered for a record
// at the given severity.
func (t Threshold) Allows(severity Level) bool {
	if !t.enabled {
		return false
	}
	return severity >= Error && severity <= t.level
}

// String renders the threshold the way config files spell it.
func (t Threshold) String() string {
	if !t.enabled {
		return "off"
	}
	return t.level.String()
}

// DefaultTimeFormat is the timestamp layout used when none is configured.
const DefaultTimeFormat = "15:04:05"

// Config is the display configuration shared by emitters. It is built once
// and never modified, so emitters read it without locking.
type Config struct {
	time     Threshold
	level    Threshold
	target   Threshold
	location Threshold

	timeFormat string
	utc        bool

	allowPatterns  []string
	ignorePatterns []string
	allow          []glob.Glob
	ignore         []glob.Glob
}

// ConfigOption customizes a Config under construction.
type ConfigOption func(*Config)

// WithTime sets the timestamp threshold.
func WithTime(t Threshold) ConfigOption { return func(c *Config) { c.time = t } }

// WithLevel sets the severity label threshold.
func WithLevel(t Threshold) ConfigOption { return func(c *Config) { c.level = t } }

// WithTarget sets the target threshold.
func WithTarget(t Threshold) ConfigOption { return func(c *Config) { c.target = t } }

// WithLocation sets the source location threshold.
func WithLocation(t Threshold) ConfigOption { return func(c *Config) { c.location = t } }

// WithTimeFormat sets the Go time layout for the timestamp field.
func WithTimeFormat(layout string) ConfigOption {
	return func(c *Config) {
		if layout != "" {
			c.timeFormat = layout
		}
	}
}

// WithUTC renders timestamps in UTC instead of local time.
func WithUTC(utc bool) ConfigOption { return func(c *Config) { c.utc = utc } }

// WithFilterAllow restricts output to targets matching one of the glob patterns.
func WithFilterAllow(patterns ...string) ConfigOption {
	return func(c *Config) { c.allowPatterns = append(c.allowPatterns, patterns...) }
}

// WithFilterIgnore drops records whose target matches one of the glob patterns.
func WithFilterIgnore(patterns ...string) ConfigOption {
	return func(c *Config) { c.ignorePatterns = append(c.ignorePatterns, patterns...) }
}

// NewConfig builds a Config starting from the defaults. It fails only when a
// filter pattern does not compile.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	c := defaults()
	for _, opt := range opts {
		opt(c)
	}

	// Pre-compile target filters once; the config is read-only afterwards
	for _, pattern := range c.allowPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter_allow pattern '%s': %w", pattern, err)
		}
		c.allow = append(c.allow, g)
	}
	for _, pattern := range c.ignorePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter_ignore pattern '%s': %w", pattern, err)
		}
		c.ignore = append(c.ignore, g)
	}
	return c, nil
}

// DefaultConfig shows timestamp, level and target on every record and the
// source location on errors only.
func DefaultConfig() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		time:       At(Trace),
		level:      At(Trace),
		target:     At(Trace),
		location:   At(Error),
		timeFormat: DefaultTimeFormat,
	}
}

// Time returns the timestamp threshold.
func (c *Config) Time() Threshold { return c.time }

// LevelField returns the severity label threshold.
func (c *Config) LevelField() Threshold { return c.level }

// Target returns the target threshold.
func (c *Config) Target() Threshold { return c.target }

// Location returns the source location threshold.
func (c *Config) Location() Threshold { return c.location }

// TimeFormat returns the timestamp layout.
func (c *Config) TimeFormat() string { return c.timeFormat }

// UTC reports whether timestamps are rendered in UTC.
func (c *Config) UTC() bool { return c.utc }

// Allows reports whether records for target pass the allow/ignore filters.
// With no allow patterns every target is allowed; ignore patterns win.
func (c *Config) Allows(target string) bool {
	if len(c.allow) > 0 {
		matched := false
		for _, g := range c.allow {
			if g.Match(target) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range c.ignore {
		if g.Match(target) {
			return false
		}
	}
	return true
}
