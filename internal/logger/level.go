// internal/logger/level.go

package logger

import (
	"fmt"
	"strings"
)

// Level is the severity of a record, or the filter an emitter applies.
// Lower values are more severe; Off only makes sense as a filter.
type Level int

const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

// Level to string mapping
var levelNames = map[Level]string{
	Off:   "OFF",
	Error: "ERROR",
	Warn:  "WARN",
	Info:  "INFO",
	Debug: "DEBUG",
	Trace: "TRACE",
}

// LevelNameToLevel maps upper-case level names to level values
var LevelNameToLevel = map[string]Level{
	"OFF":     Off,
	"ERROR":   Error,
	"WARN":    Warn,
	"WARNING": Warn,
	"INFO":    Info,
	"DEBUG":   Debug,
	"TRACE":   Trace,
}

// String returns the upper-case label used in rendered lines.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Passes reports whether a record at level l gets through filter.
// Off never passes and an Off filter lets nothing through.
func (l Level) Passes(filter Level) bool {
	return l > Off && l <= Trace && l <= filter
}

// ParseLevel converts a level name such as "info" or "Warning" to a Level.
func ParseLevel(name string) (Level, error) {
	lvl, ok := LevelNameToLevel[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Off, fmt.Errorf("invalid log level: %s", name)
	}
	return lvl, nil
}

// Color is a terminal foreground color.
type Color int

// ANSI foreground colors, numbered as in SGR 30-37.
const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Color returns the foreground color the terminal emitter uses for the level label.
func (l Level) Color() Color {
	switch l {
	case Error:
		return Red
	case Warn:
		return Yellow
	case Info:
		return Blue
	case Debug:
		return Cyan
	default:
		return White
	}
}
