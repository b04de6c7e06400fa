// internal/logger/format.go

package logger

import (
	"io"
	"strconv"
	"time"
)

// colorizer is implemented by destinations that can color the level label.
type colorizer interface {
	Fg(color Color) error
	Reset() error
}

// writeRecord renders one record as a single line:
//
//	[<time>] <LEVEL> <target>: <file>:<line> - <message>
//
// Each prefix field is written only when its threshold allows the record's
// level; the message and newline are always written. When col is non-nil the
// level label is wrapped in a foreground color and an immediate reset.
// The first failing write aborts the rest of the line.
func writeRecord(w io.Writer, col colorizer, cfg *Config, r *Record) error {
	if cfg.time.Allows(r.Level) {
		if err := writeTime(w, cfg, r); err != nil {
			return err
		}
	}

	if cfg.level.Allows(r.Level) {
		if col != nil {
			if err := col.Fg(r.Level.Color()); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, r.Level.String()); err != nil {
			return err
		}
		if col != nil {
			if err := col.Reset(); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
	}

	if cfg.target.Allows(r.Level) {
		if err := writeTarget(w, r); err != nil {
			return err
		}
	}

	if cfg.location.Allows(r.Level) {
		if err := writeLocation(w, r); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, r.Message); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeTime(w io.Writer, cfg *Config, r *Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	if cfg.utc {
		ts = ts.UTC()
	}
	_, err := io.WriteString(w, "["+ts.Format(cfg.timeFormat)+"] ")
	return err
}

func writeTarget(w io.Writer, r *Record) error {
	_, err := io.WriteString(w, r.Target+": ")
	return err
}

func writeLocation(w io.Writer, r *Record) error {
	file := r.File
	if file == "" {
		file = "<unknown>"
	}
	line := "<unknown>"
	if r.Line > 0 {
		line = strconv.Itoa(r.Line)
	}
	_, err := io.WriteString(w, file+":"+line+" - ")
	return err
}
