// internal/logger/record.go

package logger

import "time"

// Record is a single log event. It is built by the caller right before a log
// call and never retained by an emitter.
type Record struct {
	Level   Level
	Target  string
	Message string
	File    string // empty when unknown
	Line    int    // 0 when unknown
	Time    time.Time
}
