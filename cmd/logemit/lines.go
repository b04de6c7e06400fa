package main

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/orgoj/logemit/internal/logger"
)

const maxLineLength = 1024 * 1024

// pumpLines emits one record per input line. A leading "LEVEL:" prefix, such
// as "error: disk full", overrides the default level for that line. Blank
// lines are skipped. It returns the number of records emitted.
func pumpLines(r io.Reader, e logger.Emitter, level logger.Level, target string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	n, lineNo := 0, 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lvl, msg := splitLevel(text, level)
		e.Log(&logger.Record{
			Level:   lvl,
			Target:  target,
			Message: msg,
			File:    "stdin",
			Line:    lineNo,
			Time:    time.Now(),
		})
		n++
	}
	return n, scanner.Err()
}

// splitLevel strips a recognised level prefix from text.
func splitLevel(text string, fallback logger.Level) (logger.Level, string) {
	prefix, rest, ok := strings.Cut(text, ":")
	if !ok {
		return fallback, text
	}
	lvl, err := logger.ParseLevel(prefix)
	if err != nil || lvl == logger.Off {
		return fallback, text
	}
	return lvl, strings.TrimLeft(rest, " ")
}
