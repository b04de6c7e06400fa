// internal/logger/file_emitter.go

package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/orgoj/logemit/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileEmitter writes uncolored lines of every level to one file, with
// optional rotation.
type FileEmitter struct {
	emitterBase
	mu     sync.Mutex
	writer io.WriteCloser // *os.File or *lumberjack.Logger
}

// NewFileEmitter creates a FileEmitter from its destination config.
func NewFileEmitter(level Level, cfg *Config, dest config.EmitterDestination, opts ...EmitterOption) (*FileEmitter, error) {
	if dest.Path == "" {
		return nil, fmt.Errorf("file emitter requires a path")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if dest.Name != "" {
		opts = append([]EmitterOption{WithName(dest.Name)}, opts...)
	}

	maxSizeMB, err := rotationSizeMB(dest)
	if err != nil {
		return nil, err
	}
	maxAgeDays, err := rotationAgeDays(dest)
	if err != nil {
		return nil, err
	}

	var writer io.WriteCloser
	if maxSizeMB > 0 || maxAgeDays > 0 || dest.Rotation.MaxBackups > 0 {
		Debugf("logemit", "configuring rotation for '%s': MaxSize=%dMB, MaxAge=%ddays, MaxBackups=%d, Compress=%t",
			dest.Path, maxSizeMB, maxAgeDays, dest.Rotation.MaxBackups, dest.Rotation.Compress)
		writer = &lumberjack.Logger{
			Filename:   dest.Path,
			MaxSize:    maxSizeMB,
			MaxBackups: dest.Rotation.MaxBackups,
			MaxAge:     maxAgeDays,
			Compress:   dest.Rotation.Compress,
			LocalTime:  !cfg.UTC(),
		}
	} else {
		file, err := os.OpenFile(dest.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", dest.Path, err)
		}
		writer = file
	}

	return &FileEmitter{
		emitterBase: newEmitterBase("file", level, cfg, opts),
		writer:      writer,
	}, nil
}

// rotationSizeMB reads max_size as whole megabytes, accepting unit suffixes
// for compatibility. Sizes under 1MB round up to lumberjack's 1MB minimum.
func rotationSizeMB(dest config.EmitterDestination) (int, error) {
	if dest.Rotation.MaxSize == "" {
		return 0, nil
	}
	if mb, err := strconv.Atoi(dest.Rotation.MaxSize); err == nil {
		return max(mb, 0), nil
	}
	sizeBytes, err := config.ParseSize(dest.Rotation.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("invalid rotation.max_size '%s' for emitter '%s': %w", dest.Rotation.MaxSize, dest.Name, err)
	}
	mb := int(sizeBytes / (1024 * 1024))
	if sizeBytes > 0 && mb == 0 {
		Warnf("logemit", "emitter '%s': rotation.max_size %d bytes is below 1MB, using 1MB", dest.Name, sizeBytes)
		mb = 1
	}
	return mb, nil
}

// rotationAgeDays reads max_age in days; anything shorter rounds up to one day.
func rotationAgeDays(dest config.EmitterDestination) (int, error) {
	if dest.Rotation.MaxAge == "" {
		return 0, nil
	}
	age, err := config.ParseDuration(dest.Rotation.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid rotation.max_age '%s' for emitter '%s': %w", dest.Rotation.MaxAge, dest.Name, err)
	}
	days := int(age.Hours() / 24)
	if days == 0 {
		Warnf("logemit", "emitter '%s': rotation.max_age '%s' is less than 1 day, using 1 day", dest.Name, dest.Rotation.MaxAge)
		days = 1
	}
	return days, nil
}

// Log appends the record to the file. Errors are not returned.
func (f *FileEmitter) Log(r *Record) {
	f.report(f.tryLog(r))
}

func (f *FileEmitter) tryLog(r *Record) error {
	if !f.accepts(r) {
		return nil
	}

	var buf bytes.Buffer
	if err := writeRecord(&buf, nil, f.config, r); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writer == nil {
		return os.ErrClosed
	}
	if _, err := f.writer.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	return nil
}

// Flush does nothing; writes go straight to the file.
func (f *FileEmitter) Flush() {}

// Close closes the underlying file writer.
func (f *FileEmitter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writer == nil {
		return nil
	}
	err := f.writer.Close()
	f.writer = nil
	return err
}

// Ensure FileEmitter implements the Emitter interface.
var _ Emitter = (*FileEmitter)(nil)
