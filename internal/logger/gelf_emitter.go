// internal/logger/gelf_emitter.go

package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/orgoj/logemit/internal/config"
	"gopkg.in/Graylog2/go-gelf.v2/gelf"
)

// Variables for factories to allow mocking in tests
var gelfUDPWriterFactory = gelf.NewUDPWriter
var gelfTCPWriterFactory = gelf.NewTCPWriter

// Function to set compression, can be mocked in tests
var setUDPCompression = func(writer *gelf.UDPWriter, compType gelf.CompressType) {
	writer.CompressionType = compType
}

// maxShortMessage keeps a GELF short message well inside one UDP chunk set.
const maxShortMessage = 32 * 1024

// GelfEmitter ships records to a Graylog server. The level and target
// filters apply; per-field display thresholds do not, since every field
// travels as its own GELF attribute.
type GelfEmitter struct {
	emitterBase
	mu       sync.Mutex
	writer   gelf.Writer
	hostName string
}

// NewGelfEmitter creates a GELF emitter from its destination config.
func NewGelfEmitter(level Level, cfg *Config, dest config.EmitterDestination, opts ...EmitterOption) (*GelfEmitter, error) {
	if dest.Host == "" {
		return nil, fmt.Errorf("host is required for GELF emitter")
	}
	if dest.Port <= 0 {
		return nil, fmt.Errorf("valid port is required for GELF emitter")
	}
	if dest.Name != "" {
		opts = append([]EmitterOption{WithName(dest.Name)}, opts...)
	}

	hostName, err := os.Hostname()
	if err != nil {
		hostName = "unknown"
		Warnf("logemit", "failed to get hostname: %v, using '%s'", err, hostName)
	}

	addr := fmt.Sprintf("%s:%d", dest.Host, dest.Port)

	var writer gelf.Writer
	if dest.Protocol == "tcp" {
		tcpWriter, err := gelfTCPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF TCP writer: %w", err)
		}
		writer = tcpWriter
	} else {
		udpWriter, err := gelfUDPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF UDP writer: %w", err)
		}
		switch dest.CompressionType {
		case "gzip":
			setUDPCompression(udpWriter, gelf.CompressGzip)
		case "zlib":
			setUDPCompression(udpWriter, gelf.CompressZlib)
		default:
			setUDPCompression(udpWriter, gelf.CompressNone)
		}
		writer = udpWriter
	}

	return &GelfEmitter{
		emitterBase: newEmitterBase("gelf", level, cfg, opts),
		writer:      writer,
		hostName:    hostName,
	}, nil
}

// Log sends the record to Graylog. Errors are not returned.
func (g *GelfEmitter) Log(r *Record) {
	g.report(g.tryLog(r))
}

func (g *GelfEmitter) tryLog(r *Record) error {
	if !g.accepts(r) {
		return nil
	}
	msg := g.message(r)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writer.WriteMessage(msg)
}

func (g *GelfEmitter) message(r *Record) *gelf.Message {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := &gelf.Message{
		Version:  "1.1",
		Host:     g.hostName,
		Short:    truncateString(r.Message, maxShortMessage),
		TimeUnix: float64(ts.UnixNano()) / 1e9,
		Level:    syslogSeverity(r.Level),
		Extra: map[string]interface{}{
			"_target": r.Target,
			"_level":  r.Level.String(),
		},
	}
	if len(r.Message) > maxShortMessage {
		msg.Full = r.Message
	}
	if r.File != "" {
		msg.Extra["_file"] = r.File
	}
	if r.Line > 0 {
		msg.Extra["_line"] = r.Line
	}
	return msg
}

// syslogSeverity maps a level to the syslog severity GELF expects.
func syslogSeverity(l Level) int32 {
	switch l {
	case Error:
		return 3
	case Warn:
		return 4
	case Info:
		return 6
	default:
		return 7
	}
}

// Flush does nothing; every message is sent immediately.
func (g *GelfEmitter) Flush() {}

// Close closes the GELF writer
func (g *GelfEmitter) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writer.Close()
}

// Ensure GelfEmitter implements the Emitter interface.
var _ Emitter = (*GelfEmitter)(nil)
