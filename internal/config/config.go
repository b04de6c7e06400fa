package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Emitter types understood by the logger package.
const (
	TypePlain = "plain"
	TypeTerm  = "term"
	TypeFile  = "file"
	TypeGelf  = "gelf"
)

// LogRotation defines parameters for log file rotation.
type LogRotation struct {
	MaxSize    string `yaml:"max_size,omitempty"`    // MB, e.g. "10"; "10MB" also accepted
	MaxAge     string `yaml:"max_age,omitempty"`     // e.g. "7d", "48h"
	MaxBackups int    `yaml:"max_backups,omitempty" validate:"gte=0"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// DisplayConfig describes which fields a rendered line carries. Each field
// holds a level name: the field is shown for records at least that severe,
// or never when set to "off".
type DisplayConfig struct {
	Time         string   `yaml:"time" validate:"omitempty,oneof=off error warn warning info debug trace"`
	Level        string   `yaml:"level" validate:"omitempty,oneof=off error warn warning info debug trace"`
	Target       string   `yaml:"target" validate:"omitempty,oneof=off error warn warning info debug trace"`
	Location     string   `yaml:"location" validate:"omitempty,oneof=off error warn warning info debug trace"`
	TimeFormat   string   `yaml:"time_format,omitempty"`
	UTC          bool     `yaml:"utc,omitempty"`
	FilterAllow  []string `yaml:"filter_allow,omitempty"`
	FilterIgnore []string `yaml:"filter_ignore,omitempty"`
}

// EmitterDestination represents one configured emitter.
type EmitterDestination struct {
	Name    string `yaml:"name" validate:"required"` // Mandatory, unique identifier
	Type    string `yaml:"type" validate:"required,oneof=plain term file gelf"`
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=off error warn warning info debug trace"`

	// Term specific
	FallbackPlain bool `yaml:"fallback_plain,omitempty"` // use a plain emitter when no terminal is attached

	// File specific
	Path     string      `yaml:"path,omitempty"` // Mandatory for type: file
	Rotation LogRotation `yaml:"rotation,omitempty"`

	// GELF specific
	Host            string `yaml:"host,omitempty"`             // Mandatory for type: gelf
	Port            int    `yaml:"port,omitempty"`             // Mandatory for type: gelf
	Protocol        string `yaml:"protocol,omitempty"`         // udp or tcp, default udp
	CompressionType string `yaml:"compression_type,omitempty"` // gzip, zlib or none, default none
}

// CORSConfig enables cross-origin POSTs to /log from browser clients.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age" validate:"gte=0"` // seconds
}

// ServerConfig controls the HTTP ingestion endpoint.
type ServerConfig struct {
	Enabled        bool       `yaml:"enabled"`
	Host           string     `yaml:"host"`
	Port           int        `yaml:"port" validate:"gte=0,lte=65535"`
	Mode           string     `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	RateLimit      int        `yaml:"rate_limit" validate:"gte=0"` // requests per minute per client, 0 disables
	MaxBody        int64      `yaml:"max_body_size" validate:"gte=0"`
	TrustedProxies []string   `yaml:"trusted_proxies" validate:"dive,ip|cidr"`
	CORS           CORSConfig `yaml:"cors"`
}

// Config represents the application configuration
type Config struct {
	Display  DisplayConfig        `yaml:"display"`
	Emitters []EmitterDestination `yaml:"emitters" validate:"dive"`
	Server   ServerConfig         `yaml:"server"`

	AppLog struct {
		Level string `yaml:"level" validate:"omitempty,oneof=off error warn warning info debug trace"`
	} `yaml:"app_log"`
}

// Default returns a configuration with a single plain emitter at info.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Emitters = []EmitterDestination{
		{Name: "console", Type: TypePlain, Enabled: true, Level: "info"},
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	cfg.Display.Time = "trace"
	cfg.Display.Level = "trace"
	cfg.Display.Target = "trace"
	cfg.Display.Location = "error"
	cfg.Display.TimeFormat = "15:04:05"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080
	cfg.Server.Mode = "release"
	cfg.Server.MaxBody = 64 * 1024
	cfg.AppLog.Level = "warn"
}

// LoadConfig loads and validates the configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration data on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	applyDefaults(&cfg)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidateConfig uses go-playground/validator for struct-level validation.
// It complements the semantic validation in validateConfig.
func ValidateConfig(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' tag (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return errors.New(strings.Join(messages, "; "))
	}

	return validateConfig(cfg)
}

// validateConfig performs semantic validation of the configuration and fills
// in per-type defaults.
func validateConfig(cfg *Config) error {
	if cfg.Server.Enabled && cfg.Server.Port == 0 {
		return errors.New("server.port is required when server.enabled is true")
	}
	if cfg.Server.CORS.Enabled && len(cfg.Server.CORS.AllowedOrigins) == 0 {
		return errors.New("server.cors.allowed_origins must not be empty when cors is enabled")
	}

	for _, pattern := range append(append([]string{}, cfg.Display.FilterAllow...), cfg.Display.FilterIgnore...) {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("display: invalid filter pattern '%s': %w", pattern, err)
		}
	}

	names := make(map[string]bool)
	for i := range cfg.Emitters {
		dest := &cfg.Emitters[i]
		if names[dest.Name] {
			return fmt.Errorf("emitters: duplicate name '%s' found", dest.Name)
		}
		names[dest.Name] = true

		switch dest.Type {
		case TypePlain, TypeTerm:
			// nothing beyond level
		case TypeFile:
			if dest.Path == "" {
				return fmt.Errorf("emitters[%s]: path is required for type 'file'", dest.Name)
			}
			if dest.Rotation.MaxSize != "" {
				if _, err := ParseSize(dest.Rotation.MaxSize); err != nil {
					return fmt.Errorf("emitters[%s]: invalid rotation.max_size: %w", dest.Name, err)
				}
			}
			if dest.Rotation.MaxAge != "" {
				if _, err := ParseDuration(dest.Rotation.MaxAge); err != nil {
					return fmt.Errorf("emitters[%s]: invalid rotation.max_age: %w", dest.Name, err)
				}
			}
		case TypeGelf:
			if dest.Host == "" {
				return fmt.Errorf("emitters[%s]: host is required for type 'gelf'", dest.Name)
			}
			if dest.Port <= 0 || dest.Port > 65535 {
				return fmt.Errorf("emitters[%s]: invalid port %d for type 'gelf'", dest.Name, dest.Port)
			}
			switch dest.Protocol {
			case "":
				dest.Protocol = "udp"
			case "udp", "tcp":
			default:
				return fmt.Errorf("emitters[%s]: invalid protocol '%s', must be 'udp' or 'tcp'", dest.Name, dest.Protocol)
			}
			switch dest.CompressionType {
			case "":
				dest.CompressionType = "none"
			case "gzip", "zlib", "none":
			default:
				return fmt.Errorf("emitters[%s]: invalid compression_type '%s', must be 'gzip', 'zlib', or 'none'", dest.Name, dest.CompressionType)
			}
		}

		if dest.Level == "" {
			dest.Level = "info"
		}
	}

	return nil
}
