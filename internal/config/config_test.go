package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, "config.yaml")
	err := os.WriteFile(tempFile, []byte(content), 0644)
	require.NoError(t, err, "Failed to create temporary config file")
	return tempFile
}

const validConfig = `
display:
  time: "off"
  level: trace
  target: info
  location: error
  time_format: "2006-01-02 15:04:05"
  utc: true
  filter_allow: ["net*", "db"]
  filter_ignore: ["net.noisy"]
emitters:
  - name: console
    type: term
    enabled: true
    level: debug
    fallback_plain: true
  - name: app_file
    type: file
    enabled: true
    path: /tmp/logemit.log
    rotation:
      max_size: "10"
      max_age: "7d"
      max_backups: 3
      compress: true
  - name: graylog
    type: gelf
    enabled: false
    host: graylog.example.com
    port: 12201
server:
  enabled: true
  host: 0.0.0.0
  port: 8081
  mode: debug
  rate_limit: 120
  max_body_size: 2048
  trusted_proxies: ["10.0.0.0/8", "127.0.0.1"]
  cors:
    enabled: true
    allowed_origins: ["https://app.example.com"]
    max_age: 600
app_log:
  level: info
`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(createTempConfigFile(t, validConfig))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Display
	assert.Equal(t, "off", cfg.Display.Time)
	assert.Equal(t, "trace", cfg.Display.Level)
	assert.Equal(t, "info", cfg.Display.Target)
	assert.Equal(t, "error", cfg.Display.Location)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.Display.TimeFormat)
	assert.True(t, cfg.Display.UTC)
	assert.Equal(t, []string{"net*", "db"}, cfg.Display.FilterAllow)
	assert.Equal(t, []string{"net.noisy"}, cfg.Display.FilterIgnore)

	// Emitters
	require.Len(t, cfg.Emitters, 3, "Expected 3 emitters")

	console := cfg.Emitters[0]
	assert.Equal(t, TypeTerm, console.Type)
	assert.Equal(t, "debug", console.Level)
	assert.True(t, console.FallbackPlain)

	file := cfg.Emitters[1]
	assert.Equal(t, TypeFile, file.Type)
	assert.Equal(t, "info", file.Level, "level defaults to info")
	assert.Equal(t, "/tmp/logemit.log", file.Path)
	assert.Equal(t, "10", file.Rotation.MaxSize)
	assert.Equal(t, "7d", file.Rotation.MaxAge)
	assert.Equal(t, 3, file.Rotation.MaxBackups)
	assert.True(t, file.Rotation.Compress)

	gelf := cfg.Emitters[2]
	assert.False(t, gelf.Enabled)
	assert.Equal(t, "udp", gelf.Protocol, "protocol defaults to udp")
	assert.Equal(t, "none", gelf.CompressionType, "compression defaults to none")

	// Server
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 120, cfg.Server.RateLimit)
	assert.Equal(t, int64(2048), cfg.Server.MaxBody)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.Server.CORS.Enabled)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, 600, cfg.Server.CORS.MaxAge)

	assert.Equal(t, "info", cfg.AppLog.Level)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("emitters: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "trace", cfg.Display.Time)
	assert.Equal(t, "trace", cfg.Display.Level)
	assert.Equal(t, "trace", cfg.Display.Target)
	assert.Equal(t, "error", cfg.Display.Location)
	assert.Equal(t, "15:04:05", cfg.Display.TimeFormat)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, int64(64*1024), cfg.Server.MaxBody)
	assert.Equal(t, "warn", cfg.AppLog.Level)
	assert.Empty(t, cfg.Emitters)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Len(t, cfg.Emitters, 1)
	assert.Equal(t, "console", cfg.Emitters[0].Name)
	assert.Equal(t, TypePlain, cfg.Emitters[0].Type)
	assert.True(t, cfg.Emitters[0].Enabled)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidCases(t *testing.T) {
	testCases := []struct {
		name          string
		config        string
		expectedError string
	}{
		{
			name:          "Malformed YAML",
			config:        "display: [unclosed",
			expectedError: "error parsing config",
		},
		{
			name: "Invalid display level name",
			config: `
display:
  time: sometimes
`,
			expectedError: "Config.Display.Time' failed on the 'oneof' tag",
		},
		{
			name: "Invalid filter pattern",
			config: `
display:
  filter_ignore: ["net["]
`,
			expectedError: "display: invalid filter pattern 'net['",
		},
		{
			name: "Missing emitter name",
			config: `
emitters:
  - type: plain
    enabled: true
`,
			expectedError: "Config.Emitters[0].Name' failed on the 'required' tag",
		},
		{
			name: "Unknown emitter type",
			config: `
emitters:
  - name: mail
    type: email
`,
			expectedError: "Config.Emitters[0].Type' failed on the 'oneof' tag",
		},
		{
			name: "Invalid emitter level",
			config: `
emitters:
  - name: console
    type: plain
    level: loud
`,
			expectedError: "Config.Emitters[0].Level' failed on the 'oneof' tag",
		},
		{
			name: "Duplicate emitter name",
			config: `
emitters:
  - name: dup_name
    type: plain
  - name: dup_name
    type: term
`,
			expectedError: "duplicate name 'dup_name' found",
		},
		{
			name: "Missing path for file emitter",
			config: `
emitters:
  - name: file_dest
    type: file
`,
			expectedError: "emitters[file_dest]: path is required for type 'file'",
		},
		{
			name: "Invalid rotation max_size",
			config: `
emitters:
  - name: file_dest
    type: file
    path: /tmp/x.log
    rotation:
      max_size: huge
`,
			expectedError: "emitters[file_dest]: invalid rotation.max_size",
		},
		{
			name: "Zero rotation max_age",
			config: `
emitters:
  - name: file_dest
    type: file
    path: /tmp/x.log
    rotation:
      max_age: 0s
`,
			expectedError: "duration must be positive: '0s'",
		},
		{
			name: "Negative max_backups",
			config: `
emitters:
  - name: file_dest
    type: file
    path: /tmp/x.log
    rotation:
      max_backups: -1
`,
			expectedError: "MaxBackups' failed on the 'gte' tag",
		},
		{
			name: "Missing host for GELF emitter",
			config: `
emitters:
  - name: gelf_dest
    type: gelf
    port: 12201
`,
			expectedError: "emitters[gelf_dest]: host is required for type 'gelf'",
		},
		{
			name: "Invalid GELF port",
			config: `
emitters:
  - name: gelf_dest
    type: gelf
    host: graylog.example.com
`,
			expectedError: "emitters[gelf_dest]: invalid port 0 for type 'gelf'",
		},
		{
			name: "Invalid GELF protocol",
			config: `
emitters:
  - name: gelf_dest
    type: gelf
    host: graylog.example.com
    port: 12201
    protocol: http
`,
			expectedError: "emitters[gelf_dest]: invalid protocol 'http'",
		},
		{
			name: "Invalid GELF compression",
			config: `
emitters:
  - name: gelf_dest
    type: gelf
    host: graylog.example.com
    port: 12201
    compression_type: zip
`,
			expectedError: "emitters[gelf_dest]: invalid compression_type 'zip'",
		},
		{
			name: "Invalid server mode",
			config: `
server:
  mode: embedded
`,
			expectedError: "Config.Server.Mode' failed on the 'oneof' tag",
		},
		{
			name: "Server port out of range",
			config: `
server:
  port: 70000
`,
			expectedError: "Config.Server.Port' failed on the 'lte' tag",
		},
		{
			name: "Enabled server without port",
			config: `
server:
  enabled: true
  port: 0
`,
			expectedError: "server.port is required when server.enabled is true",
		},
		{
			name: "Invalid trusted proxy",
			config: `
server:
  trusted_proxies: ["not-an-ip"]
`,
			expectedError: "Config.Server.TrustedProxies[0]' failed",
		},
		{
			name: "CORS without origins",
			config: `
server:
  cors:
    enabled: true
`,
			expectedError: "server.cors.allowed_origins must not be empty",
		},
		{
			name: "Negative rate limit",
			config: `
server:
  rate_limit: -5
`,
			expectedError: "Config.Server.RateLimit' failed on the 'gte' tag",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(createTempConfigFile(t, tc.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedError)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input       string
		expected    time.Duration
		expectError bool
	}{
		{"10m", 10 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{" 2D ", 48 * time.Hour, false},
		{"", 0, true},
		{"0d", 0, true},
		{"-1h", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
		{"999999999999d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input       string
		expected    int64
		expectError bool
	}{
		{"0", 0, false},
		{"512", 512, false},
		{"512B", 512, false},
		{"10KB", 10 << 10, false},
		{"5k", 5 << 10, false},
		{"10MB", 10 << 20, false},
		{"2 m", 2 << 20, false},
		{"1G", 1 << 30, false},
		{"", 0, true},
		{"-1MB", 0, true},
		{"tenMB", 0, true},
		{"9999999999999GB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := ParseSize(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestLoadConfig_Example(t *testing.T) {
	cfg, err := LoadConfig("../../config/example.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.Emitters, 3)
	assert.Equal(t, "console", cfg.Emitters[0].Name)
	assert.True(t, cfg.Emitters[0].FallbackPlain)
	assert.False(t, cfg.Emitters[1].Enabled)
	assert.Equal(t, "gzip", cfg.Emitters[2].CompressionType)
	assert.Equal(t, []string{"net.noisy*"}, cfg.Display.FilterIgnore)
	assert.False(t, cfg.Server.Enabled)
}
