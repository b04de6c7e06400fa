package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdAllows(t *testing.T) {
	warn := At(Warn)
	assert.True(t, warn.Allows(Error))
	assert.True(t, warn.Allows(Warn))
	assert.False(t, warn.Allows(Info))
	assert.False(t, warn.Allows(Trace))

	never := Never()
	for _, l := range []Level{Error, Warn, Info, Debug, Trace} {
		assert.False(t, never.Allows(l))
	}

	// At(Off) is the same as Never.
	assert.Equal(t, Never(), At(Off))
	assert.Equal(t, "off", At(Off).String())
	assert.Equal(t, "DEBUG", At(Debug).String())

	lvl, enabled := At(Info).Level()
	assert.Equal(t, Info, lvl)
	assert.True(t, enabled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Time().Allows(Trace))
	assert.True(t, cfg.LevelField().Allows(Trace))
	assert.True(t, cfg.Target().Allows(Trace))
	assert.True(t, cfg.Location().Allows(Error))
	assert.False(t, cfg.Location().Allows(Warn))
	assert.Equal(t, DefaultTimeFormat, cfg.TimeFormat())
	assert.False(t, cfg.UTC())
	assert.True(t, cfg.Allows("anything"))
}

func TestConfigTargetFilters(t *testing.T) {
	cfg, err := NewConfig(
		WithFilterAllow("net*", "db"),
		WithFilterIgnore("net.noisy*"),
	)
	require.NoError(t, err)

	tests := []struct {
		target  string
		allowed bool
	}{
		{"net", true},
		{"net.http", true},
		{"db", true},
		{"db.pool", false},
		{"net.noisy.poll", false},
		{"cache", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, cfg.Allows(tt.target), "target %q", tt.target)
	}
}

func TestConfigIgnoreOnly(t *testing.T) {
	cfg, err := NewConfig(WithFilterIgnore("*.debug"))
	require.NoError(t, err)
	assert.True(t, cfg.Allows("net"))
	assert.False(t, cfg.Allows("net.debug"))
}

func TestNewConfigInvalidPattern(t *testing.T) {
	_, err := NewConfig(WithFilterAllow("net[")) // unterminated class
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter_allow")
}

func TestWithTimeFormatIgnoresEmpty(t *testing.T) {
	cfg, err := NewConfig(WithTimeFormat(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeFormat, cfg.TimeFormat())
}
