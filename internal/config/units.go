package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string such as "10m", "1h30m" or "7d".
// Besides the time.ParseDuration units it accepts a plain 'd' suffix for days.
// Zero and negative durations are rejected.
func ParseDuration(durationStr string) (time.Duration, error) {
	durationStr = strings.ToLower(strings.TrimSpace(durationStr))
	if durationStr == "" {
		return 0, errors.New("duration string cannot be empty")
	}

	if numStr, ok := strings.CutSuffix(durationStr, "d"); ok {
		days, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number format for days in '%s': %w", durationStr, err)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
		}
		if days > math.MaxInt64/int64(24*time.Hour) {
			return 0, fmt.Errorf("duration %dd overflows", days)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format '%s': %w", durationStr, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
	}
	return d, nil
}

// sizeSuffixes is ordered so two-letter suffixes are tried before one-letter ones.
var sizeSuffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"KB", 1 << 10},
	{"MB", 1 << 20},
	{"GB", 1 << 30},
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"B", 1},
}

// ParseSize parses a size string such as "10MB", "5k" or "1G" into bytes.
// A bare number is bytes. Zero is valid and means "no limit".
func ParseSize(sizeStr string) (int64, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return 0, errors.New("size string cannot be empty")
	}

	numStr := sizeStr
	var multiplier int64 = 1
	for _, s := range sizeSuffixes {
		if trimmed, ok := strings.CutSuffix(sizeStr, s.suffix); ok {
			numStr = strings.TrimSpace(trimmed)
			multiplier = s.multiplier
			break
		}
	}

	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number format in size string '%s'", sizeStr)
	}
	if n < 0 {
		return 0, fmt.Errorf("size cannot be negative: %d", n)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size value '%s' overflows int64", sizeStr)
	}
	return n * multiplier, nil
}
