// Package duration parses the duration inputs of a pipeline step.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

const (
	day = 24 * time.Hour

	base10    = 10
	bitSize64 = 64
)

// Parse parses a duration string.
//
// Supported formats:
//   - Integer seconds: "600" → 10m
//   - Go durations: "90s", "1h30m", "500ms"
//   - Days: "2d" → 48h
//
// An empty string is zero. Negative values are rejected.
func Parse(s string) (time.Duration, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, nil
	}

	if seconds, err := strconv.ParseInt(value, base10, bitSize64); err == nil {
		if seconds < 0 {
			return 0, invalid(value)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	if days, found := strings.CutSuffix(value, "d"); found {
		n, err := strconv.ParseInt(days, base10, bitSize64)
		if err != nil || n < 0 {
			return 0, invalid(value)
		}
		return time.Duration(n) * day, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, invalid(value)
	}
	return d, nil
}

func invalid(value string) error {
	return errUtils.Build(fmt.Errorf("%w: %q", errUtils.ErrInvalidDuration, value)).
		WithHint("Use seconds like '600', Go durations like '30m' or '1h30m', or days like '1d'").
		WithContext("value", value).
		Err()
}
