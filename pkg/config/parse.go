package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

// ParseList splits on commas and newlines, trims each element and drops empty ones.
func ParseList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	return lo.FilterMap(parts, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// ParseLines splits on newlines only, for values that may contain commas.
func ParseLines(raw string) []string {
	return lo.FilterMap(strings.Split(raw, "\n"), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// ParseEventTime parses epoch milliseconds. An empty value means now.
func ParseEventTime(raw string, now time.Time) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UnixMilli(), nil
	}

	eventTime, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || eventTime < 0 {
		return 0, errUtils.Build(fmt.Errorf(errUtils.ErrStringWrappingFormat, errUtils.ErrInvalidEventTime, raw)).
			WithHint("Pass event-time as milliseconds since the Unix epoch, for example 1700000000000").
			Err()
	}
	return eventTime, nil
}
