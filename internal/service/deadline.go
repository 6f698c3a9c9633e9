package service

import (
	"strings"
	"time"
)

// zone-less layouts, read in the server's local time zone the way the browser
// reads a datetime-local value
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDeadline accepts RFC 3339 timestamps and the zone-less forms produced
// by date and datetime-local inputs. The result is in UTC.
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, NewValidationError("deadline", "deadline is required")
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewValidationError("deadline", "deadline is not a valid timestamp")
}
