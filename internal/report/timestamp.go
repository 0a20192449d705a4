package report

import (
	"fmt"
	"strings"
	"time"
)

// Day-first layouts, tried in order after separator normalization.
var timestampLayouts = []string{
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
}

// ParseTimestamp parses a dataset timestamp such as "16/12/2021 10:46:00" or
// "16-12-2021 10:46:00". Both separators yield the same instant. A nil loc means UTC.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	normalized := strings.ReplaceAll(strings.TrimSpace(value), "/", "-")
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, normalized, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %q: no matching day-first layout", value)
}
