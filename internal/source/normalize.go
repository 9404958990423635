// Package source holds helpers shared by the platform adapters.
package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The second covers Graph-style
// offsets without a colon, such as 2017-08-31T18:10:00+0000.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// ParseTime parses a platform timestamp into UTC.
func ParseTime(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
}

// ParseTimestamp is ParseTime with fallback returned for empty or malformed
// values.
func ParseTimestamp(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := ParseTime(value)
	if err != nil {
		return fallback
	}
	return t
}

// ParseCount parses an engagement counter that some APIs encode as a string.
// Missing or malformed counters are 0.
func ParseCount(value string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Ptr returns a pointer to s, or nil when s is empty.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
