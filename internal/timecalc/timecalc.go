package timecalc

import (
	"time"

	"github.com/google/uuid"
)

// CreatedAtLayout renders timestamps as "DD-MM-YYYY • HH:MM:SS".
const CreatedAtLayout = "02-01-2006 • 15:04:05"

// FormatCreatedAt formats t with CreatedAtLayout in t's location.
func FormatCreatedAt(t time.Time) string {
	return t.Format(CreatedAtLayout)
}

// ParseCreatedAt parses a CreatedAtLayout string in the local time zone.
func ParseCreatedAt(s string) (time.Time, error) {
	return time.ParseInLocation(CreatedAtLayout, s, time.Local)
}

// GenerateID creates a unique random task ID. The leading characters are
// random, so ShortID prefixes stay distinct.
func GenerateID() string {
	return uuid.NewString()
}

// ShortID returns the first eight characters of an ID for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
