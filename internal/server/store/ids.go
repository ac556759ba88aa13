package store

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is fixed width, so in UTC the lexical order of two
// timestamps is their chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// NewID returns a random (v4) UUID string.
func NewID() string {
	return uuid.NewString()
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
