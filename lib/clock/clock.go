package clock

import (
	"time"
)

const layout = "2006-01-02T15:04:05Z"

// Clock returns the current time; replaced in tests that need a fixed instant.
type Clock func() time.Time

// UTC is the default clock used by the store and sessions.
func UTC() time.Time {
	return time.Now().UTC()
}

func Now() string {
	return Format(UTC())
}

// Format renders t in UTC with second precision, as used in API responses
func Format(t time.Time) string {
	return t.UTC().Format(layout)
}
