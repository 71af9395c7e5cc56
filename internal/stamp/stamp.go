// Package stamp assigns the server-owned fields of a record: its id and its
// created/updated timestamps.
package stamp

import (
	"time"

	"github.com/google/uuid"
)

// Resolution is the precision of DATETIME(6) columns. Timestamps are
// truncated to it so a value survives a database round-trip unchanged.
const Resolution = time.Microsecond

// NewID returns a new time-ordered UUID v7 string.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}

// Now returns the current UTC time at storage resolution.
func Now() time.Time {
	return time.Now().UTC().Truncate(Resolution)
}

// Advance returns the updatedAt value for a mutation applied at now to a
// record last updated at prev. The result is strictly after prev even when
// the clock has not moved (or moved backwards) since.
func Advance(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(Resolution)
	if now.After(prev) {
		return now
	}
	return prev.Add(Resolution)
}
