package util

import "time"

// NowUTC returns the current UTC time truncated to microseconds, the finest
// precision Postgres timestamptz keeps, so stored records compare equal
// after a round trip.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
