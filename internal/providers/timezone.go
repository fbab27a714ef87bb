package providers

import (
	"time"

	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// ResolveTimezone returns a location for a tz string, or nil if invalid.
func ResolveTimezone(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil
	}
	return loc
}

// KickoffDate converts an RFC 3339 kickoff timestamp to the calendar date it falls on in loc.
// A nil loc means UTC.
func KickoffDate(kickoff string, loc *time.Location) (string, error) {
	t, err := time.Parse(time.RFC3339, kickoff)
	if err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeutil.DateLayout), nil
}
