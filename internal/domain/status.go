package domain

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
	StatusExpired   Status = "expired"
)

// EffectiveStatus derives the status of a validity window at a given
// instant. A suspended override wins regardless of the window, so an
// administrator can cut access immediately without touching the dates.
// Expired and pending are never stored; deriving them here means no
// background job is needed to close out grants.
func EffectiveStatus(stored Status, validFrom, validTo, now time.Time) Status {
	if stored == StatusSuspended {
		return StatusSuspended
	}
	if now.After(validTo) {
		return StatusExpired
	}
	if now.Before(validFrom) {
		return StatusPending
	}
	return StatusActive
}

// AccessStart is the instant a day-granular valid_from begins granting
// access: midnight UTC of that day.
func AccessStart(validFrom time.Time) time.Time {
	y, m, d := validFrom.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AccessEnd is the instant a day-granular valid_to stops granting access.
// The cutover is the end of that calendar day in UTC; a grant stays usable
// through the whole final day and client-local time never participates.
func AccessEnd(validTo time.Time) time.Time {
	y, m, d := validTo.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// WindowsOverlap reports whether two validity windows conflict. Intervals
// are closed on both ends: windows that share a boundary day compete for
// the same physical spot and therefore overlap.
func WindowsOverlap(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !bFrom.After(aTo)
}
