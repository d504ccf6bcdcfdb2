package domain

import "time"

// Grant is one issued, time-boxed permission for a guest to open a
// specific gate. ShareToken is the public identifier embedded in the
// guest-facing link; it is never the internal ID.
type Grant struct {
	ID           string
	ShareToken   string
	GuestName    string
	ValidFrom    time.Time // day-granular, UTC
	ValidTo      time.Time // day-granular, UTC
	StoredStatus Status    // active, suspended or pending; never expired
	LocationID   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveStatus computes the grant's status right now. The stored flag
// is only an administrator override; callers must never trust it as the
// current state.
func (g Grant) EffectiveStatus(now time.Time) Status {
	return EffectiveStatus(g.StoredStatus, AccessStart(g.ValidFrom), AccessEnd(g.ValidTo), now)
}

// GrantWithLocation is a grant joined with its parking lot, as resolved
// for the share link and admin listings.
type GrantWithLocation struct {
	Grant    Grant
	Location Location
}
