package domain

import "time"

// HistoryRecord is an immutable snapshot of a grant taken at deletion
// time. Records are written only by the delete transition and are never
// updated or removed afterwards.
type HistoryRecord struct {
	ID           string
	OriginalID   string
	ShareToken   string
	GuestName    string
	ValidFrom    time.Time
	ValidTo      time.Time
	StoredStatus Status
	LocationID   int64
	CreatedAt    time.Time
	DeletedAt    time.Time
	DeletedBy    string
	Reason       string
}
