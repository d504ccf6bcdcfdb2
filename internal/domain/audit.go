package domain

import "time"

// ActionGateOpened is the only audited action: a successfully triggered
// gate actuation. Failed attempts are not audited.
const ActionGateOpened = "gate_opened"

// AuditEntry is one row per successful gate-opening trigger. Append-only.
type AuditEntry struct {
	ID         string
	GrantID    string
	Action     string
	LocationID int64
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// AuditRecord is an audit entry decorated with display labels. The labels
// come from LEFT JOINs so entries outlive the grants they reference.
type AuditRecord struct {
	AuditEntry
	GuestName    string
	LocationName string
	GateName     string
}
