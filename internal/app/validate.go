package app

import (
	"time"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// FieldError is one violated form rule. Rules are checked independently
// so an admin UI can surface every problem at once.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full set of field errors for a rejected
// create or update.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// GrantInput is the admin-facing form for creating or updating a grant.
// Zero time values mean the field was not supplied.
type GrantInput struct {
	GuestName  string
	LocationID int64
	ValidFrom  time.Time
	ValidTo    time.Time
	// Status may be set to pending on create; empty means active.
	Status domain.Status
}

// ValidateGrantForm applies the business rules for a candidate window:
// a location is required, access cannot be backdated, and the window must
// cover at least one full day.
func ValidateGrantForm(in GrantInput, now time.Time) []FieldError {
	var errs []FieldError

	if in.LocationID == 0 {
		errs = append(errs, FieldError{Field: "location_id", Message: "location is required"})
	}

	if in.ValidFrom.IsZero() {
		errs = append(errs, FieldError{Field: "valid_from", Message: "start date is required"})
	} else if in.ValidFrom.Before(domain.AccessStart(now)) {
		errs = append(errs, FieldError{Field: "valid_from", Message: "start date must be today or later"})
	}

	if in.ValidTo.IsZero() {
		errs = append(errs, FieldError{Field: "valid_to", Message: "end date is required"})
	} else if !in.ValidFrom.IsZero() && in.ValidTo.Before(in.ValidFrom.AddDate(0, 0, 1)) {
		errs = append(errs, FieldError{Field: "valid_to", Message: "end date must be at least one day after start"})
	}

	return errs
}
