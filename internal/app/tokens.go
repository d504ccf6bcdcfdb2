package app

import "github.com/google/uuid"

// newID generates internal grant identifiers.
func newID() string {
	return uuid.NewString()
}

// newShareToken generates the public, unguessable identifier embedded in
// the guest link. Kept separate from newID so the two can never be
// conflated at a call site.
func newShareToken() string {
	return uuid.NewString()
}
