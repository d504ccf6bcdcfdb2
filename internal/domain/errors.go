package domain

import "errors"

var (
	ErrGrantNotFound     = errors.New("parking access not found")
	ErrLocationNotFound  = errors.New("location not found")
	ErrGrantSuspended    = errors.New("parking access has been suspended")
	ErrGrantExpired      = errors.New("parking access has expired")
	ErrGrantPending      = errors.New("parking access is not yet valid")
	ErrRateLimited       = errors.New("rate limit exceeded, try again later")
	ErrGateConfigMissing = errors.New("gate configuration missing")
	ErrActuationFailed   = errors.New("failed to open gate")
	ErrWindowOverlap     = errors.New("another access overlaps this window for the location")
	ErrInvalidID         = errors.New("invalid id")
	ErrReasonRequired    = errors.New("deletion reason required")
	ErrInvalidStatus     = errors.New("invalid stored status")
)
