package models

import "errors"

// Custom errors
var (
	ErrInvalidParameters  = errors.New("invalid simulation parameters")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrInvalidID          = errors.New("invalid ID format")
	ErrSessionUnavailable = errors.New("session data unavailable")
)
