package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Handlers translate these with
// errors.Is; wrap with fmt.Errorf("...: %w", Err...) to add context.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUpstream         = errors.New("upstream failure")
)
