package domain

import "errors"

// Error kinds surfaced by the core services. Callers (HTTP layer, jobs)
// match with errors.Is; messages carry the specific context.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
