package services

import "errors"

// Error kinds surfaced to the API layer. Controllers classify with
// errors.Is: validation failures map to 400, not-found (including
// ownership mismatches, so existence never leaks across users) to 404,
// unmet preconditions to 409.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
)
