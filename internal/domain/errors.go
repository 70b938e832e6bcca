// Package domain holds the error taxonomy shared by the service core.
package domain

import "errors"

// Core errors. The API layer maps these to HTTP status codes; the core
// never retries on any of them.
var (
	// ErrNotFound indicates a referenced queue or result does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a required field is absent, whitespace-only,
	// or structurally malformed.
	ErrValidation = errors.New("validation error")

	// ErrPrecondition indicates a request that is well-formed but missing a
	// prerequisite, such as a result submitted without a task ID.
	ErrPrecondition = errors.New("precondition failed")
)
