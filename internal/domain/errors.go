package domain

import "errors"

// Sentinel errors shared across layers. Repos and services wrap these with
// context via fmt.Errorf("...: %w", err); handlers match them with errors.Is
// to pick a status code, so no layer ever inspects error strings.
var (
	// ErrNotFound: the requested row does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrValidation: input failed a business rule, e.g. a negative amount or
	// a missing required field (HTTP 422).
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials: an email/password pair did not match a stored
	// user, or a bearer token failed verification (HTTP 401).
	ErrInvalidCredentials = errors.New("invalid credentials")
)
