package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// user, trip or plan does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing day_number, unparseable date, end before start).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when there is no session identity, the identity
// no longer resolves to a user, or login credentials do not match.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when an authenticated user tries to mutate a trip
// (or anything under it) that belongs to another user.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a unique constraint would be violated,
// currently only a duplicate email on registration.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
