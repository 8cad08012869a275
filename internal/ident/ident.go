// Package ident produces the opaque identifiers given to users, trips, plans
// and activities.
package ident

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Generator returns a new globally unique identifier on every call.
// Services depend on this interface so tests can supply predictable ids.
type Generator interface {
	NewID() string
}

// UUIDGenerator generates random (version 4) UUIDs rendered as 32 lowercase
// hex characters without dashes.
type UUIDGenerator struct{}

// NewID returns a fresh random identifier.
func (UUIDGenerator) NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Func adapts an ordinary function into a Generator.
type Func func() string

// NewID calls f.
func (f Func) NewID() string { return f() }
