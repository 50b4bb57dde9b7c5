// Package domain holds the aggregates, invariants, and state transitions
// of the olympiad domain (component B). It never touches persistence; a
// method call yields a mutated value the storage layer is responsible for
// saving inside the caller's transaction.
package domain

import "github.com/google/uuid"

// ID is the opaque 128-bit identifier type shared by every aggregate.
type ID = uuid.UUID

// NewID generates a fresh random identifier.
func NewID() ID { return uuid.New() }

// ParseID parses a string identifier, returning the zero ID on failure.
func ParseID(s string) (ID, error) { return uuid.Parse(s) }
