// Package uuid wraps github.com/google/uuid. Identifiers default to UUIDv7 so
// request IDs sort by creation time in logs.
package uuid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID
type UUID = uuid.UUID

// New returns a new UUIDv7. Panics if UUID generation fails.
func New() UUID {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return uuidv7
}

// NewToken returns 32 random hex characters, the shape of a REST framework
// auth token.
func NewToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Parse parses a UUID string into a UUID value. Returns an error if the string is not a valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsUUIDv7 reports whether the given UUID is a valid UUIDv7.
func IsUUIDv7(id UUID) bool {
	return id.Version() == uuid.Version(7)
}
