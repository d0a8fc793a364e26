package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Status represents the sale state of an NFT record
type Status string

const (
	// StatusAvailable marks an NFT that can be purchased
	StatusAvailable Status = "available"
	// StatusSold marks an NFT whose purchase has completed
	StatusSold Status = "sold"
	// StatusPending marks an NFT with a purchase in flight
	StatusPending Status = "pending"
)

// Valid reports whether the status is one of the known sale states
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusPending:
		return true
	}
	return false
}

// NewTokenID generates a marketplace token identifier.
// The ULID keeps the identifier time-ordered and collision-free.
func NewTokenID() string {
	return TOKEN_ID_PREFIX + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ValidTokenID reports whether s looks like a generated token identifier
func ValidTokenID(s string) bool {
	if !strings.HasPrefix(s, TOKEN_ID_PREFIX) {
		return false
	}
	_, err := ulid.Parse(strings.TrimPrefix(s, TOKEN_ID_PREFIX))
	return err == nil
}
