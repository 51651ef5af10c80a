// Package id generates stable identifiers for budget records. IDs are
// UUIDv7 strings so they sort by creation time when used as keys.
package id

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string, falling back to UUIDv4 if the
// system entropy source is unavailable.
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
