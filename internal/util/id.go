// Package util provides small shared helpers for the inventory tracker.
package util

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 identifier. Waste entries and report
// snapshots carry time-ordered IDs so file and table order matches creation
// order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Entropy exhaustion only; a random v4 keeps the caller moving.
		return uuid.NewString()
	}
	return id.String()
}

// ParseID validates and normalizes a UUID string.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return id.String(), nil
}
