// Package repository defines error values shared across the data-access
// layer. Handlers use these sentinels to pick the HTTP status for a failed
// operation without inspecting driver-specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no row matches the given key or filter.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint, such as a duplicate villa name or a reused room number.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
