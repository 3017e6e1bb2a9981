package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("repository: duplicate entry")
	// ErrValidation means the input was missing or malformed.
	ErrValidation = errors.New("repository: invalid input")
)

// isDuplicateKey recognizes unique-constraint violations across the
// sqlite and postgres drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
