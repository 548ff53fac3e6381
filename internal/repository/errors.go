package repository

import "errors"

// Generic storage errors shared by all implementations.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, so callers can match on the resource they asked for.
var (
	ErrUserNotFound  = ErrNotFound
	ErrNoteNotFound  = ErrNotFound
	ErrShareNotFound = ErrNotFound
)
