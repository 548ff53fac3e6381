package repository

import (
	"context"

	"github.com/priyankashah3107/notes/internal/domain"
)

// NoteRepository stores and retrieves notes.
type NoteRepository interface {
	// FindByID returns the note with its author and share grants loaded,
	// or ErrNoteNotFound.
	FindByID(ctx context.Context, id string) (*domain.Note, error)

	// ListForUser returns every note the user authored plus every note
	// shared with them, most recently updated first.
	ListForUser(ctx context.Context, userID uint) ([]domain.Note, error)

	// Save inserts the note, or overwrites the stored row when it already
	// exists. Last write wins; no version check is performed.
	Save(ctx context.Context, note *domain.Note) error

	// Delete removes the note and all of its share grants.
	// Returns ErrNoteNotFound when the note does not exist.
	Delete(ctx context.Context, id string) error
}
