package repository

import (
	"context"

	"github.com/priyankashah3107/notes/internal/domain"
)

// ShareRepository stores and retrieves share grants.
type ShareRepository interface {
	// Save inserts the grant. Returns ErrDuplicateEntry when the note is
	// already shared with the user.
	Save(ctx context.Context, share *domain.Share) error

	// Delete removes the grant for (noteID, userID).
	// Returns ErrShareNotFound when no such grant exists.
	Delete(ctx context.Context, noteID string, userID uint) error
}
