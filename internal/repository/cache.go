package repository

import (
	"context"

	"github.com/priyankashah3107/notes/internal/domain"
)

// NoteCache is a short-lived read cache in front of NoteRepository.FindByID.
// A miss is reported as ErrNotFound; cache failures must never be fatal to
// the caller.
type NoteCache interface {
	Get(ctx context.Context, noteID string) (*domain.Note, error)
	Set(ctx context.Context, note *domain.Note) error
	Invalidate(ctx context.Context, noteID string) error
}
