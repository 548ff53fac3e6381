package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
)

// NoteService handles note CRUD and enforces the access rule: a note is
// readable by its author or any sharee, but only the author may update,
// delete, or manage shares.
//
// Updates are last-write-wins on purpose. Concurrent editors race on the
// debounced save and the later save overwrites the earlier one; the live
// relay traffic is never consulted and never persisted.
type NoteService struct {
	noteRepo  repository.NoteRepository
	noteCache repository.NoteCache
}

// NewNoteService creates a NoteService. noteCache may be nil, in which case
// every read goes to the repository.
func NewNoteService(noteRepo repository.NoteRepository, noteCache repository.NoteCache) *NoteService {
	if noteRepo == nil {
		panic("NoteRepository cannot be nil for NoteService")
	}
	return &NoteService{noteRepo: noteRepo, noteCache: noteCache}
}

// ListNotes returns all notes the user authored or has been granted.
func (s *NoteService) ListNotes(ctx context.Context, userID uint) ([]domain.Note, error) {
	notes, err := s.noteRepo.ListForUser(ctx, userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("failed to list notes")
		return nil, ErrInternalServer
	}
	return notes, nil
}

// CreateNote stores a new note authored by userID.
func (s *NoteService) CreateNote(ctx context.Context, userID uint, title, content, category string) (*domain.Note, error) {
	if title == "" || content == "" {
		return nil, ErrValidation
	}

	note := &domain.Note{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		Category: category,
		AuthorID: userID,
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "note_id": note.ID}).
			WithError(err).Error("failed to save new note")
		return nil, ErrInternalServer
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "note_id": note.ID}).Info("note created")
	return note, nil
}

// GetNote returns the note when userID is its author or a sharee.
func (s *NoteService) GetNote(ctx context.Context, userID uint, noteID string) (*domain.Note, error) {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != userID && !note.SharedWithUser(userID) {
		return nil, ErrNotAuthorized
	}
	return note, nil
}

// UpdateNote overwrites title, content, and category. Author only.
func (s *NoteService) UpdateNote(ctx context.Context, userID uint, noteID, title, content, category string) (*domain.Note, error) {
	if title == "" || content == "" {
		return nil, ErrValidation
	}

	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != userID {
		return nil, ErrNotAuthorized
	}

	note.Title = title
	note.Content = content
	note.Category = category
	if err := s.noteRepo.Save(ctx, note); err != nil {
		logrus.WithField("note_id", noteID).WithError(err).Error("failed to save note update")
		return nil, ErrInternalServer
	}
	s.invalidate(ctx, noteID)

	logrus.WithFields(logrus.Fields{"user_id": userID, "note_id": noteID}).Info("note updated")
	return note, nil
}

// DeleteNote removes the note and its share grants. Author only.
func (s *NoteService) DeleteNote(ctx context.Context, userID uint, noteID string) error {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return ErrNotAuthorized
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		logrus.WithField("note_id", noteID).WithError(err).Error("failed to delete note")
		return ErrInternalServer
	}
	s.invalidate(ctx, noteID)

	logrus.WithFields(logrus.Fields{"user_id": userID, "note_id": noteID}).Info("note deleted")
	return nil
}

// loadNote reads through the cache. Cache failures are logged and ignored;
// the repository stays authoritative.
func (s *NoteService) loadNote(ctx context.Context, noteID string) (*domain.Note, error) {
	if s.noteCache != nil {
		if note, err := s.noteCache.Get(ctx, noteID); err == nil && note != nil {
			return note, nil
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("note_id", noteID).WithError(err).Warn("note cache read failed")
		}
	}

	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		logrus.WithField("note_id", noteID).WithError(err).Error("failed to load note")
		return nil, ErrInternalServer
	}

	if s.noteCache != nil {
		if err := s.noteCache.Set(ctx, note); err != nil {
			logrus.WithField("note_id", noteID).WithError(err).Warn("note cache write failed")
		}
	}
	return note, nil
}

func (s *NoteService) invalidate(ctx context.Context, noteID string) {
	if s.noteCache == nil {
		return
	}
	if err := s.noteCache.Invalidate(ctx, noteID); err != nil {
		logrus.WithField("note_id", noteID).WithError(err).Warn("note cache invalidation failed")
	}
}
