package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
)

// ShareNotification describes the email sent to a user who was just granted
// access to a note.
type ShareNotification struct {
	ToEmail   string
	FromName  string
	FromEmail string
	NoteID    string
	NoteTitle string
}

// Notifier delivers share notifications. Delivery is best-effort: a failure
// is logged and the share stands regardless.
type Notifier interface {
	NotifyShared(ctx context.Context, n ShareNotification) error
}

// ShareService manages share grants on notes. Author only.
type ShareService struct {
	noteRepo  repository.NoteRepository
	userRepo  repository.UserRepository
	shareRepo repository.ShareRepository
	noteCache repository.NoteCache
	notifier  Notifier
}

// NewShareService creates a ShareService. notifier and noteCache may be nil.
func NewShareService(
	noteRepo repository.NoteRepository,
	userRepo repository.UserRepository,
	shareRepo repository.ShareRepository,
	noteCache repository.NoteCache,
	notifier Notifier,
) *ShareService {
	if noteRepo == nil || userRepo == nil || shareRepo == nil {
		panic("repositories cannot be nil for ShareService")
	}
	return &ShareService{
		noteRepo:  noteRepo,
		userRepo:  userRepo,
		shareRepo: shareRepo,
		noteCache: noteCache,
		notifier:  notifier,
	}
}

// CreateShare grants email's account access to the note and enqueues a
// notification. The caller must be the note's author; sharing with an unknown
// email creates nothing.
func (s *ShareService) CreateShare(ctx context.Context, callerID uint, noteID, email string) (*domain.Share, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": callerID, "note_id": noteID, "share_email": email})

	if email == "" {
		return nil, ErrValidation
	}

	note, err := s.findAuthoredNote(ctx, callerID, noteID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("share rejected: no account for email")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("failed to look up share target")
		return nil, ErrInternalServer
	}
	if target.ID == note.AuthorID {
		// Sharing with yourself is indistinguishable from a duplicate grant.
		return nil, ErrAlreadyShared
	}

	share := &domain.Share{NoteID: note.ID, UserID: target.ID}
	if err := s.shareRepo.Save(ctx, share); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("share rejected: already shared")
			return nil, ErrAlreadyShared
		}
		logCtx.WithError(err).Error("failed to save share")
		return nil, ErrInternalServer
	}
	share.User = target
	s.invalidate(ctx, noteID)

	// Fire-and-forget: notification failure never rolls the share back.
	if s.notifier != nil {
		author := note.Author
		notification := ShareNotification{
			ToEmail:   target.Email,
			NoteID:    note.ID,
			NoteTitle: note.Title,
		}
		if author != nil {
			notification.FromName = author.Name
			notification.FromEmail = author.Email
		}
		if err := s.notifier.NotifyShared(ctx, notification); err != nil {
			logCtx.WithError(err).Warn("failed to enqueue share notification")
		}
	}

	logCtx.WithField("share_user_id", target.ID).Info("note shared")
	return share, nil
}

// DeleteShare revokes email's access to the note. Author only.
func (s *ShareService) DeleteShare(ctx context.Context, callerID uint, noteID, email string) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": callerID, "note_id": noteID, "share_email": email})

	if email == "" {
		return ErrValidation
	}

	note, err := s.findAuthoredNote(ctx, callerID, noteID)
	if err != nil {
		return err
	}

	target, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("failed to look up share target")
		return ErrInternalServer
	}

	if err := s.shareRepo.Delete(ctx, note.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return ErrShareNotFound
		}
		logCtx.WithError(err).Error("failed to delete share")
		return ErrInternalServer
	}
	s.invalidate(ctx, noteID)

	logCtx.WithField("share_user_id", target.ID).Info("share removed")
	return nil
}

func (s *ShareService) findAuthoredNote(ctx context.Context, callerID uint, noteID string) (*domain.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		logrus.WithField("note_id", noteID).WithError(err).Error("failed to load note for share management")
		return nil, ErrInternalServer
	}
	if note.AuthorID != callerID {
		return nil, ErrNotAuthorized
	}
	return note, nil
}

func (s *ShareService) invalidate(ctx context.Context, noteID string) {
	if s.noteCache == nil {
		return
	}
	if err := s.noteCache.Invalidate(ctx, noteID); err != nil {
		logrus.WithField("note_id", noteID).WithError(err).Warn("note cache invalidation failed")
	}
}
