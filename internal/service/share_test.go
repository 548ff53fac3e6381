package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
	"github.com/priyankashah3107/notes/internal/repository/mocks"
	"github.com/priyankashah3107/notes/internal/service"
)

// mockNotifier records share notifications instead of enqueueing them.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyShared(ctx context.Context, n service.ShareNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func authoredNote() *domain.Note {
	return &domain.Note{
		ID:       "note-1",
		Title:    "Groceries",
		Content:  "milk",
		AuthorID: authorID,
		Author:   &domain.User{ID: authorID, Name: "Author", Email: "author@example.com"},
	}
}

func newShareService(t *testing.T) (*service.ShareService, *mocks.NoteRepository, *mocks.UserRepository, *mocks.ShareRepository, *mockNotifier) {
	t.Helper()
	noteRepo := new(mocks.NoteRepository)
	userRepo := new(mocks.UserRepository)
	shareRepo := new(mocks.ShareRepository)
	notifier := new(mockNotifier)
	svc := service.NewShareService(noteRepo, userRepo, shareRepo, nil, notifier)
	return svc, noteRepo, userRepo, shareRepo, notifier
}

func TestShareService_CreateShare_Success(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, notifier := newShareService(t)
	ctx := context.Background()
	target := &domain.User{ID: shareeID, Name: "Friend", Email: "friend@example.com"}

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Once()
	userRepo.On("FindByEmail", ctx, "friend@example.com").Return(target, nil).Once()
	shareRepo.On("Save", ctx, mock.MatchedBy(func(s *domain.Share) bool {
		return s.NoteID == "note-1" && s.UserID == shareeID
	})).Return(nil).Once()
	notifier.On("NotifyShared", ctx, mock.MatchedBy(func(n service.ShareNotification) bool {
		assert.Equal(t, "friend@example.com", n.ToEmail)
		assert.Equal(t, "author@example.com", n.FromEmail)
		assert.Equal(t, "Groceries", n.NoteTitle)
		return true
	})).Return(nil).Once()

	share, err := svc.CreateShare(ctx, authorID, "note-1", "friend@example.com")

	assert.NoError(t, err)
	require.NotNil(t, share)
	assert.Equal(t, shareeID, share.UserID)

	// Exactly one share row and exactly one notification.
	shareRepo.AssertNumberOfCalls(t, "Save", 1)
	notifier.AssertNumberOfCalls(t, "NotifyShared", 1)
	noteRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	shareRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestShareService_CreateShare_UnknownEmailCreatesNothing(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, notifier := newShareService(t)
	ctx := context.Background()

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Once()
	userRepo.On("FindByEmail", ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.CreateShare(ctx, authorID, "note-1", "nobody@example.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUserNotFound))
	shareRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyShared", mock.Anything, mock.Anything)
}

func TestShareService_CreateShare_AlreadyShared(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, notifier := newShareService(t)
	ctx := context.Background()
	target := &domain.User{ID: shareeID, Email: "friend@example.com"}

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Once()
	userRepo.On("FindByEmail", ctx, "friend@example.com").Return(target, nil).Once()
	shareRepo.On("Save", ctx, mock.AnythingOfType("*domain.Share")).
		Return(repository.ErrDuplicateEntry).Once()

	_, err := svc.CreateShare(ctx, authorID, "note-1", "friend@example.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAlreadyShared))
	notifier.AssertNotCalled(t, "NotifyShared", mock.Anything, mock.Anything)
}

func TestShareService_CreateShare_NonAuthorDenied(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, _ := newShareService(t)
	ctx := context.Background()

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Once()

	_, err := svc.CreateShare(ctx, otherID, "note-1", "friend@example.com")

	assert.True(t, errors.Is(err, service.ErrNotAuthorized))
	userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	shareRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShareService_CreateShare_NotificationFailureKeepsShare(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, notifier := newShareService(t)
	ctx := context.Background()
	target := &domain.User{ID: shareeID, Email: "friend@example.com"}

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Once()
	userRepo.On("FindByEmail", ctx, "friend@example.com").Return(target, nil).Once()
	shareRepo.On("Save", ctx, mock.AnythingOfType("*domain.Share")).Return(nil).Once()
	notifier.On("NotifyShared", ctx, mock.AnythingOfType("service.ShareNotification")).
		Return(errors.New("queue unavailable")).Once()

	share, err := svc.CreateShare(ctx, authorID, "note-1", "friend@example.com")

	// Best-effort notification: the grant stands.
	assert.NoError(t, err)
	assert.NotNil(t, share)
}

func TestShareService_DeleteShare(t *testing.T) {
	svc, noteRepo, userRepo, shareRepo, _ := newShareService(t)
	ctx := context.Background()
	target := &domain.User{ID: shareeID, Email: "friend@example.com"}

	noteRepo.On("FindByID", ctx, "note-1").Return(authoredNote(), nil).Twice()
	userRepo.On("FindByEmail", ctx, "friend@example.com").Return(target, nil).Twice()
	shareRepo.On("Delete", ctx, "note-1", shareeID).
		Return(nil).Once()

	err := svc.DeleteShare(ctx, authorID, "note-1", "friend@example.com")
	assert.NoError(t, err)

	shareRepo.On("Delete", ctx, "note-1", shareeID).
		Return(repository.ErrShareNotFound).Once()

	err = svc.DeleteShare(ctx, authorID, "note-1", "friend@example.com")
	assert.True(t, errors.Is(err, service.ErrShareNotFound))
}
