// Package mocks provides hand-written testify mocks for the repository
// interfaces, used by the service tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/priyankashah3107/notes/internal/domain"
)

// UserRepository mocks repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// NoteRepository mocks repository.NoteRepository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	args := m.Called(ctx, id)
	if n := args.Get(0); n != nil {
		return n.(*domain.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Note, error) {
	args := m.Called(ctx, userID)
	if n := args.Get(0); n != nil {
		return n.([]domain.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) Save(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ShareRepository mocks repository.ShareRepository.
type ShareRepository struct {
	mock.Mock
}

func (m *ShareRepository) Save(ctx context.Context, share *domain.Share) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *ShareRepository) Delete(ctx context.Context, noteID string, userID uint) error {
	args := m.Called(ctx, noteID, userID)
	return args.Error(0)
}

// NoteCache mocks repository.NoteCache.
type NoteCache struct {
	mock.Mock
}

func (m *NoteCache) Get(ctx context.Context, noteID string) (*domain.Note, error) {
	args := m.Called(ctx, noteID)
	if n := args.Get(0); n != nil {
		return n.(*domain.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteCache) Set(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteCache) Invalidate(ctx context.Context, noteID string) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}
