// Package repository defines the storage interfaces the services depend on.
// Implementations live under internal/infra.
package repository

import (
	"context"

	"github.com/priyankashah3107/notes/internal/domain"
)

// UserRepository stores and retrieves user accounts.
type UserRepository interface {
	// FindByEmail returns the user with the given email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID returns the user with the given id, or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save inserts the user, or updates it when the ID is already set.
	// Returns ErrDuplicateEntry when the email is taken.
	Save(ctx context.Context, user *domain.User) error
}
