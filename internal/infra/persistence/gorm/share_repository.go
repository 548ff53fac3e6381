package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
)

// GormShareRepository implements repository.ShareRepository.
type GormShareRepository struct {
	db *gorm.DB
}

func NewGormShareRepository(db *gorm.DB) *GormShareRepository {
	if db == nil {
		panic("database connection cannot be nil for GormShareRepository")
	}
	return &GormShareRepository{db: db}
}

func (r *GormShareRepository) Save(ctx context.Context, share *domain.Share) error {
	err := r.db.WithContext(ctx).Omit("User").Create(share).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save share (note: %s, user: %d): %w", share.NoteID, share.UserID, err)
	}
	return nil
}

func (r *GormShareRepository) Delete(ctx context.Context, noteID string, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Delete(&domain.Share{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete share (note: %s, user: %d): %w", noteID, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrShareNotFound
	}
	return nil
}
