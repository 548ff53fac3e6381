package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
)

// GormNoteRepository implements repository.NoteRepository.
type GormNoteRepository struct {
	db *gorm.DB
}

func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	if db == nil {
		panic("database connection cannot be nil for GormNoteRepository")
	}
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("SharedWith").
		Preload("SharedWith.User").
		First(&note, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNoteNotFound
		}
		return nil, fmt.Errorf("gorm: find note by id '%s': %w", id, err)
	}
	return &note, nil
}

func (r *GormNoteRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Note, error) {
	var notes []domain.Note
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", userID).
		Or("id IN (?)", r.db.Model(&domain.Share{}).Select("note_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list notes for user %d: %w", userID, err)
	}
	return notes, nil
}

func (r *GormNoteRepository) Save(ctx context.Context, note *domain.Note) error {
	// Save the bare row: association autosave would re-insert loaded share
	// grants.
	err := r.db.WithContext(ctx).Omit("Author", "SharedWith").Save(note).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save note (id: %s): %w", note.ID, err)
	}
	return nil
}

// Delete removes the note and its share grants in one transaction, mirroring
// the share-then-note ordering of the original application.
func (r *GormNoteRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&domain.Share{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Note{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNoteNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return err
		}
		return fmt.Errorf("gorm: delete note '%s': %w", id, err)
	}
	return nil
}
