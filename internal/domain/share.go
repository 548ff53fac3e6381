package domain

import "time"

// Share grants a user read/write access to a note they did not author.
// The (NoteID, UserID) pair is unique: a note is shared with a user at most
// once.
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    string    `gorm:"type:varchar(36);uniqueIndex:idx_shares_note_user;not null" json:"noteId"`
	UserID    uint      `gorm:"uniqueIndex:idx_shares_note_user;index;not null" json:"userId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
