package domain

import "time"

// Note is a user-authored document. The live editing buffer is never stored;
// rows only change when a client issues a debounced save, and the latest save
// wins unconditionally.
type Note struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string    `gorm:"type:varchar(191);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"type:varchar(191)" json:"category,omitempty"`
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Author     *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	SharedWith []Share `gorm:"foreignKey:NoteID" json:"sharedWith,omitempty"`
}

// SharedWithUser reports whether the note carries a share grant for userID.
// Only meaningful when SharedWith has been loaded.
func (n *Note) SharedWithUser(userID uint) bool {
	for _, s := range n.SharedWith {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
