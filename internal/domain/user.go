// Package domain defines the persistent data structures of the application.
package domain

import "time"

// User is a registered account. Password always holds the bcrypt hash,
// never the plaintext; services clear it before returning a user outward.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(191);not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_users_email;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
