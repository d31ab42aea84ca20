// Package domain defines the persistent data model of the synchronization
// engine (GORM-tagged structs) plus the pure room-key functions.
package domain

import "time"

// User is an authenticated identity. Rows are never hard-deleted; messages
// keep a nullable author reference instead, so history survives account
// removal.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Username   string `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"` // display name, also the mention target
	Password   string `gorm:"type:text;not null" json:"-"`
	Email      string `gorm:"type:varchar(191);uniqueIndex:idx_email" json:"email"`
	StatusText string `gorm:"type:varchar(255)" json:"status_text"`
	Role       Role   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Session is the identity record bound to a live connection when the
// handshake token verifies. It is created once and never mutated; handlers
// receive it by reference for the lifetime of the connection.
type Session struct {
	UserID      uint
	DisplayName string
	Role        Role
}
