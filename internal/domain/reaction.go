package domain

import "time"

// Reaction is a (message, user, emoji) presence marker. Existence is the only
// state; counts are always derived from rows, never stored. The composite
// unique index is what makes concurrent duplicate toggles safe no-ops.
type Reaction struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MessageID uint   `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"message_id"`
	UserID    uint   `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"user_id"`
	Emoji     string `gorm:"type:varchar(32);uniqueIndex:idx_message_user_emoji;not null" json:"emoji"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
