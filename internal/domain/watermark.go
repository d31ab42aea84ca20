package domain

import "time"

// ReadWatermark is the per-(room, user) pointer to the last message the user
// considers read. LastReadMessageID is monotonically non-decreasing; the
// repository enforces that with a GREATEST-based upsert so out-of-order
// MarkRead calls converge to the maximum.
type ReadWatermark struct {
	RoomKey           string `gorm:"primaryKey;type:varchar(64)" json:"room_key"`
	UserID            uint   `gorm:"primaryKey" json:"user_id"`
	LastReadMessageID uint   `gorm:"not null;default:0" json:"last_read_message_id"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
