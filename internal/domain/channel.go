package domain

import "time"

// Visibility controls whether a channel is discoverable by non-members.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the defined visibilities.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Channel is a named persistent room. The creating user becomes its owner;
// the owner membership row is inserted in the same transaction as the channel
// itself so there is never a channel without exactly one owner.
type Channel struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"type:varchar(191);not null" json:"title"`
	Visibility Visibility `gorm:"type:varchar(10);not null;default:'public'" json:"visibility"`
	OwnerID    uint       `gorm:"index;not null" json:"owner_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RoomKey returns the fan-out key of the channel's room.
func (c *Channel) RoomKey() string {
	return ChannelRoomKey(c.ID)
}

// ChannelMember is a (channel, user) membership with a per-channel role.
// The pair is unique; duplicate invites are absorbed as idempotent no-ops at
// the service layer.
type ChannelMember struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ChannelID uint        `gorm:"uniqueIndex:idx_channel_user;not null" json:"channel_id"`
	UserID    uint        `gorm:"uniqueIndex:idx_channel_user;not null" json:"user_id"`
	Role      ChannelRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
