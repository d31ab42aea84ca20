package domain

import "time"

// Message is one entry in a room's history. The auto-increment ID is the only
// ordering authority; CreatedAt is informational. Deleting is always a soft
// delete: the row stays so ordering and reply chains remain intact, and the
// body is elided at the serialization boundary instead.
type Message struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	RoomKey   string  `gorm:"type:varchar(64);index;not null" json:"room_key"`
	AuthorID  *uint   `gorm:"index" json:"author_id"` // nil once the author account is removed
	Body      string  `gorm:"type:text;not null" json:"-"`
	ReplyToID *uint   `gorm:"index" json:"reply_to_id,omitempty"`

	EditedAt  *time.Time `json:"edited_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uint      `json:"deleted_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Deleted reports whether the message has been soft-deleted.
func (m *Message) Deleted() bool {
	return m.DeletedAt != nil
}

/// PresentableBody returns the body callers may show: empty once the message
// is soft-deleted, the stored body otherwise.
func (m *Message) PresentableBody() string {
	if m.Deleted() {
		return ""
	}
	return m.Body
}
