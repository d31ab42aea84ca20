package domain

import "time"

// Attachment is an uploaded file reference. The core never touches file
// bytes; StorageKey is the opaque handle the object store understands. A row
// starts pending (MessageID nil) and is bound to exactly one message, only by
// its uploader, only while still pending.
type Attachment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UploaderID uint   `gorm:"index;not null" json:"uploader_id"`
	StorageKey string `gorm:"type:varchar(64);uniqueIndex;not null" json:"storage_key"`
	MimeType   string `gorm:"type:varchar(127);not null" json:"mime_type"`
	Size       int64  `gorm:"not null" json:"size"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	MessageID  *uint  `gorm:"index" json:"message_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Pending reports whether the attachment has not yet been bound to a message.
func (a *Attachment) Pending() bool {
	return a.MessageID == nil
}
