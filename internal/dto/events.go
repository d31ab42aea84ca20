// Package dto defines the JSON shapes of the realtime event protocol. Every
// frame, inbound or outbound, carries a "type" discriminator; inbound frames
// are decoded twice, first for the type, then into the matching struct.
package dto

import (
	"time"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// Inbound event types.
const (
	EventJoinRoom       = "join_room"
	EventChatMessage    = "chat_message"
	EventEditMessage    = "edit_message"
	EventDeleteMessage  = "delete_message"
	EventMarkRead       = "mark_read"
	EventAddReaction    = "add_reaction"
	EventRemoveReaction = "remove_reaction"
	EventTyping         = "typing"
)

// Outbound event types.
const (
	EventUserJoined         = "user_joined"
	EventMessageEdited      = "message_edited"
	EventMessageDeleted     = "message_deleted"
	EventReadReceiptUpdated = "read_receipt_updated"
	EventUnreadCounts       = "unread_counts"
	EventReactionUpdated    = "reaction_updated"
)

// Envelope is the minimal first-pass decode of an inbound frame.
type Envelope struct {
	Type string `json:"type"`
}

// --- Inbound payloads ---

type JoinRoomIn struct {
	Room string `json:"room"`
}

type ChatMessageIn struct {
	Room             string `json:"room"`
	Message          string `json:"message"`
	ReplyToMessageID *uint  `json:"replyToMessageId,omitempty"`
	AttachmentIDs    []uint `json:"attachmentIds,omitempty"`
}

type EditMessageIn struct {
	MessageID  uint   `json:"messageId"`
	NewContent string `json:"newContent"`
}

type DeleteMessageIn struct {
	MessageID uint `json:"messageId"`
}

type MarkReadIn struct {
	Room      string `json:"room"`
	MessageID uint   `json:"messageId"`
}

type ReactionIn struct {
	MessageID uint   `json:"messageId"`
	Emoji     string `json:"emoji"`
	Room      string `json:"room"`
}

type TypingIn struct {
	Room     string `json:"room"`
	IsTyping bool   `json:"isTyping"`
}

// --- Outbound payloads ---

type UserJoinedOut struct {
	Type        string `json:"type"`
	Room        string `json:"room"`
	UserID      uint   `json:"userId"`
	DisplayName string `json:"displayName"`
}

type ChatMessageOut struct {
	Type             string              `json:"type"`
	Room             string              `json:"room"`
	Message          string              `json:"message"`
	User             string              `json:"user"`
	UserID           uint                `json:"userId"`
	Timestamp        time.Time           `json:"timestamp"`
	MessageID        uint                `json:"messageId"`
	ReplyToMessageID *uint               `json:"replyToMessageId,omitempty"`
	Attachments      []domain.Attachment `json:"attachments,omitempty"`
}

type MessageEditedOut struct {
	Type      string    `json:"type"`
	MessageID uint      `json:"messageId"`
	Room      string    `json:"room"`
	Message   string    `json:"message"`
	EditedAt  time.Time `json:"editedAt"`
}

type MessageDeletedOut struct {
	Type      string    `json:"type"`
	MessageID uint      `json:"messageId"`
	Room      string    `json:"room"`
	DeletedAt time.Time `json:"deletedAt"`
}

type ReadReceiptUpdatedOut struct {
	Type              string    `json:"type"`
	Room              string    `json:"room"`
	UserID            uint      `json:"userId"`
	LastReadMessageID uint      `json:"lastReadMessageId"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UnreadCountsOut is emitted privately to the caller of mark_read, never
// broadcast.
type UnreadCountsOut struct {
	Type                string           `json:"type"`
	UnreadCounts        map[string]int64 `json:"unreadCounts"`
	MentionUnreadCounts map[string]int64 `json:"mentionUnreadCounts"`
}

type ReactionUpdatedOut struct {
	Type       string `json:"type"`
	MessageID  uint   `json:"messageId"`
	Emoji      string `json:"emoji"`
	UserID     uint   `json:"userId"`
	ChangeType string `json:"changeType"` // "added" | "removed"
}

type TypingOut struct {
	Type     string `json:"type"`
	Room     string `json:"room"`
	User     string `json:"user"`
	UserID   uint   `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}
