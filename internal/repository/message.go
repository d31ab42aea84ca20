package repository

import (
	"context"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// MessageRepository defines storage of the message lifecycle.
type MessageRepository interface {
	// Create inserts a message; the database assigns the next id.
	Create(ctx context.Context, message *domain.Message) error

	// FindByID returns the message (soft-deleted rows included) or
	// ErrMessageNotFound.
	FindByID(ctx context.Context, id uint) (*domain.Message, error)

	// Save updates an existing message row (edit / soft-delete).
	Save(ctx context.Context, message *domain.Message) error

	// History returns the most recent limit messages of the room in
	// ascending id order. The query fetches descending by id to bound it,
	// then reverses.
	History(ctx context.Context, roomKey string, limit int) ([]domain.Message, error)

	// CountByRoom returns the total number of messages in the room,
	// soft-deleted rows included.
	CountByRoom(ctx context.Context, roomKey string) (int64, error)

	// CountUnread counts messages of the room with id greater than afterID,
	// authored by someone other than userID (a removed author counts),
	// excluding soft-deleted rows.
	CountUnread(ctx context.Context, roomKey string, userID, afterID uint) (int64, error)

	// UnreadMessages returns the rows the CountUnread predicate matches,
	// ascending by id. Used for mention scanning on the read side.
	UnreadMessages(ctx context.Context, roomKey string, userID, afterID uint) ([]domain.Message, error)

	// DirectRoomKeys returns the distinct direct-room keys the user has
	// messages in.
	DirectRoomKeys(ctx context.Context, userID uint) ([]string, error)
}
