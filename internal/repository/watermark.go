package repository

import (
	"context"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// WatermarkRepository defines storage of per-(room, user) read pointers.
type WatermarkRepository interface {
	// Advance upserts the watermark with
	// last_read_message_id = GREATEST(current, messageID), so concurrent or
	// out-of-order calls converge to the maximum and never regress. It
	// returns the stored row after the upsert.
	Advance(ctx context.Context, roomKey string, userID, messageID uint) (*domain.ReadWatermark, error)

	// Get returns the watermark or ErrNotFound when the user has never read
	// the room.
	Get(ctx context.Context, roomKey string, userID uint) (*domain.ReadWatermark, error)

	// ForRoom returns every watermark of the room (the room's read receipts).
	ForRoom(ctx context.Context, roomKey string) ([]domain.ReadWatermark, error)

	// ForUser returns every watermark the user holds across rooms.
	ForUser(ctx context.Context, userID uint) ([]domain.ReadWatermark, error)
}
