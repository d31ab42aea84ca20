package repository

import "context"

// PresenceRepository tracks which users currently hold a live subscription to
// a room. Backed by Redis; purely informational, rebuilt from join events.
type PresenceRepository interface {
	// Join records the user as online in the room.
	Join(ctx context.Context, roomKey string, userID uint) error

	// Leave removes the user from the room's online set.
	Leave(ctx context.Context, roomKey string, userID uint) error

	// Online returns the user ids currently subscribed to the room.
	Online(ctx context.Context, roomKey string) ([]uint, error)
}
