package repository

import (
	"context"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// ReactionRepository defines the idempotent per-(message, user, emoji)
// toggle set.
type ReactionRepository interface {
	// Add inserts the reaction; a duplicate is a no-op, not a conflict.
	Add(ctx context.Context, reaction *domain.Reaction) error

	// Remove deletes the reaction; removing an absent reaction is a no-op.
	Remove(ctx context.Context, messageID, userID uint, emoji string) error

	// FindByMessageIDs returns the reactions of any of the messages.
	FindByMessageIDs(ctx context.Context, messageIDs []uint) ([]domain.Reaction, error)
}
