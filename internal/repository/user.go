package repository

import (
	"context"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// UserRepository defines storage and retrieval of identities.
type UserRepository interface {
	// FindByUsername looks a user up by display name. Returns
	// ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID looks a user up by id. Returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByIDs fetches users in bulk, keyed by id. Missing ids are simply
	// absent from the map, not an error.
	FindByIDs(ctx context.Context, ids []uint) (map[uint]domain.User, error)

	// Save creates the user when ID is zero and updates it otherwise.
	// Returns ErrDuplicateEntry on a username/email collision.
	Save(ctx context.Context, user *domain.User) error
}
