package repository

import (
	"context"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// ChannelRepository defines storage of channels and their memberships.
type ChannelRepository interface {
	// CreateWithOwner inserts the channel row and the owner membership in a
	// single transaction, so a channel can never exist without exactly one
	// owner.
	CreateWithOwner(ctx context.Context, channel *domain.Channel) error

	// FindByID returns the channel or ErrChannelNotFound.
	FindByID(ctx context.Context, id uint) (*domain.Channel, error)

	// ListForUser returns every channel the user is a member of.
	ListForUser(ctx context.Context, userID uint) ([]domain.Channel, error)

	// DeleteCascade removes the channel, its memberships, the messages of
	// roomKey together with their reactions and attachment links, and the
	// room's read watermarks, all in one transaction.
	DeleteCascade(ctx context.Context, channelID uint, roomKey string) error

	// RoleOf returns the member's role in the channel, or ErrMemberNotFound.
	// This is the single authorization primitive; every mutating membership
	// operation consults it first.
	RoleOf(ctx context.Context, channelID, userID uint) (domain.ChannelRole, error)

	// AddMember inserts a membership row. Returns ErrDuplicateEntry when the
	// (channel, user) pair already exists.
	AddMember(ctx context.Context, member *domain.ChannelMember) error

	// RemoveMember deletes a membership row. Returns ErrMemberNotFound when
	// no row matched.
	RemoveMember(ctx context.Context, channelID, userID uint) error

	// UpdateMemberRole sets the member's role. Returns ErrMemberNotFound when
	// no row matched.
	UpdateMemberRole(ctx context.Context, channelID, userID uint, role domain.ChannelRole) error

	// ListMembers returns all memberships of the channel.
	ListMembers(ctx context.Context, channelID uint) ([]domain.ChannelMember, error)
}
