package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
)

// ChannelService is the room membership directory: it owns (channel, user,
// role) triples and is the authorization authority for every room-scoped
// operation. Membership writes are check-then-act (RoleOf read, conditional
// write); concurrent role changes on the same target by two owners are an
// accepted last-write-wins race.
type ChannelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
}

// MemberInfo is a membership joined with the member's display name.
type MemberInfo struct {
	UserID      uint               `json:"user_id"`
	DisplayName string             `json:"display_name"`
	StatusText  string             `json:"status_text"`
	Role        domain.ChannelRole `json:"role"`
}

// NewChannelService creates a ChannelService.
func NewChannelService(channelRepo repository.ChannelRepository, userRepo repository.UserRepository) *ChannelService {
	if channelRepo == nil {
		panic("ChannelRepository cannot be nil for ChannelService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for ChannelService")
	}
	return &ChannelService{channelRepo: channelRepo, userRepo: userRepo}
}

// CreateChannel creates a channel with the creator as its single owner. The
// owner membership is inserted atomically with the channel row.
func (s *ChannelService) CreateChannel(ctx context.Context, ownerID uint, title string, visibility domain.Visibility) (*domain.Channel, error) {
	logCtx := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "title": title})

	if title == "" {
		return nil, ErrInvalidInput
	}
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, ErrInvalidInput
	}

	channel := &domain.Channel{
		Title:      title,
		Visibility: visibility,
		OwnerID:    ownerID,
	}
	if err := s.channelRepo.CreateWithOwner(ctx, channel); err != nil {
		logCtx.WithError(err).Error("Failed to create channel")
		return nil, ErrInternalServer
	}

	logCtx.WithField("channel_id", channel.ID).Info("Channel created")
	return channel, nil
}

// ListChannels returns the channels the user belongs to.
func (s *ChannelService) ListChannels(ctx context.Context, userID uint) ([]domain.Channel, error) {
	channels, err := s.channelRepo.ListForUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list channels")
		return nil, ErrInternalServer
	}
	return channels, nil
}

// Invite adds target to the channel as a member. Owner-only. Inviting an
// existing member is an idempotent no-op, never a conflict.
func (s *ChannelService) Invite(ctx context.Context, actorID, channelID, targetID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"actor_id": actorID, "channel_id": channelID, "target_id": targetID,
	})

	if err := s.requireOwner(ctx, channelID, actorID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to look up invite target")
		return ErrInternalServer
	}

	member := &domain.ChannelMember{
		ChannelID: channelID,
		UserID:    targetID,
		Role:      domain.ChannelRoleMember,
	}
	if err := s.channelRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Debug("Invite target already a member, absorbing as no-op")
			return nil
		}
		logCtx.WithError(err).Error("Failed to add member")
		return ErrInternalServer
	}

	logCtx.Info("Member invited to channel")
	return nil
}

// RemoveMember removes target from the channel. Owner-only; owners cannot be
// removed.
func (s *ChannelService) RemoveMember(ctx context.Context, actorID, channelID, targetID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"actor_id": actorID, "channel_id": channelID, "target_id": targetID,
	})

	if err := s.requireOwner(ctx, channelID, actorID); err != nil {
		return err
	}

	targetRole, err := s.channelRepo.RoleOf(ctx, channelID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve target role")
		return ErrInternalServer
	}
	if targetRole == domain.ChannelRoleOwner {
		return ErrForbidden
	}

	if err := s.channelRepo.RemoveMember(ctx, channelID, targetID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to remove member")
		return ErrInternalServer
	}

	logCtx.Info("Member removed from channel")
	return nil
}

// ChangeRole sets target's role to member or moderator. Owner-only; the
// target may be neither an owner nor the actor themselves.
func (s *ChannelService) ChangeRole(ctx context.Context, actorID, channelID, targetID uint, newRole domain.ChannelRole) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"actor_id": actorID, "channel_id": channelID, "target_id": targetID, "new_role": newRole,
	})

	if !newRole.Assignable() {
		return ErrInvalidInput
	}
	if targetID == actorID {
		return ErrForbidden
	}
	if err := s.requireOwner(ctx, channelID, actorID); err != nil {
		return err
	}

	targetRole, err := s.channelRepo.RoleOf(ctx, channelID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve target role")
		return ErrInternalServer
	}
	if targetRole == domain.ChannelRoleOwner {
		return ErrForbidden
	}

	if err := s.channelRepo.UpdateMemberRole(ctx, channelID, targetID, newRole); err != nil {
		logCtx.WithError(err).Error("Failed to update member role")
		return ErrInternalServer
	}

	logCtx.Info("Member role changed")
	return nil
}

// Leave removes the caller's own membership. Owners cannot leave; they must
// transfer ownership or delete the channel.
func (s *ChannelService) Leave(ctx context.Context, userID, channelID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "channel_id": channelID})

	role, err := s.channelRepo.RoleOf(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrChannelNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve own role")
		return ErrInternalServer
	}
	if role == domain.ChannelRoleOwner {
		return ErrForbidden
	}

	if err := s.channelRepo.RemoveMember(ctx, channelID, userID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrChannelNotFound
		}
		logCtx.WithError(err).Error("Failed to leave channel")
		return ErrInternalServer
	}

	logCtx.Info("User left channel")
	return nil
}

// DeleteChannel destroys the channel and cascades memberships, messages,
// reactions, attachment links and watermarks. Owner-only.
func (s *ChannelService) DeleteChannel(ctx context.Context, actorID, channelID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "channel_id": channelID})

	if err := s.requireOwner(ctx, channelID, actorID); err != nil {
		return err
	}
	channel, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return ErrChannelNotFound
		}
		logCtx.WithError(err).Error("Failed to load channel for delete")
		return ErrInternalServer
	}

	if err := s.channelRepo.DeleteCascade(ctx, channelID, channel.RoomKey()); err != nil {
		logCtx.WithError(err).Error("Failed to delete channel cascade")
		return ErrInternalServer
	}

	logCtx.Info("Channel deleted")
	return nil
}

// ListMembers returns the channel's members with display names. Members only.
func (s *ChannelService) ListMembers(ctx context.Context, actorID, channelID uint) ([]MemberInfo, error) {
	if _, err := s.channelRepo.RoleOf(ctx, channelID, actorID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, ErrForbidden
		}
		return nil, ErrInternalServer
	}

	members, err := s.channelRepo.ListMembers(ctx, channelID)
	if err != nil {
		return nil, ErrInternalServer
	}

	userIDs := make([]uint, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, ErrInternalServer
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		info := MemberInfo{UserID: m.UserID, Role: m.Role}
		if u, ok := users[m.UserID]; ok {
			info.DisplayName = u.Username
			info.StatusText = u.StatusText
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// AuthorizeRoom reports whether the user may act in the room: channel rooms
// require a membership row, direct rooms require being one of the two
// participants encoded in the key. This is the gate every room-scoped event
// passes before touching durable state.
func (s *ChannelService) AuthorizeRoom(ctx context.Context, roomKey string, userID uint) error {
	if domain.IsDirectRoom(roomKey) {
		if domain.DirectRoomHas(roomKey, userID) {
			return nil
		}
		return ErrForbidden
	}

	channelID, ok := domain.ParseChannelRoomKey(roomKey)
	if !ok {
		return ErrRoomNotFound
	}
	if _, err := s.channelRepo.RoleOf(ctx, channelID, userID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrForbidden
		}
		return ErrInternalServer
	}
	return nil
}

// requireOwner is the shared owner gate of the mutating membership
// operations.
func (s *ChannelService) requireOwner(ctx context.Context, channelID, actorID uint) error {
	role, err := s.channelRepo.RoleOf(ctx, channelID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrForbidden
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor_id": actorID, "channel_id": channelID,
		}).Error("Failed to resolve actor role")
		return ErrInternalServer
	}
	if role != domain.ChannelRoleOwner {
		return ErrForbidden
	}
	return nil
}
