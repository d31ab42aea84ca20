package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
	"github.com/JBSiena/PulseChat/internal/repository/mocks"
	"github.com/JBSiena/PulseChat/internal/service"
)

func newChannelService(t *testing.T) (*service.ChannelService, *mocks.ChannelRepository, *mocks.UserRepository) {
	t.Helper()
	channelRepo := new(mocks.ChannelRepository)
	userRepo := new(mocks.UserRepository)
	return service.NewChannelService(channelRepo, userRepo), channelRepo, userRepo
}

func TestChannelService_CreateChannel(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("CreateWithOwner", ctx, mock.MatchedBy(func(c *domain.Channel) bool {
		return c.Title == "general" && c.OwnerID == 1 && c.Visibility == domain.VisibilityPublic
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Channel).ID = 10
		}).
		Return(nil).Once()

	channel, err := svc.CreateChannel(ctx, 1, "general", "")

	require.NoError(t, err)
	assert.Equal(t, uint(10), channel.ID)
	assert.Equal(t, "channel:10", channel.RoomKey())
	channelRepo.AssertExpectations(t)
}

func TestChannelService_Invite_NonOwnerForbidden(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	// Actor is a plain member, not the owner.
	channelRepo.On("RoleOf", ctx, uint(10), uint(2)).
		Return(domain.ChannelRoleMember, nil).Once()

	err := svc.Invite(ctx, 2, 10, 3)

	assert.True(t, errors.Is(err, service.ErrForbidden))
	channelRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestChannelService_Invite_DuplicateIsNoOp(t *testing.T) {
	svc, channelRepo, userRepo := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()
	userRepo.On("FindByID", ctx, uint(3)).
		Return(&domain.User{ID: 3, Username: "carol"}, nil).Once()
	channelRepo.On("AddMember", ctx, mock.AnythingOfType("*domain.ChannelMember")).
		Return(repository.ErrDuplicateEntry).Once()

	err := svc.Invite(ctx, 1, 10, 3)

	assert.NoError(t, err, "re-inviting an existing member is idempotent")
	channelRepo.AssertExpectations(t)
}

func TestChannelService_RemoveMember_OwnerTargetForbidden(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()
	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Maybe()

	err := svc.RemoveMember(ctx, 1, 10, 1)

	assert.True(t, errors.Is(err, service.ErrForbidden), "the owner can never be removed")
	channelRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestChannelService_RemoveMember_Success(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()
	channelRepo.On("RoleOf", ctx, uint(10), uint(3)).
		Return(domain.ChannelRoleMember, nil).Once()
	channelRepo.On("RemoveMember", ctx, uint(10), uint(3)).Return(nil).Once()

	err := svc.RemoveMember(ctx, 1, 10, 3)

	assert.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_ChangeRole_Rules(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	// Owner is not an assignable role.
	err := svc.ChangeRole(ctx, 1, 10, 3, domain.ChannelRoleOwner)
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	// Actors cannot change their own role.
	err = svc.ChangeRole(ctx, 1, 10, 1, domain.ChannelRoleModerator)
	assert.True(t, errors.Is(err, service.ErrForbidden))

	// A valid promotion.
	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()
	channelRepo.On("RoleOf", ctx, uint(10), uint(3)).
		Return(domain.ChannelRoleMember, nil).Once()
	channelRepo.On("UpdateMemberRole", ctx, uint(10), uint(3), domain.ChannelRoleModerator).
		Return(nil).Once()

	err = svc.ChangeRole(ctx, 1, 10, 3, domain.ChannelRoleModerator)
	assert.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_Leave_OwnerForbidden(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()

	err := svc.Leave(ctx, 1, 10)

	assert.True(t, errors.Is(err, service.ErrForbidden), "owners delete the channel instead of leaving it")
	channelRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestChannelService_DeleteChannel_Cascades(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleOwner, nil).Once()
	channelRepo.On("FindByID", ctx, uint(10)).
		Return(&domain.Channel{ID: 10, Title: "general", OwnerID: 1}, nil).Once()
	channelRepo.On("DeleteCascade", ctx, uint(10), "channel:10").Return(nil).Once()

	err := svc.DeleteChannel(ctx, 1, 10)

	assert.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_AuthorizeRoom(t *testing.T) {
	svc, channelRepo, _ := newChannelService(t)
	ctx := context.Background()

	// Direct rooms authorize purely from the key.
	assert.NoError(t, svc.AuthorizeRoom(ctx, "dm:3:7", 3))
	assert.NoError(t, svc.AuthorizeRoom(ctx, "dm:3:7", 7))
	assert.True(t, errors.Is(svc.AuthorizeRoom(ctx, "dm:3:7", 5), service.ErrForbidden))

	// Channel rooms require a membership row.
	channelRepo.On("RoleOf", ctx, uint(10), uint(3)).
		Return(domain.ChannelRoleMember, nil).Once()
	assert.NoError(t, svc.AuthorizeRoom(ctx, "channel:10", 3))

	channelRepo.On("RoleOf", ctx, uint(10), uint(5)).
		Return(domain.ChannelRole(""), repository.ErrMemberNotFound).Once()
	assert.True(t, errors.Is(svc.AuthorizeRoom(ctx, "channel:10", 5), service.ErrForbidden))

	// An unparseable key is not a room at all.
	assert.True(t, errors.Is(svc.AuthorizeRoom(ctx, "garbage", 3), service.ErrRoomNotFound))
	channelRepo.AssertExpectations(t)
}
