package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository/mocks"
	"github.com/JBSiena/PulseChat/internal/service"
)

type readFixture struct {
	svc           *service.ReadService
	watermarkRepo *mocks.WatermarkRepository
	messageRepo   *mocks.MessageRepository
	channelRepo   *mocks.ChannelRepository
	userRepo      *mocks.UserRepository
}

func newReadFixture(t *testing.T) *readFixture {
	t.Helper()
	f := &readFixture{
		watermarkRepo: new(mocks.WatermarkRepository),
		messageRepo:   new(mocks.MessageRepository),
		channelRepo:   new(mocks.ChannelRepository),
		userRepo:      new(mocks.UserRepository),
	}
	channels := service.NewChannelService(f.channelRepo, f.userRepo)
	f.svc = service.NewReadService(f.watermarkRepo, f.messageRepo, f.channelRepo, f.userRepo, channels)
	return f
}

func TestReadService_MarkRead_Success(t *testing.T) {
	f := newReadFixture(t)
	ctx := context.Background()

	f.channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleMember, nil).Once()
	f.watermarkRepo.On("Advance", ctx, "channel:10", uint(1), uint(42)).
		Return(&domain.ReadWatermark{RoomKey: "channel:10", UserID: 1, LastReadMessageID: 42}, nil).Once()

	watermark, err := f.svc.MarkRead(ctx, 1, "channel:10", 42)

	require.NoError(t, err)
	assert.Equal(t, uint(42), watermark.LastReadMessageID)
	f.watermarkRepo.AssertExpectations(t)
}

func TestReadService_MarkRead_StaleCallNeverRegresses(t *testing.T) {
	f := newReadFixture(t)
	ctx := context.Background()

	f.channelRepo.On("RoleOf", ctx, uint(10), uint(1)).
		Return(domain.ChannelRoleMember, nil).Once()
	// The repository's GREATEST upsert keeps the higher stored value.
	f.watermarkRepo.On("Advance", ctx, "channel:10", uint(1), uint(5)).
		Return(&domain.ReadWatermark{RoomKey: "channel:10", UserID: 1, LastReadMessageID: 42}, nil).Once()

	watermark, err := f.svc.MarkRead(ctx, 1, "channel:10", 5)

	require.NoError(t, err)
	assert.Equal(t, uint(42), watermark.LastReadMessageID)
}

func TestReadService_MarkRead_OutsiderForbidden(t *testing.T) {
	f := newReadFixture(t)
	ctx := context.Background()

	err := func() error {
		_, err := f.svc.MarkRead(ctx, 5, "dm:1:2", 42)
		return err
	}()

	assert.True(t, errors.Is(err, service.ErrForbidden))
	f.watermarkRepo.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadService_UnreadSummary_CountsAfterWatermark(t *testing.T) {
	f := newReadFixture(t)
	ctx := context.Background()

	// User "Alic" has read up to message 2 of 4 in channel:10.
	f.userRepo.On("FindByID", ctx, uint(1)).
		Return(&domain.User{ID: 1, Username: "Alic"}, nil).Once()
	f.watermarkRepo.On("ForUser", ctx, uint(1)).
		Return([]domain.ReadWatermark{{RoomKey: "channel:10", UserID: 1, LastReadMessageID: 2}}, nil).Once()
	f.channelRepo.On("ListForUser", ctx, uint(1)).
		Return([]domain.Channel{{ID: 10, Title: "general"}}, nil).Once()
	f.messageRepo.On("DirectRoomKeys", ctx, uint(1)).
		Return(nil, nil).Once()

	author := uint(2)
	f.messageRepo.On("CountUnread", ctx, "channel:10", uint(1), uint(2)).
		Return(int64(2), nil).Once()
	f.messageRepo.On("UnreadMessages", ctx, "channel:10", uint(1), uint(2)).
		Return([]domain.Message{
			{ID: 3, AuthorID: &author, Body: "hey @Alic, seen this?"},
			{ID: 4, AuthorID: &author, Body: "@Alicea is someone else"},
		}, nil).Once()

	unread, mentions, err := f.svc.UnreadSummary(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), unread["channel:10"])
	assert.Equal(t, int64(1), mentions["channel:10"], "a longer name never counts as a mention of its prefix")
}

func TestReadService_UnreadSummary_NoWatermarkCountsEverything(t *testing.T) {
	f := newReadFixture(t)
	ctx := context.Background()

	f.userRepo.On("FindByID", ctx, uint(1)).
		Return(&domain.User{ID: 1, Username: "Alic"}, nil).Once()
	f.watermarkRepo.On("ForUser", ctx, uint(1)).Return(nil, nil).Once()
	f.channelRepo.On("ListForUser", ctx, uint(1)).Return(nil, nil).Once()
	f.messageRepo.On("DirectRoomKeys", ctx, uint(1)).
		Return([]string{"dm:1:2"}, nil).Once()

	// afterID zero means no watermark: every message counts.
	f.messageRepo.On("CountUnread", ctx, "dm:1:2", uint(1), uint(0)).
		Return(int64(3), nil).Once()
	f.messageRepo.On("UnreadMessages", ctx, "dm:1:2", uint(1), uint(0)).
		Return([]domain.Message{{ID: 1, Body: "hi"}, {ID: 2, Body: "you there?"}, {ID: 3, Body: "ping"}}, nil).Once()

	unread, mentions, err := f.svc.UnreadSummary(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(3), unread["dm:1:2"])
	assert.Equal(t, int64(0), mentions["dm:1:2"])
}

func TestContainsMention(t *testing.T) {
	cases := []struct {
		body string
		name string
		want bool
	}{
		{"hello @Alic", "Alic", true},
		{"@Alic at the start", "Alic", true},
		{"punctuation @Alic, works", "Alic", true},
		{"@Alicea is longer", "Alic", false},
		{"@Alic_a has a word char", "Alic", false},
		{"no mention at all", "Alic", false},
		{"@alic wrong case", "Alic", false},
		{"double @@Alic still hits", "Alic", true},
		{"@Alicea then @Alic later", "Alic", true},
		{"", "Alic", false},
		{"@", "", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, service.ContainsMention(tc.body, tc.name), "body=%q name=%q", tc.body, tc.name)
	}
}
