package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
	"github.com/JBSiena/PulseChat/internal/repository/mocks"
	"github.com/JBSiena/PulseChat/internal/service"
)

type chatFixture struct {
	svc            *service.ChatService
	messageRepo    *mocks.MessageRepository
	attachmentRepo *mocks.AttachmentRepository
	reactionRepo   *mocks.ReactionRepository
	watermarkRepo  *mocks.WatermarkRepository
	userRepo       *mocks.UserRepository
	channelRepo    *mocks.ChannelRepository
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		messageRepo:    new(mocks.MessageRepository),
		attachmentRepo: new(mocks.AttachmentRepository),
		reactionRepo:   new(mocks.ReactionRepository),
		watermarkRepo:  new(mocks.WatermarkRepository),
		userRepo:       new(mocks.UserRepository),
		channelRepo:    new(mocks.ChannelRepository),
	}
	channels := service.NewChannelService(f.channelRepo, f.userRepo)
	f.svc = service.NewChatService(f.messageRepo, f.attachmentRepo, f.reactionRepo, f.watermarkRepo, f.userRepo, channels)
	return f
}

// memberOf lets the fixture's user pass AuthorizeRoom for a channel room.
func (f *chatFixture) memberOf(ctx context.Context, channelID, userID uint) {
	f.channelRepo.On("RoleOf", ctx, channelID, userID).
		Return(domain.ChannelRoleMember, nil)
}

func TestChatService_SendMessage_Success(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	f.messageRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.RoomKey == "channel:10" && m.AuthorID != nil && *m.AuthorID == 1 && m.Body == "hello"
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Message).ID = 100
		}).
		Return(nil).Once()

	message, attachments, err := f.svc.SendMessage(ctx, 1, "channel:10", "hello", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, uint(100), message.ID)
	assert.Empty(t, attachments)
	f.messageRepo.AssertExpectations(t)
}

func TestChatService_SendMessage_EmptyRejected(t *testing.T) {
	f := newChatFixture(t)

	_, _, err := f.svc.SendMessage(context.Background(), 1, "channel:10", "", nil, nil)

	assert.True(t, errors.Is(err, service.ErrInvalidInput))
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChatService_SendMessage_NonMemberForbidden(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.channelRepo.On("RoleOf", ctx, uint(10), uint(5)).
		Return(domain.ChannelRole(""), repository.ErrMemberNotFound).Once()

	_, _, err := f.svc.SendMessage(ctx, 5, "channel:10", "hello", nil, nil)

	assert.True(t, errors.Is(err, service.ErrForbidden))
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChatService_SendMessage_DropsCrossRoomReply(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	// The referenced message lives in another room.
	replyTo := uint(55)
	f.messageRepo.On("FindByID", ctx, replyTo).
		Return(&domain.Message{ID: 55, RoomKey: "channel:99"}, nil).Once()
	f.messageRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.ReplyToID == nil
	})).Return(nil).Once()

	message, _, err := f.svc.SendMessage(ctx, 1, "channel:10", "hello", &replyTo, nil)

	require.NoError(t, err)
	assert.Nil(t, message.ReplyToID, "cross-room reply references are dropped, not errors")
	f.messageRepo.AssertExpectations(t)
}

func TestChatService_SendMessage_BindsPendingAttachments(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	f.messageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Message).ID = 100
		}).
		Return(nil).Once()

	msgID := uint(100)
	bound := []domain.Attachment{{ID: 7, UploaderID: 1, MessageID: &msgID, FileName: "a.png"}}
	f.attachmentRepo.On("Bind", ctx, []uint{7, 8}, uint(100), uint(1)).
		Return(bound, nil).Once()

	_, attachments, err := f.svc.SendMessage(ctx, 1, "channel:10", "look", nil, []uint{7, 8})

	require.NoError(t, err)
	// Only the rows the conditional update actually claimed come back.
	require.Len(t, attachments, 1)
	assert.Equal(t, uint(7), attachments[0].ID)
	f.attachmentRepo.AssertExpectations(t)
}

func TestChatService_EditMessage_ForeignAuthorSilentNoOp(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	author := uint(2)
	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, RoomKey: "channel:10", AuthorID: &author, Body: "original"}, nil).Once()

	message, err := f.svc.EditMessage(ctx, 1, 100, "tampered")

	assert.NoError(t, err)
	assert.Nil(t, message, "a foreign edit reveals nothing, not even an error")
	f.messageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestChatService_EditMessage_MissingSilentNoOp(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.messageRepo.On("FindByID", ctx, uint(404)).
		Return(nil, repository.ErrMessageNotFound).Once()

	message, err := f.svc.EditMessage(ctx, 1, 404, "anything")

	assert.NoError(t, err)
	assert.Nil(t, message)
}

func TestChatService_EditMessage_AuthorSucceeds(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	author := uint(1)
	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, RoomKey: "channel:10", AuthorID: &author, Body: "original"}, nil).Once()
	f.messageRepo.On("Save", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.Body == "fixed" && m.EditedAt != nil
	})).Return(nil).Once()

	message, err := f.svc.EditMessage(ctx, 1, 100, "fixed")

	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "fixed", message.Body)
	assert.NotNil(t, message.EditedAt)
	f.messageRepo.AssertExpectations(t)
}

func TestChatService_DeleteMessage_SoftDeletes(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	author := uint(1)
	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, RoomKey: "channel:10", AuthorID: &author, Body: "oops"}, nil).Once()
	f.messageRepo.On("Save", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.DeletedAt != nil && m.DeletedBy != nil && *m.DeletedBy == 1 && m.Body == "oops"
	})).Return(nil).Once()

	message, err := f.svc.DeleteMessage(ctx, 1, 100)

	require.NoError(t, err)
	require.NotNil(t, message)
	assert.True(t, message.Deleted())
	assert.Empty(t, message.PresentableBody(), "deleted bodies are never presented")
	f.messageRepo.AssertExpectations(t)
}

func TestChatService_DeleteMessage_AlreadyDeletedNoOp(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	author := uint(1)
	deletedAt := time.Now()
	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, AuthorID: &author, DeletedAt: &deletedAt}, nil).Once()

	message, err := f.svc.DeleteMessage(ctx, 1, 100)

	assert.NoError(t, err)
	assert.Nil(t, message)
	f.messageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestChatService_AddReaction_WrongRoomRejected(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, RoomKey: "channel:99"}, nil).Once()

	err := f.svc.AddReaction(ctx, 1, "channel:10", 100, "👍")

	assert.True(t, errors.Is(err, service.ErrMessageNotFound))
	f.reactionRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestChatService_AddReaction_Success(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	f.messageRepo.On("FindByID", ctx, uint(100)).
		Return(&domain.Message{ID: 100, RoomKey: "channel:10"}, nil).Once()
	f.reactionRepo.On("Add", ctx, mock.MatchedBy(func(r *domain.Reaction) bool {
		return r.MessageID == 100 && r.UserID == 1 && r.Emoji == "👍"
	})).Return(nil).Once()

	err := f.svc.AddReaction(ctx, 1, "channel:10", 100, "👍")

	assert.NoError(t, err)
	f.reactionRepo.AssertExpectations(t)
}

func TestChatService_StageAttachments(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.attachmentRepo.On("CreateBatch", ctx, mock.MatchedBy(func(rows []domain.Attachment) bool {
		return len(rows) == 2 &&
			rows[0].UploaderID == 1 && rows[0].StorageKey != "" &&
			rows[1].StorageKey != "" && rows[0].StorageKey != rows[1].StorageKey
	})).
		Return([]domain.Attachment{{ID: 7}, {ID: 8}}, nil).Once()

	staged, err := f.svc.StageAttachments(ctx, 1, []service.StagedFile{
		{FileName: "a.png", MimeType: "image/png", Size: 1024},
		{FileName: "b.pdf", MimeType: "application/pdf", Size: 2048},
	})

	require.NoError(t, err)
	assert.Len(t, staged, 2)
	f.attachmentRepo.AssertExpectations(t)
}

func TestChatService_History_Aggregates(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.memberOf(ctx, 10, 1)

	author := uint(2)
	msgID := uint(101)
	f.messageRepo.On("History", ctx, "channel:10", 50).
		Return([]domain.Message{
			{ID: 100, RoomKey: "channel:10", AuthorID: &author, Body: "first"},
			{ID: 101, RoomKey: "channel:10", AuthorID: &author, Body: "second"},
		}, nil).Once()
	f.messageRepo.On("CountByRoom", ctx, "channel:10").Return(int64(2), nil).Once()
	f.reactionRepo.On("FindByMessageIDs", ctx, []uint{100, 101}).
		Return([]domain.Reaction{
			{MessageID: 101, UserID: 1, Emoji: "👍"},
			{MessageID: 101, UserID: 2, Emoji: "👍"},
		}, nil).Once()
	f.attachmentRepo.On("FindByMessageIDs", ctx, []uint{100, 101}).
		Return([]domain.Attachment{{ID: 7, MessageID: &msgID, FileName: "a.png"}}, nil).Once()
	f.watermarkRepo.On("ForRoom", ctx, "channel:10").
		Return([]domain.ReadWatermark{{RoomKey: "channel:10", UserID: 1, LastReadMessageID: 100}}, nil).Once()
	f.userRepo.On("FindByIDs", ctx, []uint{2, 2}).
		Return(map[uint]domain.User{2: {ID: 2, Username: "bob"}}, nil).Once()

	result, err := f.svc.History(ctx, 1, "channel:10", 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, "bob", result.Messages[0].AuthorName)
	assert.Empty(t, result.Messages[0].Reactions)
	assert.ElementsMatch(t, []uint{1, 2}, result.Messages[1].Reactions["👍"])
	require.Len(t, result.Messages[1].Attachments, 1)
	require.Len(t, result.ReadReceipts, 1)
}
