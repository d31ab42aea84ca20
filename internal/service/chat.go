package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChatService owns the message lifecycle (append, edit, soft-delete,
// reply-link), attachment staging and binding, the reaction ledger, and the
// aggregated history read. Edits and deletes are author-only; a mismatch is a
// silent no-op, not an error, so callers cannot probe for other users'
// messages.
type ChatService struct {
	messageRepo    repository.MessageRepository
	attachmentRepo repository.AttachmentRepository
	reactionRepo   repository.ReactionRepository
	watermarkRepo  repository.WatermarkRepository
	userRepo       repository.UserRepository
	channels       *ChannelService
}

// NewChatService creates a ChatService.
func NewChatService(
	messageRepo repository.MessageRepository,
	attachmentRepo repository.AttachmentRepository,
	reactionRepo repository.ReactionRepository,
	watermarkRepo repository.WatermarkRepository,
	userRepo repository.UserRepository,
	channels *ChannelService,
) *ChatService {
	if messageRepo == nil || attachmentRepo == nil || reactionRepo == nil ||
		watermarkRepo == nil || userRepo == nil || channels == nil {
		panic("all dependencies must be non-nil for ChatService")
	}
	return &ChatService{
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		reactionRepo:   reactionRepo,
		watermarkRepo:  watermarkRepo,
		userRepo:       userRepo,
		channels:       channels,
	}
}

// StagedFile is the metadata of one uploaded file; the bytes live in the
// object store, the core only records the reference.
type StagedFile struct {
	FileName string
	MimeType string
	Size     int64
}

// SendMessage appends a message to the room and binds the given attachments
// to it. A reply reference pointing at a missing message or one in a
// different room is dropped, not an error: the message still sends with no
// reply link.
func (s *ChatService) SendMessage(ctx context.Context, authorID uint, roomKey, body string, replyToID *uint, attachmentIDs []uint) (*domain.Message, []domain.Attachment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"author_id": authorID, "room": roomKey})

	if body == "" && len(attachmentIDs) == 0 {
		return nil, nil, ErrInvalidInput
	}
	if err := s.channels.AuthorizeRoom(ctx, roomKey, authorID); err != nil {
		return nil, nil, err
	}

	if replyToID != nil {
		target, err := s.messageRepo.FindByID(ctx, *replyToID)
		if err != nil || target.RoomKey != roomKey {
			logCtx.WithField("reply_to", *replyToID).Debug("Dropping cross-room or dangling reply reference")
			replyToID = nil
		}
	}

	author := authorID
	message := &domain.Message{
		RoomKey:   roomKey,
		AuthorID:  &author,
		Body:      body,
		ReplyToID: replyToID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		logCtx.WithError(err).Error("Failed to persist message")
		return nil, nil, ErrInternalServer
	}

	var attachments []domain.Attachment
	if len(attachmentIDs) > 0 {
		bound, err := s.attachmentRepo.Bind(ctx, attachmentIDs, message.ID, authorID)
		if err != nil {
			// The message is already durable; a bind failure is logged and
			// the send proceeds without attachments.
			logCtx.WithError(err).Error("Failed to bind attachments")
		} else {
			attachments = bound
		}
	}

	logCtx.WithField("message_id", message.ID).Debug("Message appended")
	return message, attachments, nil
}

// EditMessage updates the body when the actor is the original author.
// Anything else (missing row, removed author, foreign author) returns
// (nil, nil): a silent authorization no-op.
func (s *ChatService) EditMessage(ctx context.Context, actorID, messageID uint, newBody string) (*domain.Message, error) {
	if newBody == "" {
		return nil, ErrInvalidInput
	}

	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, nil
		}
		return nil, ErrInternalServer
	}
	if message.AuthorID == nil || *message.AuthorID != actorID || message.Deleted() {
		return nil, nil
	}

	now := time.Now()
	message.Body = newBody
	message.EditedAt = &now
	if err := s.messageRepo.Save(ctx, message); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).Error("Failed to save message edit")
		return nil, ErrInternalServer
	}
	return message, nil
}

// DeleteMessage soft-deletes the message when the actor is its author. The
// row is kept so ordering and reply chains stay intact; the same silent
// no-op rule as EditMessage applies.
func (s *ChatService) DeleteMessage(ctx context.Context, actorID, messageID uint) (*domain.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, nil
		}
		return nil, ErrInternalServer
	}
	if message.AuthorID == nil || *message.AuthorID != actorID || message.Deleted() {
		return nil, nil
	}

	now := time.Now()
	actor := actorID
	message.DeletedAt = &now
	message.DeletedBy = &actor
	if err := s.messageRepo.Save(ctx, message); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).Error("Failed to save message delete")
		return nil, ErrInternalServer
	}
	return message, nil
}

// StageAttachments creates pending attachment rows for the uploader. Each
// receives a fresh opaque storage key; binding happens later, with
// SendMessage, at most once.
func (s *ChatService) StageAttachments(ctx context.Context, uploaderID uint, files []StagedFile) ([]domain.Attachment, error) {
	if len(files) == 0 {
		return nil, ErrInvalidInput
	}
	attachments := make([]domain.Attachment, 0, len(files))
	for _, f := range files {
		if f.FileName == "" || f.Size < 0 {
			return nil, ErrInvalidInput
		}
		attachments = append(attachments, domain.Attachment{
			UploaderID: uploaderID,
			StorageKey: uuid.NewString(),
			MimeType:   f.MimeType,
			Size:       f.Size,
			FileName:   f.FileName,
		})
	}
	created, err := s.attachmentRepo.CreateBatch(ctx, attachments)
	if err != nil {
		logrus.WithError(err).WithField("uploader_id", uploaderID).Error("Failed to stage attachments")
		return nil, ErrInternalServer
	}
	return created, nil
}

// AddReaction records the (message, user, emoji) triple. Duplicates are
// idempotent no-ops; the message must exist in the named room.
func (s *ChatService) AddReaction(ctx context.Context, userID uint, roomKey string, messageID uint, emoji string) error {
	if emoji == "" {
		return ErrInvalidInput
	}
	if err := s.channels.AuthorizeRoom(ctx, roomKey, userID); err != nil {
		return err
	}
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil || message.RoomKey != roomKey {
		return ErrMessageNotFound
	}

	reaction := &domain.Reaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	if err := s.reactionRepo.Add(ctx, reaction); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).Error("Failed to add reaction")
		return ErrInternalServer
	}
	return nil
}

// RemoveReaction deletes the triple; removing an absent reaction is a no-op.
func (s *ChatService) RemoveReaction(ctx context.Context, userID uint, roomKey string, messageID uint, emoji string) error {
	if emoji == "" {
		return ErrInvalidInput
	}
	if err := s.channels.AuthorizeRoom(ctx, roomKey, userID); err != nil {
		return err
	}
	if err := s.reactionRepo.Remove(ctx, messageID, userID, emoji); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).Error("Failed to remove reaction")
		return ErrInternalServer
	}
	return nil
}

// HistoryMessage is one history entry with its derived reaction sets and
// author display name. Soft-deleted messages keep their place but carry an
// empty body.
type HistoryMessage struct {
	ID          uint                `json:"id"`
	RoomKey     string              `json:"room_key"`
	AuthorID    *uint               `json:"author_id"`
	AuthorName  string              `json:"author_name,omitempty"`
	Body        string              `json:"body"`
	ReplyToID   *uint               `json:"reply_to_id,omitempty"`
	EditedAt    *time.Time          `json:"edited_at,omitempty"`
	Deleted     bool                `json:"deleted"`
	CreatedAt   time.Time           `json:"created_at"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
	Reactions   map[string][]uint   `json:"reactions,omitempty"` // emoji -> user ids
}

// HistoryResult is the aggregated history read: chronological messages, the
// room's read receipts, and the room's total message count.
type HistoryResult struct {
	Messages     []HistoryMessage       `json:"messages"`
	ReadReceipts []domain.ReadWatermark `json:"read_receipts"`
	Total        int64                  `json:"total"`
}

// History returns the most recent limit messages in ascending order together
// with reactions, attachments and read receipts.
func (s *ChatService) History(ctx context.Context, userID uint, roomKey string, limit int) (*HistoryResult, error) {
	if err := s.channels.AuthorizeRoom(ctx, roomKey, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.messageRepo.History(ctx, roomKey, limit)
	if err != nil {
		return nil, ErrInternalServer
	}
	total, err := s.messageRepo.CountByRoom(ctx, roomKey)
	if err != nil {
		return nil, ErrInternalServer
	}

	messageIDs := make([]uint, 0, len(messages))
	authorIDs := make([]uint, 0, len(messages))
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
		if m.AuthorID != nil {
			authorIDs = append(authorIDs, *m.AuthorID)
		}
	}

	reactions, err := s.reactionRepo.FindByMessageIDs(ctx, messageIDs)
	if err != nil {
		return nil, ErrInternalServer
	}
	attachments, err := s.attachmentRepo.FindByMessageIDs(ctx, messageIDs)
	if err != nil {
		return nil, ErrInternalServer
	}
	receipts, err := s.watermarkRepo.ForRoom(ctx, roomKey)
	if err != nil {
		return nil, ErrInternalServer
	}
	authors, err := s.userRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, ErrInternalServer
	}

	reactionsByMessage := make(map[uint]map[string][]uint)
	for _, r := range reactions {
		if reactionsByMessage[r.MessageID] == nil {
			reactionsByMessage[r.MessageID] = make(map[string][]uint)
		}
		reactionsByMessage[r.MessageID][r.Emoji] = append(reactionsByMessage[r.MessageID][r.Emoji], r.UserID)
	}
	attachmentsByMessage := make(map[uint][]domain.Attachment)
	for _, a := range attachments {
		if a.MessageID != nil {
			attachmentsByMessage[*a.MessageID] = append(attachmentsByMessage[*a.MessageID], a)
		}
	}

	entries := make([]HistoryMessage, 0, len(messages))
	for _, m := range messages {
		entry := HistoryMessage{
			ID:          m.ID,
			RoomKey:     m.RoomKey,
			AuthorID:    m.AuthorID,
			Body:        m.PresentableBody(),
			ReplyToID:   m.ReplyToID,
			EditedAt:    m.EditedAt,
			Deleted:     m.Deleted(),
			CreatedAt:   m.CreatedAt,
			Attachments: attachmentsByMessage[m.ID],
			Reactions:   reactionsByMessage[m.ID],
		}
		if m.AuthorID != nil {
			if u, ok := authors[*m.AuthorID]; ok {
				entry.AuthorName = u.Username
			}
		}
		entries = append(entries, entry)
	}

	return &HistoryResult{Messages: entries, ReadReceipts: receipts, Total: total}, nil
}
