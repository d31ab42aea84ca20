package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
)

// ReadService is the read-watermark tracker. Watermark advancement is atomic
// in the database (GREATEST upsert); unread and mention counts are pure
// read-side aggregations recomputed on demand, never incrementally
// maintained.
type ReadService struct {
	watermarkRepo repository.WatermarkRepository
	messageRepo   repository.MessageRepository
	channelRepo   repository.ChannelRepository
	userRepo      repository.UserRepository
	channels      *ChannelService
}

// NewReadService creates a ReadService.
func NewReadService(
	watermarkRepo repository.WatermarkRepository,
	messageRepo repository.MessageRepository,
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	channels *ChannelService,
) *ReadService {
	if watermarkRepo == nil || messageRepo == nil || channelRepo == nil ||
		userRepo == nil || channels == nil {
		panic("all dependencies must be non-nil for ReadService")
	}
	return &ReadService{
		watermarkRepo: watermarkRepo,
		messageRepo:   messageRepo,
		channelRepo:   channelRepo,
		userRepo:      userRepo,
		channels:      channels,
	}
}

// MarkRead advances the user's watermark in the room. Out-of-order calls are
// safe: the stored pointer never decreases.
func (s *ReadService) MarkRead(ctx context.Context, userID uint, roomKey string, messageID uint) (*domain.ReadWatermark, error) {
	if messageID == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.channels.AuthorizeRoom(ctx, roomKey, userID); err != nil {
		return nil, err
	}
	watermark, err := s.watermarkRepo.Advance(ctx, roomKey, userID, messageID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID, "room": roomKey,
		}).Error("Failed to advance watermark")
		return nil, ErrInternalServer
	}
	return watermark, nil
}

// UnreadSummary computes, for every room the user participates in, the count
// of unread messages and the count of unread messages mentioning the user's
// display name. A room with no watermark counts everything; messages by the
// user themselves and soft-deleted messages never count.
func (s *ReadService) UnreadSummary(ctx context.Context, userID uint) (map[string]int64, map[string]int64, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, ErrInternalServer
	}

	watermarks, err := s.watermarkRepo.ForUser(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load watermarks")
		return nil, nil, ErrInternalServer
	}
	lastRead := make(map[string]uint, len(watermarks))
	for _, w := range watermarks {
		lastRead[w.RoomKey] = w.LastReadMessageID
	}

	rooms := make(map[string]struct{})
	channels, err := s.channelRepo.ListForUser(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list channels")
		return nil, nil, ErrInternalServer
	}
	for _, c := range channels {
		rooms[c.RoomKey()] = struct{}{}
	}
	directKeys, err := s.messageRepo.DirectRoomKeys(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list direct rooms")
		return nil, nil, ErrInternalServer
	}
	for _, key := range directKeys {
		rooms[key] = struct{}{}
	}
	for key := range lastRead {
		rooms[key] = struct{}{}
	}

	unread := make(map[string]int64, len(rooms))
	mentions := make(map[string]int64, len(rooms))
	for room := range rooms {
		afterID := lastRead[room]
		count, err := s.messageRepo.CountUnread(ctx, room, userID, afterID)
		if err != nil {
			logCtx.WithError(err).WithField("room", room).Error("Failed to count unread")
			return nil, nil, ErrInternalServer
		}
		unread[room] = count

		var mentionCount int64
		if count > 0 {
			// Mention matching needs the bodies: SQL LIKE cannot tell
			// "@Alice" apart from a mention of "@Alicea".
			messages, err := s.messageRepo.UnreadMessages(ctx, room, userID, afterID)
			if err != nil {
				logCtx.WithError(err).WithField("room", room).Error("Failed to load unread messages")
				return nil, nil, ErrInternalServer
			}
			for _, m := range messages {
				if ContainsMention(m.Body, user.Username) {
					mentionCount++
				}
			}
		}
		mentions[room] = mentionCount
	}

	return unread, mentions, nil
}

// ContainsMention reports whether body contains the token "@<displayName>"
// followed by a word boundary, so a mention of a longer name never counts for
// a user whose name is its prefix.
func ContainsMention(body, displayName string) bool {
	if displayName == "" {
		return false
	}
	token := "@" + displayName
	for offset := 0; offset <= len(body)-len(token); {
		idx := strings.Index(body[offset:], token)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(token)
		if end == len(body) {
			return true
		}
		next, _ := utf8.DecodeRuneInString(body[end:])
		if !unicode.IsLetter(next) && !unicode.IsDigit(next) && next != '_' {
			return true
		}
		offset = offset + idx + 1
	}
	return false
}
