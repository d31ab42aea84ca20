package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
)

// GormMessageRepository is the GORM implementation of MessageRepository.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("gorm: create message in room %s: %w", message.RoomKey, err)
	}
	return nil
}

func (r *GormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("gorm: find message by id %d: %w", id, err)
	}
	return &message, nil
}

func (r *GormMessageRepository) Save(ctx context.Context, message *domain.Message) error {
	if err := r.db.WithContext(ctx).Save(message).Error; err != nil {
		return fmt.Errorf("gorm: save message %d: %w", message.ID, err)
	}
	return nil
}

// History fetches the newest limit rows descending by id to bound the query,
// then reverses them so callers read in chronological order.
func (r *GormMessageRepository) History(ctx context.Context, roomKey string, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("room_key = ?", roomKey).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: history of room %s: %w", roomKey, err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *GormMessageRepository) CountByRoom(ctx context.Context, roomKey string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("room_key = ?", roomKey).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count messages of room %s: %w", roomKey, err)
	}
	return count, nil
}

// unreadScope is the shared predicate of CountUnread and UnreadMessages:
// newer than the watermark, not authored by the reader (a removed author
// counts as someone else), not soft-deleted.
func (r *GormMessageRepository) unreadScope(ctx context.Context, roomKey string, userID, afterID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("room_key = ? AND id > ?", roomKey, afterID).
		Where("author_id IS NULL OR author_id <> ?", userID).
		Where("deleted_at IS NULL")
}

func (r *GormMessageRepository) CountUnread(ctx context.Context, roomKey string, userID, afterID uint) (int64, error) {
	var count int64
	err := r.unreadScope(ctx, roomKey, userID, afterID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count unread of room %s for user %d: %w", roomKey, userID, err)
	}
	return count, nil
}

func (r *GormMessageRepository) UnreadMessages(ctx context.Context, roomKey string, userID, afterID uint) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.unreadScope(ctx, roomKey, userID, afterID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: unread messages of room %s for user %d: %w", roomKey, userID, err)
	}
	return messages, nil
}

// DirectRoomKeys finds the direct rooms the user participates in. Keys are
// canonical ("dm:<lo>:<hi>"), so the user id appears either directly after
// the prefix or at the very end; the two LIKE patterns cannot match a longer
// id because of the ":" anchors.
func (r *GormMessageRepository) DirectRoomKeys(ctx context.Context, userID uint) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Distinct("room_key").
		Where("room_key LIKE ?", "dm:%").
		Where("room_key LIKE ? OR room_key LIKE ?",
			fmt.Sprintf("dm:%d:%%", userID), fmt.Sprintf("dm:%%:%d", userID)).
		Pluck("room_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: direct room keys for user %d: %w", userID, err)
	}
	return keys, nil
}
