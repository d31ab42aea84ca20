package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository"
)

// GormChannelRepository is the GORM implementation of ChannelRepository.
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a GormChannelRepository.
func NewGormChannelRepository(db *gorm.DB) *GormChannelRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChannelRepository")
	}
	return &GormChannelRepository{db: db}
}

// CreateWithOwner inserts the channel and its owner membership atomically.
func (r *GormChannelRepository) CreateWithOwner(ctx context.Context, channel *domain.Channel) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(channel).Error; err != nil {
			return err
		}
		member := domain.ChannelMember{
			ChannelID: channel.ID,
			UserID:    channel.OwnerID,
			Role:      domain.ChannelRoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create channel %q with owner %d: %w", channel.Title, channel.OwnerID, err)
	}
	return nil
}

func (r *GormChannelRepository) FindByID(ctx context.Context, id uint) (*domain.Channel, error) {
	var channel domain.Channel
	err := r.db.WithContext(ctx).First(&channel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChannelNotFound
		}
		return nil, fmt.Errorf("gorm: find channel by id %d: %w", id, err)
	}
	return &channel, nil
}

func (r *GormChannelRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Channel, error) {
	var channels []domain.Channel
	err := r.db.WithContext(ctx).
		Joins("JOIN channel_members ON channel_members.channel_id = channels.id").
		Where("channel_members.user_id = ?", userID).
		Order("channels.id ASC").
		Find(&channels).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list channels for user %d: %w", userID, err)
	}
	return channels, nil
}

// DeleteCascade removes the channel and everything hanging off its room in
// one transaction: memberships, messages (with their reactions and attachment
// links) and read watermarks.
func (r *GormChannelRepository) DeleteCascade(ctx context.Context, channelID uint, roomKey string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var messageIDs []uint
		if err := tx.Model(&domain.Message{}).
			Where("room_key = ?", roomKey).
			Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).
				Delete(&domain.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id IN ?", messageIDs).
				Delete(&domain.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_key = ?", roomKey).
				Delete(&domain.Message{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("room_key = ?", roomKey).
			Delete(&domain.ReadWatermark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", channelID).
			Delete(&domain.ChannelMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Channel{}, channelID).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete channel %d cascade: %w", channelID, err)
	}
	return nil
}

func (r *GormChannelRepository) RoleOf(ctx context.Context, channelID, userID uint) (domain.ChannelRole, error) {
	var member domain.ChannelMember
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrMemberNotFound
		}
		return "", fmt.Errorf("gorm: role of user %d in channel %d: %w", userID, channelID, err)
	}
	return member.Role, nil
}

func (r *GormChannelRepository) AddMember(ctx context.Context, member *domain.ChannelMember) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: add member %d to channel %d: %w", member.UserID, member.ChannelID, err)
	}
	return nil
}

func (r *GormChannelRepository) RemoveMember(ctx context.Context, channelID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&domain.ChannelMember{})
	if result.Error != nil {
		return fmt.Errorf("gorm: remove member %d from channel %d: %w", userID, channelID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrMemberNotFound
	}
	return nil
}

func (r *GormChannelRepository) UpdateMemberRole(ctx context.Context, channelID, userID uint, role domain.ChannelRole) error {
	// No RowsAffected check here: MySQL reports zero affected rows for a
	// same-value update, and callers verify the membership via RoleOf first.
	err := r.db.WithContext(ctx).Model(&domain.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Update("role", role).Error
	if err != nil {
		return fmt.Errorf("gorm: update role of member %d in channel %d: %w", userID, channelID, err)
	}
	return nil
}

func (r *GormChannelRepository) ListMembers(ctx context.Context, channelID uint) ([]domain.ChannelMember, error) {
	var members []domain.ChannelMember
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list members of channel %d: %w", channelID, err)
	}
	return members, nil
}
