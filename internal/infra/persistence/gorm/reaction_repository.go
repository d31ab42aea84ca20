package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// GormReactionRepository is the GORM implementation of ReactionRepository.
type GormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a GormReactionRepository.
func NewGormReactionRepository(db *gorm.DB) *GormReactionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormReactionRepository")
	}
	return &GormReactionRepository{db: db}
}

// Add inserts with ON CONFLICT DO NOTHING; the unique index on
// (message_id, user_id, emoji) absorbs duplicates, so concurrent identical
// toggles are safe no-ops.
func (r *GormReactionRepository) Add(ctx context.Context, reaction *domain.Reaction) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(reaction).Error
	if err != nil {
		return fmt.Errorf("gorm: add reaction %s to message %d by user %d: %w",
			reaction.Emoji, reaction.MessageID, reaction.UserID, err)
	}
	return nil
}

// Remove deletes the triple; zero affected rows means the reaction was
// already absent, which is not an error.
func (r *GormReactionRepository) Remove(ctx context.Context, messageID, userID uint, emoji string) error {
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&domain.Reaction{}).Error
	if err != nil {
		return fmt.Errorf("gorm: remove reaction %s from message %d by user %d: %w",
			emoji, messageID, userID, err)
	}
	return nil
}

func (r *GormReactionRepository) FindByMessageIDs(ctx context.Context, messageIDs []uint) ([]domain.Reaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var reactions []domain.Reaction
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("id ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find reactions by message ids: %w", err)
	}
	return reactions, nil
}
