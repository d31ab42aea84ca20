package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// GormAttachmentRepository is the GORM implementation of AttachmentRepository.
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a GormAttachmentRepository.
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAttachmentRepository")
	}
	return &GormAttachmentRepository{db: db}
}

func (r *GormAttachmentRepository) CreateBatch(ctx context.Context, attachments []domain.Attachment) ([]domain.Attachment, error) {
	if len(attachments) == 0 {
		return attachments, nil
	}
	if err := r.db.WithContext(ctx).Create(&attachments).Error; err != nil {
		return nil, fmt.Errorf("gorm: create attachment batch (size %d): %w", len(attachments), err)
	}
	return attachments, nil
}

// Bind is the race-safety boundary for attachment assignment: one conditional
// UPDATE whose WHERE clause admits only rows that are owned by uploaderID and
// still pending. Concurrent binds for the same attachment resolve in the
// database; losers simply affect zero rows.
func (r *GormAttachmentRepository) Bind(ctx context.Context, ids []uint, messageID, uploaderID uint) ([]domain.Attachment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Attachment{}).
		Where("id IN ? AND uploader_id = ? AND message_id IS NULL", ids, uploaderID).
		Update("message_id", messageID).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: bind attachments to message %d: %w", messageID, err)
	}

	var bound []domain.Attachment
	err = r.db.WithContext(ctx).
		Where("id IN ? AND message_id = ?", ids, messageID).
		Order("id ASC").
		Find(&bound).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: load bound attachments of message %d: %w", messageID, err)
	}
	return bound, nil
}

func (r *GormAttachmentRepository) FindByMessageIDs(ctx context.Context, messageIDs []uint) ([]domain.Attachment, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find attachments by message ids: %w", err)
	}
	return attachments, nil
}

func (r *GormAttachmentRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("message_id IS NULL AND created_at < ?", cutoff).
		Delete(&domain.Attachment{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete stale pending attachments: %w", result.Error)
	}
	return result.RowsAffected, nil
}
