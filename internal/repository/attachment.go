package repository

import (
	"context"
	"time"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// AttachmentRepository defines storage of attachment references.
type AttachmentRepository interface {
	// CreateBatch inserts pending attachment rows (message id null).
	CreateBatch(ctx context.Context, attachments []domain.Attachment) ([]domain.Attachment, error)

	// Bind associates attachments with a message in one conditional update:
	// the rows affected are exactly those with id in ids, uploaded by
	// uploaderID and still pending. It returns the rows that were actually
	// bound; callers must treat that subset as authoritative. Under
	// concurrent binds for the same attachment exactly one caller wins.
	Bind(ctx context.Context, ids []uint, messageID, uploaderID uint) ([]domain.Attachment, error)

	// FindByMessageIDs returns the attachments bound to any of the messages.
	FindByMessageIDs(ctx context.Context, messageIDs []uint) ([]domain.Attachment, error)

	// DeleteStalePending removes pending rows created before cutoff and
	// returns how many were dropped. Run by the background sweep.
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
