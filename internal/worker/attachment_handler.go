package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/repository"
	"github.com/JBSiena/PulseChat/internal/tasks"
)

const defaultSweepMaxAgeHours = 24

// AttachmentSweepHandler drops staged attachments that were never bound to a
// message. Bound attachments are never touched; they belong to the message
// and go away only with a channel delete.
type AttachmentSweepHandler struct {
	attachmentRepo repository.AttachmentRepository
}

// NewAttachmentSweepHandler creates the handler.
func NewAttachmentSweepHandler(attachmentRepo repository.AttachmentRepository) *AttachmentSweepHandler {
	if attachmentRepo == nil {
		panic("AttachmentRepository cannot be nil for AttachmentSweepHandler")
	}
	return &AttachmentSweepHandler{attachmentRepo: attachmentRepo}
}

// ProcessTask implements asynq.Handler.
func (h *AttachmentSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.AttachmentSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A malformed payload will never succeed; skip retries.
		return fmt.Errorf("unmarshal sweep payload: %v: %w", err, asynq.SkipRetry)
	}
	maxAge := payload.MaxAgeHours
	if maxAge <= 0 {
		maxAge = defaultSweepMaxAgeHours
	}

	cutoff := time.Now().Add(-time.Duration(maxAge) * time.Hour)
	dropped, err := h.attachmentRepo.DeleteStalePending(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Attachment sweep failed")
		return err
	}

	if dropped > 0 {
		logCtx.WithFields(logrus.Fields{"dropped": dropped, "cutoff": cutoff}).Info("Swept stale pending attachments")
	} else {
		logCtx.Debug("Attachment sweep found nothing to drop")
	}
	return nil
}
