// Package tasks defines the asynq task types and payloads shared between the
// scheduler and the worker.
package tasks

import "encoding/json"

const (
	// TypeAttachmentSweep drops pending attachment rows whose upload was
	// never bound to a message.
	TypeAttachmentSweep = "attachment:sweep"
)

// AttachmentSweepPayload carries the staleness threshold for one sweep run.
type AttachmentSweepPayload struct {
	MaxAgeHours int `json:"max_age_hours"`
}

// NewAttachmentSweepTask builds the serialized payload for a sweep task.
func NewAttachmentSweepTask(maxAgeHours int) ([]byte, error) {
	return json.Marshal(AttachmentSweepPayload{MaxAgeHours: maxAgeHours})
}
