package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const Topic = "admission"

// AdmissionEvent records the outcome of validating one launch request.
// Reason is empty for accepted requests.
type AdmissionEvent struct {
	ID       uuid.UUID     `json:"id"`
	TaskID   string        `json:"taskID"`
	Accepted bool          `json:"accepted"`
	Reason   string        `json:"reason,omitempty"`
	Took     time.Duration `json:"took"`
}

type Publisher interface {
	Publish(ctx context.Context, e AdmissionEvent) error
}
