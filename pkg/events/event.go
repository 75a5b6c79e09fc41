package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_STATUS_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic implementation for ad-hoc events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const DocumentStatusChangedType = "DOCUMENT_STATUS_CHANGED"

// NewDocumentStatusChanged builds the event emitted at every ingestion
// transition (pending, processing with progress checkpoints, completed,
// failed). Error is empty except on failure.
func NewDocumentStatusChanged(documentId uuid.UUID, status, filename string, progress int, message, errorDetail string) BaseEvent {
	data := map[string]interface{}{
		"document_id": documentId.String(),
		"status":      status,
		"filename":    filename,
		"progress":    progress,
	}
	if message != "" {
		data["message"] = message
	}
	if errorDetail != "" {
		data["error"] = errorDetail
	}
	return BaseEvent{
		Type:       DocumentStatusChangedType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
