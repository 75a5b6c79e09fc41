package dto

import "github.com/google/uuid"

// DocumentStatusEvent is broadcast to WebSocket subscribers (and NATS, when
// configured) at every ingestion checkpoint. Delivery is best-effort,
// at-most-once; late joiners get no replay.
type DocumentStatusEvent struct {
	Type       string    `json:"type"`
	DocumentId uuid.UUID `json:"document_id"`
	Status     string    `json:"status"`
	Filename   string    `json:"filename"`
	Progress   int       `json:"progress"`
	Message    string    `json:"message,omitempty"`
	ChunkCount int       `json:"chunk_count,omitempty"`
	Error      string    `json:"error,omitempty"`
}
