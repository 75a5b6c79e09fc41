package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
}

type DocumentResponse struct {
	Id               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	PageCount        *int      `json:"page_count,omitempty"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	ChunkCount       int64     `json:"chunk_count"`
}

type DocumentListResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
}

// IngestJobMessage is the payload queued for the background ingestion worker.
type IngestJobMessage struct {
	DocumentId       uuid.UUID `json:"document_id"`
	FilePath         string    `json:"file_path"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
}
