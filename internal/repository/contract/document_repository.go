package contract

import (
	"context"
	"time"

	"intelidoc-rag-be/internal/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error

	// FindByID returns (nil, nil) when the document does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)

	// List returns one page of documents ordered newest-first, plus the total
	// count. status filters when non-empty.
	List(ctx context.Context, page, pageSize int, status string) ([]*entity.Document, int64, error)

	// UpdateStatus is a partial update: pageCount and errorMessage are only
	// written when provided. A missing id is a silent no-op, not an error.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, pageCount *int, errorMessage string) error

	// Delete reports whether a row was actually removed. Chunks cascade.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkStaleProcessingFailed fails documents stuck in processing longer
	// than the threshold. Used by the startup reconciliation sweep.
	MarkStaleProcessingFailed(ctx context.Context, olderThan time.Duration) (int64, error)
}
