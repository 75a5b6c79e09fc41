package contract

import (
	"context"

	"intelidoc-rag-be/internal/entity"

	"github.com/google/uuid"
)

type ChunkRepository interface {
	// StoreChunks writes all chunks for a document in one transaction,
	// assigning ChunkIndex by list position. The whole batch is rejected if
	// any embedding's dimension disagrees with the configured one.
	StoreChunks(ctx context.Context, documentId uuid.UUID, chunks []entity.ChunkInput) (int, error)

	// SimilaritySearch ranks chunks of completed documents by cosine
	// similarity against the query embedding, descending. documentIds, when
	// non-empty, restricts the search to those documents.
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, topK int, documentIds []uuid.UUID) ([]*entity.SearchResult, error)

	CountByDocument(ctx context.Context, documentId uuid.UUID) (int64, error)
}
