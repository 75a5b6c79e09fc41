package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	PageNumber *int
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}

// ChunkInput is one unit of a bulk chunk write. ChunkIndex is assigned by list
// position, not by the caller.
type ChunkInput struct {
	Content    string
	Embedding  []float32
	PageNumber *int
	Metadata   map[string]interface{}
}

// SearchResult is a retrieval hit. Never persisted, produced fresh per query.
// SimilarityScore is cosine similarity (1 - cosine distance); with normalized
// embeddings it lands in [0, 1], 1.0 meaning identical.
type SearchResult struct {
	ChunkId          uuid.UUID
	DocumentId       uuid.UUID
	DocumentFilename string
	Content          string
	PageNumber       *int
	SimilarityScore  float64
}
