package embedding

import (
	"context"
	"math"
)

// Provider generates fixed-dimension text embeddings. A single instance is
// shared process-wide; implementations must be safe for concurrent use.
type Provider interface {
	// EmbedDocuments embeds texts for storage, batched for throughput.
	// The result has one vector per input, each of exactly Dimension() floats.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a search query. Some model families preprocess
	// queries differently from documents (task type, prefixing).
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension is the vector size every call returns, fixed for the
	// lifetime of the process.
	Dimension() int

	// HealthCheck reports whether the backend responds and returns vectors
	// of the expected dimension. Never panics, never returns an error.
	HealthCheck(ctx context.Context) bool
}

// normalizeVector scales a vector to unit length. Cosine distance ranking in
// pgvector expects normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
