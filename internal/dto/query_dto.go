package dto

import "github.com/google/uuid"

type QueryRequest struct {
	Query       string      `json:"query" validate:"required,min=1,max=2000"`
	TopK        int         `json:"top_k" validate:"omitempty,gte=1,lte=20"`
	DocumentIds []uuid.UUID `json:"document_ids,omitempty"`
}

type SearchResultResponse struct {
	ChunkId          uuid.UUID `json:"chunk_id"`
	DocumentId       uuid.UUID `json:"document_id"`
	DocumentFilename string    `json:"document_filename"`
	Content          string    `json:"content"`
	PageNumber       *int      `json:"page_number,omitempty"`
	SimilarityScore  float64   `json:"similarity_score"`
}

type QueryResponse struct {
	Query     string                  `json:"query"`
	Answer    string                  `json:"answer"`
	Sources   []*SearchResultResponse `json:"sources"`
	ModelUsed string                  `json:"model_used"`
}

type SearchResponse struct {
	Query        string                  `json:"query"`
	Results      []*SearchResultResponse `json:"results"`
	TotalResults int                     `json:"total_results"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	LLM            string `json:"llm"`
	Embedding      string `json:"embedding"`
	Docling        string `json:"docling"`
	EmbeddingModel string `json:"embedding_model"`
}
