package service

import (
	"context"
	"time"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/pkg/rag"

	"gorm.io/gorm"
)

// HealthChecker reports reachability of an external collaborator.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	Search(ctx context.Context, req *dto.QueryRequest) (*dto.SearchResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type queryService struct {
	orchestrator   *rag.Orchestrator
	extractor      HealthChecker
	db             *gorm.DB
	embeddingModel string
}

func NewQueryService(orchestrator *rag.Orchestrator, extractor HealthChecker, db *gorm.DB, embeddingModel string) IQueryService {
	return &queryService{
		orchestrator:   orchestrator,
		extractor:      extractor,
		db:             db,
		embeddingModel: embeddingModel,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	result, err := s.orchestrator.Query(ctx, req.Query, req.TopK, req.DocumentIds)
	if err != nil {
		return nil, err
	}

	return &dto.QueryResponse{
		Query:     req.Query,
		Answer:    result.Answer,
		Sources:   toSearchResultResponses(result.Sources),
		ModelUsed: result.ModelUsed,
	}, nil
}

func (s *queryService) Search(ctx context.Context, req *dto.QueryRequest) (*dto.SearchResponse, error) {
	results, err := s.orchestrator.SearchOnly(ctx, req.Query, req.TopK, req.DocumentIds)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{
		Query:        req.Query,
		Results:      toSearchResultResponses(results),
		TotalResults: len(results),
	}, nil
}

// Health probes each collaborator with a short deadline. The overall status is
// healthy only when everything answers.
func (s *queryService) Health(ctx context.Context) *dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res := &dto.HealthResponse{
		Status:         "healthy",
		Database:       "healthy",
		LLM:            "healthy",
		Embedding:      "healthy",
		Docling:        "healthy",
		EmbeddingModel: s.embeddingModel,
	}

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		res.Database = "unhealthy"
	}
	if !s.orchestrator.HealthCheckLLM(ctx) {
		res.LLM = "unhealthy"
	}
	if !s.orchestrator.HealthCheckEmbedder(ctx) {
		res.Embedding = "unhealthy"
	}
	if s.extractor == nil || !s.extractor.HealthCheck(ctx) {
		res.Docling = "unhealthy"
	}

	if res.Database != "healthy" || res.LLM != "healthy" || res.Embedding != "healthy" || res.Docling != "healthy" {
		res.Status = "degraded"
	}
	return res
}

func toSearchResultResponses(results []*entity.SearchResult) []*dto.SearchResultResponse {
	responses := make([]*dto.SearchResultResponse, 0, len(results))
	for _, res := range results {
		responses = append(responses, &dto.SearchResultResponse{
			ChunkId:          res.ChunkId,
			DocumentId:       res.DocumentId,
			DocumentFilename: res.DocumentFilename,
			Content:          res.Content,
			PageNumber:       res.PageNumber,
			SimilarityScore:  res.SimilarityScore,
		})
	}
	return responses
}
