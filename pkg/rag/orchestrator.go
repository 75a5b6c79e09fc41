package rag

import (
	"context"
	"fmt"
	"time"

	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/pkg/logger"
	"intelidoc-rag-be/internal/repository/contract"
	"intelidoc-rag-be/pkg/embedding"
	"intelidoc-rag-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// QueryResult is one answered question: the generated answer plus the
// retrieval hits it was grounded on.
type QueryResult struct {
	Answer    string
	Sources   []*entity.SearchResult
	ModelUsed string
}

// Orchestrator wires retrieval and generation into the answer pipeline:
// embed the question, rank stored chunks, build a grounded prompt, generate.
type Orchestrator struct {
	embedder     embedding.Provider
	generator    llm.Provider
	providerName string
	chunkRepo    contract.ChunkRepository
	defaultTopK  int
	queryCache   *cache.Cache
	logger       logger.ILogger
}

func NewOrchestrator(
	embedder embedding.Provider,
	generator llm.Provider,
	providerName string,
	chunkRepo contract.ChunkRepository,
	defaultTopK int,
	log logger.ILogger,
) *Orchestrator {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Orchestrator{
		embedder:     embedder,
		generator:    generator,
		providerName: providerName,
		chunkRepo:    chunkRepo,
		defaultTopK:  defaultTopK,
		// Repeated questions skip the embedding round-trip for an hour.
		queryCache: cache.New(1*time.Hour, 10*time.Minute),
		logger:     log,
	}
}

// Query answers a question grounded on stored chunks. When retrieval returns
// nothing, the canned no-answer message is returned and the generation
// provider is not called.
func (o *Orchestrator) Query(ctx context.Context, question string, topK int, documentIds []uuid.UUID) (*QueryResult, error) {
	results, err := o.retrieve(ctx, question, topK, documentIds)
	if err != nil {
		return nil, err
	}

	modelUsed := fmt.Sprintf("%s:%s", o.providerName, o.generator.ModelName())

	if len(results) == 0 {
		o.logger.Info("rag", "No relevant chunks found, skipping generation", map[string]interface{}{
			"question_length": len(question),
		})
		return &QueryResult{
			Answer:    NoAnswerMessage,
			Sources:   []*entity.SearchResult{},
			ModelUsed: modelUsed,
		}, nil
	}

	prompt := buildPrompt(buildContext(results), question)

	answer, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		o.logger.Error("rag", "Answer generation failed", map[string]interface{}{
			"provider": o.providerName,
			"error":    err.Error(),
		})
		return nil, err
	}

	return &QueryResult{
		Answer:    answer,
		Sources:   results,
		ModelUsed: modelUsed,
	}, nil
}

// SearchOnly runs retrieval without generation.
func (o *Orchestrator) SearchOnly(ctx context.Context, question string, topK int, documentIds []uuid.UUID) ([]*entity.SearchResult, error) {
	return o.retrieve(ctx, question, topK, documentIds)
}

func (o *Orchestrator) retrieve(ctx context.Context, question string, topK int, documentIds []uuid.UUID) ([]*entity.SearchResult, error) {
	if topK <= 0 {
		topK = o.defaultTopK
	}

	queryEmbedding, err := o.embedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := o.chunkRepo.SimilaritySearch(ctx, queryEmbedding, topK, documentIds)
	if err != nil {
		o.logger.Error("rag", "Similarity search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	o.logger.Debug("rag", "Retrieved chunks", map[string]interface{}{
		"count": len(results),
		"top_k": topK,
	})

	return results, nil
}

func (o *Orchestrator) embedQuery(ctx context.Context, question string) ([]float32, error) {
	if cached, found := o.queryCache.Get(question); found {
		return cached.([]float32), nil
	}

	vec, err := o.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	o.queryCache.Set(question, vec, cache.DefaultExpiration)
	return vec, nil
}

// HealthCheckLLM reports whether the generation backend is reachable.
func (o *Orchestrator) HealthCheckLLM(ctx context.Context) bool {
	return o.generator.HealthCheck(ctx)
}

// HealthCheckEmbedder reports whether the embedding backend is reachable and
// returning vectors of the expected dimension.
func (o *Orchestrator) HealthCheckEmbedder(ctx context.Context) bool {
	return o.embedder.HealthCheck(ctx)
}

// ProviderName reports the configured generation provider identifier.
func (o *Orchestrator) ProviderName() string {
	return o.providerName
}
