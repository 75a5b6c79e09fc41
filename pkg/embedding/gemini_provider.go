package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"intelidoc-rag-be/internal/apperror"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// GeminiProvider embeds text through the Gemini embedContent API. Documents
// and queries use distinct task types, which changes the model's
// preprocessing on the server side.
type GeminiProvider struct {
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

func NewGeminiProvider(apiKey, model string, dimension int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, &apperror.ConfigError{Detail: "GEMINI_API_KEY is required for the gemini embedding provider"}
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		dimension: dimension,
		client: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}, nil
}

type geminiEmbedPart struct {
	Text string `json:"text"`
}

type geminiEmbedContent struct {
	Parts []geminiEmbedPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string             `json:"model"`
	Content  geminiEmbedContent `json:"content"`
	TaskType string             `json:"taskType"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

func (p *GeminiProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	// The embedContent endpoint takes one text per call; Gemini's batch
	// endpoint is not universally available, so documents go sequentially.
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.embed(ctx, text, taskTypeDocument)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (p *GeminiProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return p.embed(ctx, text, taskTypeQuery)
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	vec, err := p.EmbedQuery(ctx, "health check")
	return err == nil && len(vec) == p.dimension
}

func (p *GeminiProvider) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	payload, err := json.Marshal(geminiEmbedRequest{
		Model: "models/" + p.model,
		Content: geminiEmbedContent{
			Parts: []geminiEmbedPart{{Text: text}},
		},
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent", p.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embedding error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var embedResp geminiEmbedResponse
	if err := json.Unmarshal(bodyBytes, &embedResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	values := embedResp.Embedding.Values
	if len(values) != p.dimension {
		return nil, &apperror.DimensionError{Want: p.dimension, Got: len(values)}
	}
	return normalizeVector(values), nil
}
