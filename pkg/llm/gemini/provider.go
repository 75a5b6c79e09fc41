package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"intelidoc-rag-be/internal/apperror"
	"intelidoc-rag-be/pkg/llm"
)

type GeminiProvider struct {
	apiKey    string
	apiBase   string
	modelName string
	client    *http.Client
}

var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, &apperror.ConfigError{Detail: "GEMINI_API_KEY is required for the gemini provider"}
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash-exp"
	}
	return &GeminiProvider{
		apiKey:    apiKey,
		apiBase:   "https://generativelanguage.googleapis.com/v1beta",
		modelName: modelName,
		client: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) ModelName() string {
	return p.modelName
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.apiBase, p.modelName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &apperror.GenerationError{Provider: "gemini", Detail: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperror.GenerationError{Provider: "gemini", Detail: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &apperror.GenerationError{
			Provider:   "gemini",
			StatusCode: resp.StatusCode,
			Detail:     string(bodyBytes),
		}
	}

	var genResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return "", &apperror.GenerationError{Provider: "gemini", Detail: "unmarshal response: " + err.Error()}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), nil
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.apiBase+"/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
