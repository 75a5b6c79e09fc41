package openai

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

// OpenAIProvider talks to any OpenAI-compatible chat-completion API
// (OpenAI, Azure, Groq, Together, vLLM, ...).
type OpenAIProvider struct {
	apiKey    string
	apiBase   string
	modelName string
	client    *http.Client
}

var _ llm.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, apiBase, modelName string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, &apperror.ConfigError{Detail: "OPENAI_API_KEY is required for the openai provider"}
	}
	if apiBase == "" {
		apiBase = "https://api.openai.com/v1"
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		apiKey:    apiKey,
		apiBase:   strings.TrimRight(apiBase, "/"),
		modelName: modelName,
		client: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) ModelName() string {
	return p.modelName
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       p.modelName,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiBase+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &apperror.GenerationError{Provider: "openai", Detail: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperror.GenerationError{Provider: "openai", Detail: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &apperror.GenerationError{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Detail:     string(bodyBytes),
		}
	}

	var genResp chatResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return "", &apperror.GenerationError{Provider: "openai", Detail: "unmarshal response: " + err.Error()}
	}
	if len(genResp.Choices) == 0 {
		return "", &apperror.GenerationError{Provider: "openai", Detail: "empty choices in response"}
	}

	return strings.TrimSpace(genResp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.apiBase+"/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
