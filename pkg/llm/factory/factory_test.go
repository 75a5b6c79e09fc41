package factory

import (
	"errors"
	"testing"

	"intelidoc-rag-be/internal/apperror"
	"intelidoc-rag-be/internal/config"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.AIConfig
		wantModel string
		wantErr   error
	}{
		{
			name:      "ollama",
			cfg:       config.AIConfig{LLMProvider: "ollama", OllamaModel: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai with key",
			cfg:       config.AIConfig{LLMProvider: "openai", OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:    "openai without key fails fast",
			cfg:     config.AIConfig{LLMProvider: "openai"},
			wantErr: apperror.ErrConfiguration,
		},
		{
			name:      "gemini with key",
			cfg:       config.AIConfig{LLMProvider: "gemini", GeminiAPIKey: "key", GeminiModel: "gemini-2.0-flash-exp"},
			wantModel: "gemini-2.0-flash-exp",
		},
		{
			name:    "gemini without key fails fast",
			cfg:     config.AIConfig{LLMProvider: "gemini"},
			wantErr: apperror.ErrConfiguration,
		},
		{
			name:      "unknown provider falls back to ollama",
			cfg:       config.AIConfig{LLMProvider: "mystery", OllamaModel: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "case insensitive selection",
			cfg:       config.AIConfig{LLMProvider: "OLLAMA", OllamaModel: "llama3.2"},
			wantModel: "llama3.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewLLMProvider(tt.cfg)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want kind %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider.ModelName() != tt.wantModel {
				t.Errorf("ModelName() = %q, want %q", provider.ModelName(), tt.wantModel)
			}
		})
	}
}
