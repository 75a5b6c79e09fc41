package factory

import (
	"log"
	"strings"

	"intelidoc-rag-be/internal/config"
	"intelidoc-rag-be/pkg/llm"
	"intelidoc-rag-be/pkg/llm/gemini"
	"intelidoc-rag-be/pkg/llm/ollama"
	"intelidoc-rag-be/pkg/llm/openai"
)

// NewLLMProvider builds the generation provider selected by configuration.
// Unknown provider names fall back to ollama with a warning; a selected
// remote provider with a missing credential fails here, before any I/O.
func NewLLMProvider(cfg config.AIConfig) (llm.Provider, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
	case "gemini":
		return gemini.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		log.Printf("[WARN] Unknown LLM provider '%s', falling back to ollama", cfg.LLMProvider)
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
