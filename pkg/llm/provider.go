package llm

import "context"

// Provider is the contract for any answer-generation backend. Variants are
// interchangeable; the factory picks one from configuration at startup and
// the orchestrator holds it for its lifetime.
type Provider interface {
	// Generate produces a completion for the prompt. Transport failures and
	// non-2xx responses surface as *apperror.GenerationError, never as raw
	// transport errors.
	Generate(ctx context.Context, prompt string) (string, error)

	// HealthCheck reports whether the backend is reachable. It never
	// returns an error; any failure, including timeout, reads as false.
	HealthCheck(ctx context.Context) bool

	// ModelName identifies the configured model (e.g. "llama3.2").
	ModelName() string
}
