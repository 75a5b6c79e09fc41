package apperror

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Component boundaries translate transport-level failures into
// exactly one of these so callers can branch with errors.Is.
var (
	ErrExtraction        = errors.New("extraction failed")
	ErrGeneration        = errors.New("generation failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrNotFound          = errors.New("not found")
)

// ExtractionError reports a failure from the document extraction service.
type ExtractionError struct {
	Detail string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document processing failed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("document processing failed: %s", e.Detail)
}

func (e *ExtractionError) Unwrap() error { return ErrExtraction }

// GenerationError reports a transport error or non-success response from an
// LLM provider. StatusCode is 0 for connection-level failures.
type GenerationError struct {
	Provider   string
	StatusCode int
	Detail     string
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm generation failed (%s, status %d): %s", e.Provider, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("could not reach llm provider %s: %s", e.Provider, e.Detail)
}

func (e *GenerationError) Unwrap() error { return ErrGeneration }

// DimensionError reports an embedding whose length disagrees with the
// configured dimension. The offending write is rejected as a whole.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// ConfigError reports a missing credential or misconfigured provider.
// Raised at construction time, before any network I/O.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Detail }

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// NotFoundError reports a read of a nonexistent resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Resource, e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
