package embedder

import (
	"context"
	"fmt"
)

// Client defines the interface for text embedding operations.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common configuration for embedding clients.
type Config struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	BatchSize  int    `json:"batch_size,omitempty"`
	BaseURL    string `json:"base_url,omitempty"` // Custom base URL for OpenAI-compatible services
}

// UnavailableError indicates that the embedding provider could not be
// reached or returned a failure. Callers that treat embeddings as optional
// can detect it with errors.As and degrade instead of aborting.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("embedding provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
