// Package ai defines the narrow contracts this application consumes from
// language-model providers. Structured data is always recovered from free
// text by the callers; nothing here enforces a response schema.
package ai

import "context"

// Generator produces a free-text completion for a free-text prompt.
// Implementations may fail or time out; callers own the fallback policy.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Embedder converts texts into dense vectors for similarity scoring.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
