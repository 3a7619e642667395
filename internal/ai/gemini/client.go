// Package gemini implements the ai.Generator and ai.Embedder contracts on top
// of the Google GenAI client for the Gemini API backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwc-ai/hr-agent/internal/logger"
	"github.com/fwc-ai/hr-agent/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultMaxRetries     = 2
	defaultMaxLogLength   = 200

	retryBaseDelay = 2 * time.Second
)

var wait = utils.WaitFor

// modelCaller is the slice of *genai.Models this package relies on.
// Narrowed to an interface so tests can substitute a fake.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions with a bounded retry on temporary API failures.
type Generator struct {
	models         modelCaller
	model          string
	embeddingModel string
	maxRetries     int
	maxLogLen      int
	logger         *zap.Logger
}

// Config carries the provider settings resolved from the application config.
type Config struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	MaxLogLength   int
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	embeddingModel := strings.TrimSpace(cfg.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		models:         client.Models,
		model:          model,
		embeddingModel: embeddingModel,
		maxRetries:     maxRetries,
		maxLogLen:      maxLogLen,
		logger:         logger.WithCommonFields(log, "gemini", model),
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the joined textual response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", len(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err == nil {
			output := joinResponseText(resp)
			if output == "" {
				return "", errors.New("gemini api returned empty response")
			}

			g.logger.Debug("gemini generate content response",
				zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}

		lastErr = err
		if !isTemporary(err) || attempt == g.maxRetries {
			break
		}

		delay := time.Duration(attempt) * retryBaseDelay
		g.logger.Warn("temporary gemini error, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// EmbedTexts returns one embedding vector per input text, preserving order.
func (g *Generator) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini generator is not initialized")
	}
	if len(texts) == 0 {
		return nil, errors.New("at least one text is required")
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	resp, err := g.models.EmbedContent(ctx, g.embeddingModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, errors.New("gemini api returned an empty embedding")
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

// Model reports the generation model in use.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func joinResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// isTemporary reports whether the API error is worth another attempt.
func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}

	return apiErr.Code >= http.StatusInternalServerError
}
