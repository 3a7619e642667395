package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwc-ai/hr-agent/internal/ai"

	"go.uber.org/zap"
)

// Scorer scores a single answer with the generation collaborator. The model
// output is parsed positionally; any failure degrades to the neutral vector.
type Scorer struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewScorer builds a Scorer.
func NewScorer(generator ai.Generator, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{generator: generator, logger: logger}
}

// Score evaluates one answer and returns the recorded response. It never
// returns an error: scoring failures are embedded in the score text and the
// neutral vector is recorded instead.
func (s *Scorer) Score(ctx context.Context, question, answer string) Response {
	resp := Response{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now(),
	}

	if s.generator == nil {
		resp.ScoreText = "Scoring error: no generator configured"
		resp.Scores = NeutralScores()
		return resp
	}

	raw, err := s.generator.GenerateContent(ctx, buildScoringPrompt(question, answer))
	if err != nil {
		s.logger.Warn("scoring call failed, recording neutral scores", zap.Error(err))
		resp.ScoreText = fmt.Sprintf("Scoring error: %v", err)
		resp.Scores = NeutralScores()
		return resp
	}

	resp.ScoreText = strings.TrimSpace(raw)
	resp.Scores = ParseScores(resp.ScoreText)
	return resp
}
