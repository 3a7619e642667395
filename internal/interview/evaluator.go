package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwc-ai/hr-agent/internal/ai"

	"go.uber.org/zap"
)

// Recommendation is the closed-set hiring outcome.
type Recommendation string

const (
	RecommendHire   Recommendation = "HIRE"
	RecommendNoHire Recommendation = "NO HIRE"
	RecommendMaybe  Recommendation = "MAYBE"
)

// Evaluation is the holistic outcome produced once per session.
type Evaluation struct {
	SessionID      string         `json:"session_id"`
	CandidateName  string         `json:"candidate_name"`
	Duration       time.Duration  `json:"duration"`
	QuestionsAsked int            `json:"questions_asked"`
	Text           string         `json:"evaluation"`
	Recommendation Recommendation `json:"recommendation"`
	OverallScore   float64        `json:"overall_score"`
	Responses      []Response     `json:"detailed_scores"`
	Questions      []string       `json:"questions"`
	CompletedAt    time.Time      `json:"completed_at"`
}

// Evaluator turns a finished session transcript into an evaluation.
type Evaluator struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(generator ai.Generator, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{generator: generator, logger: logger}
}

// Evaluate produces the final evaluation for the session. A failed generation
// call yields an evaluation string embedding the error; the flow never fails.
func (e *Evaluator) Evaluate(ctx context.Context, sess *Session) *Evaluation {
	responses := sess.Transcript()
	summary := BuildSummary(sess.CandidateName, responses)

	var text string
	if e.generator == nil {
		text = "Evaluation error: no generator configured"
	} else {
		raw, err := e.generator.GenerateContent(ctx, buildEvaluationPrompt(summary))
		if err != nil {
			e.logger.Warn("final evaluation failed", zap.String("session_id", sess.ID), zap.Error(err))
			text = fmt.Sprintf("Evaluation error: %v", err)
		} else {
			text = strings.TrimSpace(raw)
		}
	}

	return &Evaluation{
		SessionID:      sess.ID,
		CandidateName:  sess.CandidateName,
		Duration:       time.Since(sess.StartedAt),
		QuestionsAsked: len(responses),
		Text:           text,
		Recommendation: ExtractRecommendation(text),
		OverallScore:   OverallScore(responses),
		Responses:      responses,
		Questions:      sess.AllQuestions(),
		CompletedAt:    time.Now(),
	}
}

// BuildSummary concatenates the transcript into the summary string fed to the
// evaluation prompt.
func BuildSummary(candidateName string, responses []Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview with %s\n", candidateName)
	fmt.Fprintf(&b, "Questions asked: %d\n\n", len(responses))

	for i, qa := range responses {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, qa.Question)
		fmt.Fprintf(&b, "A%d: %s\n\n", i+1, qa.Answer)
	}

	return b.String()
}

// ExtractRecommendation maps free evaluation text onto the closed label set by
// substring search. The heuristic is lossy on purpose: text containing both
// "hire" and an unrelated "no" lands on MAYBE. Total over all inputs.
func ExtractRecommendation(text string) Recommendation {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "hire") && !strings.Contains(lower, "no"):
		return RecommendHire
	case strings.Contains(lower, "no hire") || strings.Contains(lower, "not hire"):
		return RecommendNoHire
	default:
		return RecommendMaybe
	}
}

// OverallScore averages the per-response criterion totals.
func OverallScore(responses []Response) float64 {
	if len(responses) == 0 {
		return 0
	}

	total := 0
	for _, r := range responses {
		total += r.Scores.Total()
	}
	return float64(total) / float64(len(responses))
}
