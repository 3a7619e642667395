package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestExtractRecommendationClosedSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Recommendation
	}{
		{"You should HIRE this candidate", RecommendHire},
		{"We recommend NO HIRE", RecommendNoHire},
		{"Definitely not hire this person", RecommendNoHire},
		{"Mixed feelings about this one", RecommendMaybe},
		{"", RecommendMaybe},
		// Documented ambiguity: "no" anywhere blocks the HIRE branch even
		// when the verdict is positive.
		{"no technical gaps; hire", RecommendMaybe},
	}

	for _, tt := range tests {
		if got := ExtractRecommendation(tt.input); got != tt.want {
			t.Fatalf("ExtractRecommendation(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractRecommendationIdempotent(t *testing.T) {
	t.Parallel()

	input := "Strong candidate. HIRE."
	first := ExtractRecommendation(input)
	second := ExtractRecommendation(input)
	if first != second {
		t.Fatalf("extraction not idempotent: %q then %q", first, second)
	}
}

func TestEvaluatorEmbedsErrorAndDefaultsToMaybe(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("service unavailable")}
	evaluator := NewEvaluator(gen, zap.NewNop())

	sess := NewSession("sess_1", "Jordan", "", FixedInitialQuestions, time.Hour)
	eval := evaluator.Evaluate(context.Background(), sess)

	if !strings.Contains(eval.Text, "service unavailable") {
		t.Fatalf("evaluation text should embed the error, got %q", eval.Text)
	}
	if eval.Recommendation != RecommendMaybe {
		t.Fatalf("failed evaluation should default to MAYBE, got %q", eval.Recommendation)
	}
}

func TestBuildSummaryIncludesTranscript(t *testing.T) {
	t.Parallel()

	responses := []Response{
		{Question: "Tell me about yourself?", Answer: "I build backends."},
		{Question: "Why here?", Answer: "Interesting problems."},
	}

	summary := BuildSummary("Sam", responses)

	for _, needle := range []string{
		"Interview with Sam",
		"Questions asked: 2",
		"Q1: Tell me about yourself?",
		"A2: Interesting problems.",
	} {
		if !strings.Contains(summary, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, summary)
		}
	}
}

func TestOverallScoreAverages(t *testing.T) {
	t.Parallel()

	responses := []Response{
		{Scores: ScoreSet{10, 10, 10, 10, 10}},
		{Scores: ScoreSet{0, 0, 0, 0, 0}},
	}

	if got := OverallScore(responses); got != 25 {
		t.Fatalf("OverallScore = %v, want 25", got)
	}

	if got := OverallScore(nil); got != 0 {
		t.Fatalf("OverallScore(nil) = %v, want 0", got)
	}
}
