package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	s.calls++
	return s.output, s.err
}

func assertQuestionContract(t *testing.T, questions []string) {
	t.Helper()

	if len(questions) != QuestionCount {
		t.Fatalf("expected exactly %d questions, got %d", QuestionCount, len(questions))
	}
	for i, q := range questions {
		if utf8.RuneCountInString(q) > MaxQuestionLength {
			t.Fatalf("question %d exceeds %d characters: %q", i, MaxQuestionLength, q)
		}
	}
}

func TestSupplierEmptyJobDescriptionYieldsFixedBaseline(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: "1. should not be used"}
	supplier := NewSupplier(gen, zap.NewNop())

	questions := supplier.Initial(context.Background(), "   ")
	assertQuestionContract(t, questions)

	for i, q := range questions {
		if q != FixedInitialQuestions[i] {
			t.Fatalf("question %d = %q, want fixed baseline %q", i, q, FixedInitialQuestions[i])
		}
	}

	if gen.calls != 0 {
		t.Fatalf("generator must not be called for empty job description, got %d calls", gen.calls)
	}
}

func TestSupplierModelPolicyParsesNumberedList(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: strings.Join([]string{
		"Here are the questions:",
		"1. What is your experience with Go?",
		"2. *Describe a race condition you fixed*",
		"3. \"How do you test concurrent code?\"",
		"4. Explain channels versus mutexes",
		"5. Why this team?",
	}, "\n")}
	supplier := NewSupplier(gen, zap.NewNop())

	questions := supplier.Initial(context.Background(), "Backend engineer, Go services")
	assertQuestionContract(t, questions)

	if questions[0] != "What is your experience with Go?" {
		t.Fatalf("unexpected first question: %q", questions[0])
	}
	if strings.ContainsAny(questions[1], `*"`) {
		t.Fatalf("decorative punctuation not stripped: %q", questions[1])
	}
}

func TestSupplierFallsBackToHeuristicOnModelFailure(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("quota exhausted")}
	supplier := NewSupplier(gen, zap.NewNop())

	jd := strings.Join([]string{
		"Key Responsibilities:",
		"Develop firmware for embedded targets",
		"Experience with ARM assembly",
		"Debug production issues with GDB",
	}, "\n")

	questions := supplier.Initial(context.Background(), jd)
	assertQuestionContract(t, questions)
}

func TestHeuristicQuestionsTemplating(t *testing.T) {
	t.Parallel()

	jd := strings.Join([]string{
		"Requirements:",
		"Experience with distributed systems at scale",
		"Develop high-throughput ingestion pipelines",
	}, "\n")

	questions := HeuristicQuestions(jd)
	assertQuestionContract(t, questions)

	if questions[0] != "What is your experience with distributed systems at scale?" {
		t.Fatalf("unexpected templated question: %q", questions[0])
	}
	if !strings.HasPrefix(questions[1], "Can you describe your experience:") {
		t.Fatalf("unexpected templated question: %q", questions[1])
	}
}

func TestHeuristicQuestionsPadsAndTruncates(t *testing.T) {
	t.Parallel()

	long := "Requirements:\n" + "Develop " + strings.Repeat("very ", 40) + "long systems"
	questions := HeuristicQuestions(long)
	assertQuestionContract(t, questions)

	if !strings.HasSuffix(questions[0], "...") {
		t.Fatalf("overlong question not truncated with ellipsis: %q", questions[0])
	}

	padded := 0
	for _, q := range questions {
		if q == fallbackQuestion {
			padded++
		}
	}
	if padded == 0 {
		t.Fatal("expected padding with the fallback question")
	}
}

func TestNormalizeQuestionsTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", MaxQuestionLength+10)
	questions := normalizeQuestions([]string{long})
	assertQuestionContract(t, questions)

	if !utf8.ValidString(questions[0]) {
		t.Fatalf("truncated question is not valid UTF-8: %q", questions[0])
	}
	if !strings.HasSuffix(questions[0], "...") {
		t.Fatalf("overlong question not truncated with ellipsis: %q", questions[0])
	}
	if got := utf8.RuneCountInString(questions[0]); got != MaxQuestionLength {
		t.Fatalf("truncated question length = %d runes, want %d", got, MaxQuestionLength)
	}
}

func TestExtractStacks(t *testing.T) {
	t.Parallel()

	jd := "We use Docker and Python, debugging with GDB on x86. Docker again."
	stacks := ExtractStacks(jd)

	want := map[string]bool{"X86": true, "GDB": true, "Docker": true, "Python": true}
	if len(stacks) != len(want) {
		t.Fatalf("unexpected stacks: %v", stacks)
	}
	for _, stack := range stacks {
		if !want[stack] {
			t.Fatalf("unexpected stack %q in %v", stack, stacks)
		}
	}
}

func TestStackFollowupsUsesDetectedStacks(t *testing.T) {
	t.Parallel()

	questions := StackFollowups("Heavy Docker and Java usage")
	assertQuestionContract(t, questions)

	if !strings.Contains(questions[0], "Docker") && !strings.Contains(questions[0], "Java") {
		t.Fatalf("expected a detected stack in the first follow-up: %q", questions[0])
	}
}

func TestParseNumberedListSkipsNoise(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Sure! Here you go:",
		"1. First question",
		"not numbered",
		"2) wrong separator without period",
		"3. ok",
		"4. Second real question",
	}, "\n")

	got := ParseNumberedList(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 parsed questions, got %d: %v", len(got), got)
	}
	if got[0] != "First question" || got[1] != "Second real question" {
		t.Fatalf("unexpected parse result: %v", got)
	}
}
