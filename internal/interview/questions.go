package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/fwc-ai/hr-agent/internal/ai"

	"go.uber.org/zap"
)

const (
	// QuestionCount is the fixed size of every question batch.
	QuestionCount = 5
	// MaxQuestionLength bounds a single question string.
	MaxQuestionLength = 120

	fallbackQuestion     = "Tell me about your work relevant to this role."
	minUsefulLineLength  = 8
	maxUsefulLineLength  = 160
	minParsedQuestionLen = 3
)

// FixedInitialQuestions is the deterministic baseline batch used when no job
// description is available.
var FixedInitialQuestions = []string{
	"Tell me about yourself?",
	"Languages you know well?",
	"Describe your best project?",
	"How do you debug code?",
	"Why are you interested here?",
}

// sectionHeaders mark job-description sections whose lines make good question material.
var sectionHeaders = []string{
	"key responsibilities",
	"technical skills",
	"requirements:",
	"preferred qualifications",
}

// stackKeywords are technology names recognized in job descriptions.
var stackKeywords = []string{
	"assembly", "x86", "x86_64", "arm", "risc-v", "firmware", "bootloader",
	"drivers", "uefi", "gdb", "windbg", "ida pro", "simd", "sse", "avx", "neon",
	"docker", "java", "c#", "python", "c++", "rust", "kubernetes", "sql",
}

// lowLevelKeywords trigger the "tell me about your experience with" template.
var lowLevelKeywords = []string{
	"assembly", "firmware", "bootloader", "drivers", "risc-v", "x86", "arm",
	"uefi", "gdb", "windbg", "ida pro", "simd", "sse", "avx", "neon",
}

var upperCaseStacks = map[string]bool{
	"x86": true, "x86_64": true, "arm": true, "risc-v": true,
	"sse": true, "avx": true, "uefi": true, "sql": true, "gdb": true,
}

// Supplier produces question batches, preferring the model-assisted policy and
// degrading to deterministic heuristics on any failure.
type Supplier struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewSupplier builds a Supplier. The generator may be nil, in which case only
// the deterministic policies are used.
func NewSupplier(generator ai.Generator, logger *zap.Logger) *Supplier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supplier{generator: generator, logger: logger}
}

// Initial returns the first question batch for a session. An empty job
// description always yields the fixed baseline verbatim.
func (s *Supplier) Initial(ctx context.Context, jobDescription string) []string {
	if strings.TrimSpace(jobDescription) == "" {
		return normalizeQuestions(FixedInitialQuestions)
	}

	if s.generator != nil {
		raw, err := s.generator.GenerateContent(ctx, buildQuestionsPrompt(jobDescription))
		if err == nil {
			if questions := ParseNumberedList(raw); len(questions) >= QuestionCount {
				return normalizeQuestions(questions)
			}
			s.logger.Debug("model returned too few questions, using heuristic policy")
		} else {
			s.logger.Warn("question generation failed, using heuristic policy", zap.Error(err))
		}
	}

	return HeuristicQuestions(jobDescription)
}

// DeepFollowups returns the second-phase batch, tailored to the job description
// and the candidate's prior answers.
func (s *Supplier) DeepFollowups(ctx context.Context, jobDescription string, responses []Response) []string {
	if s.generator != nil {
		var summary strings.Builder
		for i, r := range responses {
			fmt.Fprintf(&summary, "Q%d: %s\n", i+1, r.Question)
			fmt.Fprintf(&summary, "A%d: %s\n", i+1, r.Answer)
		}

		raw, err := s.generator.GenerateContent(ctx, buildFollowupsPrompt(jobDescription, summary.String()))
		if err == nil {
			if questions := ParseNumberedList(raw); len(questions) >= QuestionCount {
				return normalizeQuestions(questions)
			}
			s.logger.Debug("model returned too few follow-ups, using stack fallback")
		} else {
			s.logger.Warn("follow-up generation failed, using stack fallback", zap.Error(err))
		}
	}

	return StackFollowups(jobDescription)
}

// HeuristicQuestions derives exactly five questions from job-description lines,
// preferring lines after known section headers and padding with a generic
// fallback.
func HeuristicQuestions(jobDescription string) []string {
	lines := usefulLines(jobDescription)
	topics := make([]string, 0, QuestionCount)

	inSection := false
	for _, line := range lines {
		lower := strings.ToLower(line)
		if isSectionHeader(lower) {
			inSection = true
			continue
		}
		if inSection && len(topics) < QuestionCount && len(line) > minUsefulLineLength {
			topics = append(topics, questionFromLine(line))
		}
		if len(topics) >= QuestionCount {
			break
		}
	}

	if len(topics) < QuestionCount {
		for _, line := range lines {
			if len(topics) >= QuestionCount {
				break
			}
			if len(line) > minUsefulLineLength && len(line) < maxUsefulLineLength {
				topics = append(topics, questionFromLine(line))
			}
		}
	}

	for len(topics) < QuestionCount {
		topics = append(topics, fallbackQuestion)
	}

	return normalizeQuestions(topics)
}

// StackFollowups crafts deep questions from technology keywords detected in the
// job description. Used when the model cannot supply follow-ups.
func StackFollowups(jobDescription string) []string {
	stacks := ExtractStacks(jobDescription)
	if len(stacks) == 0 {
		stacks = []string{"Assembly", "C", "C++", "Python", "Docker"}
	}
	if len(stacks) > QuestionCount {
		stacks = stacks[:QuestionCount]
	}

	questions := make([]string, 0, QuestionCount)
	for _, stack := range stacks {
		questions = append(questions, fmt.Sprintf("Explain a complex issue you solved using %s. What was your approach?", stack))
	}

	for len(questions) < QuestionCount {
		questions = append(questions, fallbackQuestion)
	}

	return normalizeQuestions(questions)
}

// ExtractStacks returns the technology keywords present in the job description,
// display-normalized and de-duplicated in order of appearance.
func ExtractStacks(jobDescription string) []string {
	lower := strings.ToLower(jobDescription)

	seen := make(map[string]bool)
	stacks := make([]string, 0)
	for _, keyword := range stackKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}

		display := displayStack(keyword)
		if seen[display] {
			continue
		}
		seen[display] = true
		stacks = append(stacks, display)
	}

	return stacks
}

// ParseNumberedList scans model output for lines beginning with a digit
// followed by a period, stripping decorative punctuation.
func ParseNumberedList(text string) []string {
	questions := make([]string, 0, QuestionCount)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !unicode.IsDigit(rune(line[0])) || !strings.Contains(line, ".") {
			continue
		}

		_, question, found := strings.Cut(line, ".")
		if !found {
			continue
		}

		question = strings.Trim(strings.TrimSpace(question), `"' *`)
		if len(question) > minParsedQuestionLen {
			questions = append(questions, question)
		}
	}

	return questions
}

// normalizeQuestions enforces the batch contract: exactly five entries, none
// longer than MaxQuestionLength.
func normalizeQuestions(questions []string) []string {
	out := make([]string, 0, QuestionCount)
	for _, q := range questions {
		if len(out) >= QuestionCount {
			break
		}
		q = strings.TrimSpace(q)
		if runes := []rune(q); len(runes) > MaxQuestionLength {
			q = string(runes[:MaxQuestionLength-3]) + "..."
		}
		out = append(out, q)
	}

	for len(out) < QuestionCount {
		out = append(out, fallbackQuestion)
	}

	return out
}

func usefulLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, " \t-•*")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isSectionHeader(lower string) bool {
	for _, header := range sectionHeaders {
		if strings.Contains(lower, header) {
			return true
		}
	}
	return false
}

func questionFromLine(line string) string {
	trimmed := strings.TrimSuffix(line, ".")
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "experience with"):
		return fmt.Sprintf("What is your experience with %s?", strings.TrimSpace(trimmed[len("experience with"):]))
	case hasActionPrefix(lower):
		return fmt.Sprintf("Can you describe your experience: %s?", trimmed)
	case containsStackKeyword(lower):
		return fmt.Sprintf("Tell me about your experience with %s.", trimmed)
	default:
		return fmt.Sprintf("How have you handled: %s?", trimmed)
	}
}

func hasActionPrefix(lower string) bool {
	for _, verb := range []string{
		"develop", "work with", "reverse engineer", "debug", "collaborate",
		"analyze", "contribute", "optimize",
	} {
		if strings.HasPrefix(lower, verb) {
			return true
		}
	}
	return false
}

func containsStackKeyword(lower string) bool {
	for _, keyword := range lowLevelKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func displayStack(keyword string) string {
	if upperCaseStacks[keyword] {
		return strings.ToUpper(keyword)
	}
	if keyword == "c#" || keyword == "c++" || keyword == "c" {
		return strings.ToUpper(keyword)
	}
	return titleCase(keyword)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
