package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	output  string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

type stubKnowledge struct {
	dump string
	err  error
}

func (s *stubKnowledge) Knowledge(context.Context) (string, error) {
	return s.dump, s.err
}

func TestReplyEmbedsKnowledge(t *testing.T) {
	gen := &stubGenerator{output: "Jane Doe interviewed on March 1."}
	bot := New(gen, &stubKnowledge{dump: `{"candidate_name":"Jane Doe"}`}, zap.NewNop())

	reply := bot.Reply(context.Background(), "Who interviewed recently?")
	if reply != "Jane Doe interviewed on March 1." {
		t.Errorf("reply = %q", reply)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("prompts = %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, `{"candidate_name":"Jane Doe"}`) {
		t.Error("knowledge missing from prompt")
	}
	if !strings.Contains(prompt, "User: Who interviewed recently?") {
		t.Error("user message missing from prompt")
	}
}

func TestReplyWithoutKnowledgeSource(t *testing.T) {
	gen := &stubGenerator{output: "Hello!"}
	bot := New(gen, nil, zap.NewNop())

	bot.Reply(context.Background(), "hi")
	if !strings.Contains(gen.prompts[0], "No data available in the database.") {
		t.Error("empty knowledge marker missing from prompt")
	}
}

func TestReplyKnowledgeFailureDegrades(t *testing.T) {
	gen := &stubGenerator{output: "Hello!"}
	bot := New(gen, &stubKnowledge{err: errors.New("mongo down")}, zap.NewNop())

	reply := bot.Reply(context.Background(), "hi")
	if reply != "Hello!" {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(gen.prompts[0], "No data available in the database.") {
		t.Error("empty knowledge marker missing from prompt")
	}
}

func TestReplyGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exhausted")}
	bot := New(gen, nil, zap.NewNop())

	reply := bot.Reply(context.Background(), "hi")
	if reply != "Error: quota exhausted" {
		t.Errorf("reply = %q", reply)
	}
}

func TestReplyEmptyInputs(t *testing.T) {
	gen := &stubGenerator{output: "  "}
	bot := New(gen, nil, zap.NewNop())

	if got := bot.Reply(context.Background(), "   "); got != fallbackReply {
		t.Errorf("blank message reply = %q", got)
	}
	if got := bot.Reply(context.Background(), "hi"); got != fallbackReply {
		t.Errorf("blank model reply = %q", got)
	}
}
