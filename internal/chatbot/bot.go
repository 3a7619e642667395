// Package chatbot answers free-form questions grounded in the HR document
// store. The knowledge base is dumped into the prompt wholesale, the model
// decides what is relevant.
package chatbot

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/ai"
)

//go:embed prompts/chat.md
var chatPromptTemplate string

const (
	emptyKnowledge = "No data available in the database."
	fallbackReply  = "I'm sorry, I didn't understand that."
)

// KnowledgeSource provides the database content for the prompt.
type KnowledgeSource interface {
	Knowledge(ctx context.Context) (string, error)
}

// Bot generates chatbot replies.
type Bot struct {
	generator ai.Generator
	knowledge KnowledgeSource
	logger    *zap.Logger
}

// New builds a bot. The knowledge source may be nil when no document store is
// configured.
func New(generator ai.Generator, knowledge KnowledgeSource, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{generator: generator, knowledge: knowledge, logger: logger}
}

// Reply answers one user message. Failures never surface as errors, the reply
// text carries them so a conversation can always continue.
func (b *Bot) Reply(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return fallbackReply
	}

	knowledge := emptyKnowledge
	if b.knowledge != nil {
		dump, err := b.knowledge.Knowledge(ctx)
		if err != nil {
			b.logger.Warn("knowledge source unavailable", zap.Error(err))
		} else if strings.TrimSpace(dump) != "" {
			knowledge = dump
		}
	}

	prompt := strings.NewReplacer(
		"{{KNOWLEDGE}}", knowledge,
		"{{MESSAGE}}", message,
	).Replace(chatPromptTemplate)

	reply, err := b.generator.GenerateContent(ctx, prompt)
	if err != nil {
		b.logger.Warn("chat generation failed", zap.Error(err))
		return fmt.Sprintf("Error: %v", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return fallbackReply
	}
	return reply
}
