// Package speech abstracts how the interactive interviewer talks to the
// candidate. The console implementation reads answers from stdin, other
// channels can be plugged in behind the same interfaces.
package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	// minAnswerLength filters out noise like a stray keypress.
	minAnswerLength = 3

	retryPrompt = "I didn't catch that. Please speak clearly."
)

var affirmativeWords = []string{
	"yes", "ready", "start", "begin", "hello", "okay", "ok", "sure", "let's go",
}

// Speaker delivers a message to the candidate.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Listener captures one answer from the candidate.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Console speaks by printing and listens by reading lines from an input
// stream.
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
}

// NewConsole builds a console channel over the given streams.
func NewConsole(in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{in: scanner, out: out, logger: logger}
}

// Say prints the message.
func (c *Console) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.out, "\n%s\n", text)
	return err
}

// Listen reads one line of input.
func (c *Console) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, "> ")
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// ListenWithRetry captures an answer, asking once more when the first attempt
// is too short to be meaningful. An empty string means no usable answer.
func ListenWithRetry(ctx context.Context, speaker Speaker, listener Listener) (string, error) {
	const attempts = 2

	for i := 0; i < attempts; i++ {
		answer, err := listener.Listen(ctx)
		if err != nil {
			return "", err
		}
		if len(strings.TrimSpace(answer)) >= minAnswerLength {
			return strings.TrimSpace(answer), nil
		}
		if i < attempts-1 {
			if err := speaker.Say(ctx, retryPrompt); err != nil {
				return "", err
			}
		}
	}

	return "", nil
}

// IsAffirmative reports whether the reply signals readiness to begin.
func IsAffirmative(reply string) bool {
	reply = strings.ToLower(strings.TrimSpace(reply))
	if reply == "" {
		return false
	}
	for _, word := range affirmativeWords {
		if strings.Contains(reply, word) {
			return true
		}
	}
	return false
}
