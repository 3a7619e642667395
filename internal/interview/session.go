package interview

import (
	"errors"
	"sync"
	"time"
)

// Phase names a stage of the question sequence.
type Phase string

const (
	// PhaseInitial is the first fixed or generated question batch.
	PhaseInitial Phase = "initial"
	// PhaseDeep is the follow-up batch generated after the initial set.
	PhaseDeep Phase = "deep"
)

var (
	// ErrInvalidSession is returned for unknown or expired session identifiers.
	ErrInvalidSession = errors.New("invalid session")
	// ErrCompleted is returned when an answer arrives after the question
	// sequence is exhausted.
	ErrCompleted = errors.New("interview already completed")
	// ErrEnded is returned when the session deadline has passed.
	ErrEnded = errors.New("interview has ended")
)

// Response records one question/answer exchange with its scores.
type Response struct {
	Question  string    `json:"question" bson:"question" mapstructure:"question"`
	Answer    string    `json:"response" bson:"response" mapstructure:"response"`
	ScoreText string    `json:"score_text,omitempty" bson:"score_text,omitempty" mapstructure:"score_text"`
	Scores    ScoreSet  `json:"scores" bson:"scores" mapstructure:"scores"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp" mapstructure:"timestamp"`
}

// Session is one candidate's interview interaction from start to finish.
// In-flight state lives in memory only; it does not survive a restart.
type Session struct {
	mu sync.Mutex

	ID             string
	CandidateName  string
	JobDescription string
	Questions      []string
	Cursor         int
	Phase          Phase
	Responses      []Response
	StartedAt      time.Time
	Deadline       time.Time

	ended         bool
	deepGenerated bool
	initialAsked  []string // questions served during the initial phase
}

// NewSession creates an active session with a wall-clock deadline.
func NewSession(id, candidateName, jobDescription string, questions []string, duration time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		CandidateName:  candidateName,
		JobDescription: jobDescription,
		Questions:      questions,
		Phase:          PhaseInitial,
		StartedAt:      now,
		Deadline:       now.Add(duration),
	}
}

// NextResult describes the outcome of advancing the session cursor.
type NextResult struct {
	Done     bool
	Index    int
	Question string
	Phase    Phase

	// NeedsDeepQuestions signals that the initial batch is exhausted and the
	// caller should supply the follow-up batch via AcceptDeepQuestions.
	NeedsDeepQuestions bool
}

// Next returns the current question without consuming it, or signals a phase
// transition or completion. The deadline is checked here, not by a timer.
func (s *Session) Next() NextResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireIfDue() {
		return NextResult{Done: true, Phase: s.Phase}
	}

	if s.Cursor < len(s.Questions) {
		return NextResult{
			Index:    s.Cursor,
			Question: s.Questions[s.Cursor],
			Phase:    s.Phase,
		}
	}

	if s.Phase == PhaseInitial && !s.deepGenerated {
		return NextResult{Phase: s.Phase, NeedsDeepQuestions: true}
	}

	return NextResult{Done: true, Phase: s.Phase}
}

// AcceptDeepQuestions installs the follow-up batch and transitions the phase.
// The transition happens at most once per session.
func (s *Session) AcceptDeepQuestions(questions []string) NextResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireIfDue() || s.deepGenerated {
		return NextResult{Done: true, Phase: s.Phase}
	}

	s.initialAsked = s.Questions
	s.Questions = questions
	s.Cursor = 0
	s.Phase = PhaseDeep
	s.deepGenerated = true

	if len(questions) == 0 {
		return NextResult{Done: true, Phase: s.Phase}
	}

	return NextResult{Index: 0, Question: questions[0], Phase: PhaseDeep}
}

// CurrentQuestion returns the question at the cursor, failing when the
// sequence is exhausted or the session has ended.
func (s *Session) CurrentQuestion() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireIfDue() {
		return "", ErrEnded
	}
	if s.Cursor >= len(s.Questions) {
		return "", ErrCompleted
	}
	return s.Questions[s.Cursor], nil
}

// RecordAnswer appends the scored response and advances the cursor.
func (s *Session) RecordAnswer(resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Cursor >= len(s.Questions) {
		return ErrCompleted
	}

	s.Responses = append(s.Responses, resp)
	s.Cursor++
	return nil
}

// Advance moves past the current question without recording a response. Used
// when the candidate gave no usable answer.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Cursor >= len(s.Questions) {
		return ErrCompleted
	}

	s.Cursor++
	return nil
}

// End marks the session terminal. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

// Ended reports whether the session is terminal, expiring it first when the
// deadline has passed.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireIfDue()
}

// Remaining returns the time left before the deadline.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return 0
	}
	remaining := time.Until(s.Deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Transcript returns a copy of the recorded responses.
func (s *Session) Transcript() []Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Response, len(s.Responses))
	copy(out, s.Responses)
	return out
}

// AllQuestions returns every question served so far, across phases.
func (s *Session) AllQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.initialAsked)+len(s.Questions))
	out = append(out, s.initialAsked...)
	out = append(out, s.Questions...)
	return out
}

// expireIfDue flips the session to ended once the deadline passes.
// Callers must hold s.mu. An in-flight question is abandoned without penalty.
func (s *Session) expireIfDue() bool {
	if s.ended {
		return true
	}
	if !s.Deadline.IsZero() && time.Now().After(s.Deadline) {
		s.ended = true
	}
	return s.ended
}
