package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sink durably records a completed evaluation. Implementations are best-effort
// audit trails, not transactional stores.
type Sink interface {
	SaveEvaluation(ctx context.Context, eval *Evaluation) error
}

// MultiSink fans an evaluation out to several destinations. Each destination
// is attempted independently; one failing does not block the others, and no
// failure propagates to the interview flow.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiSink builds a MultiSink. Nil entries are skipped.
func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	if logger == nil {
		logger = zap.NewNop()
	}

	kept := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}

	return &MultiSink{sinks: kept, logger: logger}
}

// SaveEvaluation writes to every destination, logging failures.
func (m *MultiSink) SaveEvaluation(ctx context.Context, eval *Evaluation) error {
	for _, sink := range m.sinks {
		if err := sink.SaveEvaluation(ctx, eval); err != nil {
			m.logger.Warn("persisting evaluation failed",
				zap.String("session_id", eval.SessionID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Service drives interview sessions end to end: question supply, scoring,
// evaluation and persistence. It is safe for concurrent use.
type Service struct {
	store     *Store
	supplier  *Supplier
	scorer    *Scorer
	evaluator *Evaluator
	sink      Sink
	duration  time.Duration
	logger    *zap.Logger
}

// ServiceDeps aggregates the collaborators the Service consumes.
type ServiceDeps struct {
	Store     *Store
	Supplier  *Supplier
	Scorer    *Scorer
	Evaluator *Evaluator
	Sink      Sink
	Logger    *zap.Logger
}

// NewService builds a Service. Duration bounds each session's wall clock.
func NewService(deps ServiceDeps, duration time.Duration) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:     deps.Store,
		supplier:  deps.Supplier,
		scorer:    deps.Scorer,
		evaluator: deps.Evaluator,
		sink:      deps.Sink,
		duration:  duration,
		logger:    logger,
	}
}

// ScheduleSweeper registers session eviction on the provided cron runner.
func (s *Service) ScheduleSweeper(c *cron.Cron, logger *zap.Logger) error {
	return s.store.ScheduleSweeper(c, logger)
}

// StartRequest carries the optional inputs for a new session.
type StartRequest struct {
	SessionID      string `json:"session_id,omitempty"`
	CandidateName  string `json:"candidate_name,omitempty"`
	ResumeText     string `json:"resume_text,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
}

// StartResult is returned to the caller after session creation.
type StartResult struct {
	SessionID     string   `json:"session_id"`
	CandidateName string   `json:"candidate_name"`
	Questions     []string `json:"questions"`
}

// Start creates a session. Missing inputs degrade to placeholders: the
// candidate name falls back to resume extraction, the question batch to the
// fixed baseline.
func (s *Service) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	id := req.SessionID
	if id == "" {
		id = fmt.Sprintf("sess_%s", uuid.NewString())
	}

	candidate := req.CandidateName
	if candidate == "" {
		candidate = ExtractCandidateName(req.ResumeText)
	}

	questions := s.supplier.Initial(ctx, req.JobDescription)
	sess := NewSession(id, candidate, req.JobDescription, questions, s.duration)
	s.store.Put(sess)

	s.logger.Info("interview session started",
		zap.String("session_id", id),
		zap.String("candidate", candidate),
		zap.Int("questions", len(questions)),
	)

	return &StartResult{
		SessionID:     id,
		CandidateName: candidate,
		Questions:     questions,
	}, nil
}

// Next serves the current question or transitions to the deep phase once the
// initial batch is exhausted.
func (s *Service) Next(ctx context.Context, sessionID string) (*NextResult, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrInvalidSession
	}

	result := sess.Next()
	if result.NeedsDeepQuestions {
		deep := s.supplier.DeepFollowups(ctx, sess.JobDescription, sess.Transcript())
		result = sess.AcceptDeepQuestions(deep)
		s.logger.Info("transitioned to deep follow-up phase",
			zap.String("session_id", sessionID),
			zap.Int("questions", len(deep)),
		)
	}

	return &result, nil
}

// AnswerResult carries the per-criterion scores for one answer.
type AnswerResult struct {
	Scores    ScoreSet `json:"scores"`
	ScoreText string   `json:"score_text"`
}

// Answer scores the answer to the current question and advances the cursor.
// Calling it once the sequence is exhausted returns ErrCompleted without
// mutating state.
func (s *Service) Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrInvalidSession
	}

	question, err := sess.CurrentQuestion()
	if err != nil {
		return nil, err
	}

	resp := s.scorer.Score(ctx, question, answer)
	if err := sess.RecordAnswer(resp); err != nil {
		return nil, err
	}

	return &AnswerResult{Scores: resp.Scores, ScoreText: resp.ScoreText}, nil
}

// Skip discards the current question without scoring or recording anything.
// Used when the candidate gave no usable answer.
func (s *Service) Skip(_ context.Context, sessionID string) error {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return ErrInvalidSession
	}

	if err := sess.Advance(); err != nil {
		return err
	}

	s.logger.Info("question skipped without an answer", zap.String("session_id", sessionID))
	return nil
}

// Finish ends the session, produces the evaluation and persists it.
// A repeated Finish for the same session produces a second persisted record;
// there is no idempotency key.
func (s *Service) Finish(ctx context.Context, sessionID string) (*Evaluation, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrInvalidSession
	}

	sess.End()
	eval := s.evaluator.Evaluate(ctx, sess)

	if s.sink != nil {
		if err := s.sink.SaveEvaluation(ctx, eval); err != nil {
			s.logger.Warn("evaluation sink failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	s.logger.Info("interview finished",
		zap.String("session_id", sessionID),
		zap.String("candidate", eval.CandidateName),
		zap.String("recommendation", string(eval.Recommendation)),
		zap.Float64("overall_score", eval.OverallScore),
	)

	return eval, nil
}

// Session exposes a session for read access.
func (s *Service) Session(sessionID string) (*Session, bool) {
	return s.store.Get(sessionID)
}
