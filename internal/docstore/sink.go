package docstore

import (
	"context"

	"github.com/fwc-ai/hr-agent/internal/interview"
)

// InterviewSink adapts the store to the interview persistence interface.
type InterviewSink struct {
	store *Store
}

// NewInterviewSink wraps the store for use by the interview service.
func NewInterviewSink(store *Store) *InterviewSink {
	return &InterviewSink{store: store}
}

// SaveEvaluation stores the evaluation as a new interview record.
func (s *InterviewSink) SaveEvaluation(ctx context.Context, ev *interview.Evaluation) error {
	return s.store.SaveInterview(ctx, RecordFromEvaluation(ev))
}
