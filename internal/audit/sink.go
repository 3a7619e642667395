package audit

import (
	"context"

	"github.com/fwc-ai/hr-agent/internal/interview"
)

// InterviewSink writes completed interviews to the audit trail.
type InterviewSink struct {
	log *Log
}

// NewInterviewSink wraps the log for use by the interview service.
func NewInterviewSink(log *Log) *InterviewSink {
	return &InterviewSink{log: log}
}

// SaveEvaluation appends one row for the finished interview.
func (s *InterviewSink) SaveEvaluation(_ context.Context, ev *interview.Evaluation) error {
	return s.log.Append(Entry{
		CandidateName:   ev.CandidateName,
		ScreeningResult: string(ev.Recommendation),
		Timestamp:       ev.CompletedAt,
	})
}
