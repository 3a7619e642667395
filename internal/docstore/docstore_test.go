package docstore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fwc-ai/hr-agent/internal/interview"
)

func TestRecordFromEvaluation(t *testing.T) {
	ev := &interview.Evaluation{
		SessionID:      "sess_1",
		CandidateName:  "Jane Doe",
		Duration:       90 * time.Second,
		QuestionsAsked: 5,
		Questions:      []string{"Tell me about yourself?"},
		Responses: []interview.Response{
			{Question: "Tell me about yourself?", Answer: "I build services.", Scores: interview.NeutralScores()},
		},
		Text:           "Solid generalist.",
		Recommendation: interview.RecommendHire,
		OverallScore:   25,
	}

	rec := RecordFromEvaluation(ev)

	if rec.SessionID != "sess_1" {
		t.Errorf("session id = %q", rec.SessionID)
	}
	if rec.FinalRecommendation != string(interview.RecommendHire) {
		t.Errorf("recommendation = %q", rec.FinalRecommendation)
	}
	if rec.InterviewDuration != 1.5 {
		t.Errorf("duration minutes = %v, want 1.5", rec.InterviewDuration)
	}
	if rec.CreatedAt.IsZero() || !rec.UpdatedAt.Equal(rec.CreatedAt) {
		t.Errorf("timestamps not initialized together: %v / %v", rec.CreatedAt, rec.UpdatedAt)
	}
}

func TestDecodeDocument(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := bson.M{
		"session_id":           "sess_2",
		"candidate_name":       "John Smith",
		"interview_duration":   2.5,
		"questions_asked":      int32(5),
		"final_recommendation": "MAYBE",
		"overall_score":        22.0,
		"created_at":           primitive.NewDateTimeFromTime(created),
	}

	var rec InterviewRecord
	if err := decodeDocument(doc, &rec); err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}

	if rec.QuestionsAsked != 5 {
		t.Errorf("questions asked = %d", rec.QuestionsAsked)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", rec.CreatedAt, created)
	}
	if rec.FinalRecommendation != "MAYBE" {
		t.Errorf("recommendation = %q", rec.FinalRecommendation)
	}
}

func TestDecodeDocumentSkipsUnknownFields(t *testing.T) {
	doc := bson.M{
		"session_id": "sess_3",
		"legacy":     "ignored",
	}

	var rec InterviewRecord
	if err := decodeDocument(doc, &rec); err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	if rec.SessionID != "sess_3" {
		t.Errorf("session id = %q", rec.SessionID)
	}
}
