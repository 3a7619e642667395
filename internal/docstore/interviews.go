package docstore

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/interview"
)

// InterviewRecord is the stored shape of a completed interview session.
type InterviewRecord struct {
	SessionID           string               `bson:"session_id" mapstructure:"session_id" json:"session_id"`
	CandidateName       string               `bson:"candidate_name" mapstructure:"candidate_name" json:"candidate_name"`
	CandidateEmail      string               `bson:"candidate_email,omitempty" mapstructure:"candidate_email" json:"candidate_email,omitempty"`
	InterviewDuration   float64              `bson:"interview_duration" mapstructure:"interview_duration" json:"interview_duration"`
	QuestionsAsked      int                  `bson:"questions_asked" mapstructure:"questions_asked" json:"questions_asked"`
	Questions           []string             `bson:"questions" mapstructure:"questions" json:"questions"`
	Responses           []interview.Response `bson:"responses" mapstructure:"responses" json:"responses"`
	Evaluation          string               `bson:"evaluation" mapstructure:"evaluation" json:"evaluation"`
	FinalRecommendation string               `bson:"final_recommendation" mapstructure:"final_recommendation" json:"final_recommendation"`
	OverallScore        float64              `bson:"overall_score" mapstructure:"overall_score" json:"overall_score"`
	CreatedAt           time.Time            `bson:"created_at" mapstructure:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" mapstructure:"updated_at" json:"updated_at"`
}

// Stats aggregates interview outcomes by recommendation label.
type Stats struct {
	Total    int64   `json:"total_interviews"`
	Hires    int64   `json:"hires"`
	NoHires  int64   `json:"no_hires"`
	Maybes   int64   `json:"maybes"`
	HireRate float64 `json:"hire_rate"`
}

// RecordFromEvaluation converts the in-memory evaluation into its stored form.
func RecordFromEvaluation(ev *interview.Evaluation) InterviewRecord {
	now := time.Now().UTC()
	return InterviewRecord{
		SessionID:           ev.SessionID,
		CandidateName:       ev.CandidateName,
		InterviewDuration:   ev.Duration.Minutes(),
		QuestionsAsked:      ev.QuestionsAsked,
		Questions:           ev.Questions,
		Responses:           ev.Responses,
		Evaluation:          ev.Text,
		FinalRecommendation: string(ev.Recommendation),
		OverallScore:        ev.OverallScore,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// SaveInterview appends a completed interview. Every call inserts a new
// document, repeated saves of the same session produce separate records.
func (s *Store) SaveInterview(ctx context.Context, rec InterviewRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = rec.CreatedAt

	if _, err := s.interviews.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("inserting interview record: %w", err)
	}

	s.logger.Debug("interview record saved",
		zap.String("session_id", rec.SessionID),
		zap.String("candidate", rec.CandidateName),
	)
	return nil
}

// InterviewHistory returns stored interviews newest first, optionally
// restricted to one candidate email.
func (s *Store) InterviewHistory(ctx context.Context, email string, limit int64) ([]InterviewRecord, error) {
	filter := bson.M{}
	if email != "" {
		filter["candidate_email"] = email
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.interviews.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying interview history: %w", err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decoding interview history: %w", err)
	}

	records := make([]InterviewRecord, 0, len(raw))
	for _, doc := range raw {
		var rec InterviewRecord
		if err := decodeDocument(doc, &rec); err != nil {
			s.logger.Warn("skipping malformed interview record", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// InterviewStats counts stored interviews by recommendation.
func (s *Store) InterviewStats(ctx context.Context) (Stats, error) {
	total, err := s.interviews.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, fmt.Errorf("counting interviews: %w", err)
	}

	count := func(label interview.Recommendation) (int64, error) {
		return s.interviews.CountDocuments(ctx, bson.M{"final_recommendation": string(label)})
	}

	hires, err := count(interview.RecommendHire)
	if err != nil {
		return Stats{}, fmt.Errorf("counting hires: %w", err)
	}
	noHires, err := count(interview.RecommendNoHire)
	if err != nil {
		return Stats{}, fmt.Errorf("counting no hires: %w", err)
	}
	maybes, err := count(interview.RecommendMaybe)
	if err != nil {
		return Stats{}, fmt.Errorf("counting maybes: %w", err)
	}

	stats := Stats{Total: total, Hires: hires, NoHires: noHires, Maybes: maybes}
	if total > 0 {
		stats.HireRate = float64(hires) / float64(total)
	}
	return stats, nil
}

func decodeDocument(doc bson.M, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeFromPrimitiveHook(),
		),
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

func timeFromPrimitiveHook() mapstructure.DecodeHookFuncType {
	timeType := reflect.TypeOf(time.Time{})
	return func(from, to reflect.Type, data any) (any, error) {
		if to != timeType {
			return data, nil
		}
		if dt, ok := data.(primitive.DateTime); ok {
			return dt.Time(), nil
		}
		return data, nil
	}
}
