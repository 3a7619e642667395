package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CandidateRecord keeps the latest screening outcome per candidate. The email
// is the identity, repeated screenings update the same document.
type CandidateRecord struct {
	Name            string    `bson:"name" mapstructure:"name" json:"name"`
	Email           string    `bson:"email" mapstructure:"email" json:"email"`
	Phone           string    `bson:"phone,omitempty" mapstructure:"phone" json:"phone,omitempty"`
	ResumeFile      string    `bson:"resume_file,omitempty" mapstructure:"resume_file" json:"resume_file,omitempty"`
	MatchScore      float64   `bson:"match_score" mapstructure:"match_score" json:"match_score"`
	ScreeningResult string    `bson:"screening_result" mapstructure:"screening_result" json:"screening_result"`
	CreatedAt       time.Time `bson:"created_at" mapstructure:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" mapstructure:"updated_at" json:"updated_at"`
}

// UpsertCandidate stores a candidate keyed by email. An existing document is
// updated in place, created_at survives updates.
func (s *Store) UpsertCandidate(ctx context.Context, rec CandidateRecord) error {
	if rec.Email == "" {
		return fmt.Errorf("candidate email is required")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":             rec.Name,
			"phone":            rec.Phone,
			"resume_file":      rec.ResumeFile,
			"match_score":      rec.MatchScore,
			"screening_result": rec.ScreeningResult,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"email":      rec.Email,
			"created_at": now,
		},
	}

	_, err := s.candidates.UpdateOne(ctx,
		bson.M{"email": rec.Email},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting candidate %q: %w", rec.Email, err)
	}

	s.logger.Debug("candidate record upserted",
		zap.String("email", rec.Email),
		zap.String("result", rec.ScreeningResult),
	)
	return nil
}

// Candidates lists stored candidates newest first.
func (s *Store) Candidates(ctx context.Context, limit int64) ([]CandidateRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.candidates.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}

	records := make([]CandidateRecord, 0, len(raw))
	for _, doc := range raw {
		var rec CandidateRecord
		if err := decodeDocument(doc, &rec); err != nil {
			s.logger.Warn("skipping malformed candidate record", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
