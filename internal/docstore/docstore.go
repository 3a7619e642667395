// Package docstore persists interview outcomes and candidate records in
// MongoDB. Writes are best-effort audit data: interview sessions are
// append-only inserts, candidate records are upserted by contact email.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultDatabase             = "hrms"
	defaultInterviewsCollection = "interviews"
	defaultCandidatesCollection = "candidates"

	connectTimeout = 10 * time.Second
)

// Config carries the connection settings for the document store.
type Config struct {
	URI                  string
	Database             string
	InterviewsCollection string
	CandidatesCollection string
}

// Store wraps the MongoDB client and the two collections this system writes.
type Store struct {
	client     *mongo.Client
	db         *mongo.Database
	interviews *mongo.Collection
	candidates *mongo.Collection
	logger     *zap.Logger
}

// Connect establishes and verifies the MongoDB connection.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.InterviewsCollection == "" {
		cfg.InterviewsCollection = defaultInterviewsCollection
	}
	if cfg.CandidatesCollection == "" {
		cfg.CandidatesCollection = defaultCandidatesCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	db := client.Database(cfg.Database)

	return &Store{
		client:     client,
		db:         db,
		interviews: db.Collection(cfg.InterviewsCollection),
		candidates: db.Collection(cfg.CandidatesCollection),
		logger:     logger,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes both collections rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	interviewIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidate_email", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "final_recommendation", Value: 1}}},
	}
	if _, err := s.interviews.Indexes().CreateMany(ctx, interviewIndexes); err != nil {
		return fmt.Errorf("creating interview indexes: %w", err)
	}

	candidateIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	if _, err := s.candidates.Indexes().CreateMany(ctx, candidateIndexes); err != nil {
		return fmt.Errorf("creating candidate indexes: %w", err)
	}

	return nil
}

// KnowledgeDump stringifies every document of the named collections into one
// text blob for the chatbot prompt. Document identifiers are projected out.
func (s *Store) KnowledgeDump(ctx context.Context, collections []string) (string, error) {
	blob := ""
	for _, name := range collections {
		cursor, err := s.db.Collection(name).Find(ctx, bson.M{},
			options.Find().SetProjection(bson.M{"_id": 0}))
		if err != nil {
			return "", fmt.Errorf("reading collection %q: %w", name, err)
		}

		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return "", fmt.Errorf("decoding collection %q: %w", name, err)
		}

		for _, doc := range docs {
			raw, err := bson.MarshalExtJSON(doc, false, false)
			if err != nil {
				continue
			}
			if blob != "" {
				blob += "\n"
			}
			blob += string(raw)
		}
	}

	return blob, nil
}
