package chatbot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	knowledgeCacheKey = "hr-agent:chatbot:knowledge"
	defaultCacheTTL   = 5 * time.Minute
)

// DumpSource reads the raw knowledge blob from the document store.
type DumpSource interface {
	KnowledgeDump(ctx context.Context, collections []string) (string, error)
}

// MongoKnowledge serves the knowledge dump with an optional Redis cache in
// front. Cache failures degrade to a direct store read.
type MongoKnowledge struct {
	store       DumpSource
	collections []string
	cache       *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

// NewMongoKnowledge builds a knowledge source over the given collections.
// The cache client may be nil.
func NewMongoKnowledge(store DumpSource, collections []string, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *MongoKnowledge {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoKnowledge{
		store:       store,
		collections: collections,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
	}
}

// Knowledge returns the database dump, served from cache when fresh.
func (k *MongoKnowledge) Knowledge(ctx context.Context) (string, error) {
	if k.cache != nil {
		cached, err := k.cache.Get(ctx, knowledgeCacheKey).Result()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			k.logger.Warn("knowledge cache read failed", zap.Error(err))
		}
	}

	dump, err := k.store.KnowledgeDump(ctx, k.collections)
	if err != nil {
		return "", err
	}

	if k.cache != nil {
		if err := k.cache.Set(ctx, knowledgeCacheKey, dump, k.ttl).Err(); err != nil {
			k.logger.Warn("knowledge cache write failed", zap.Error(err))
		}
	}

	return dump, nil
}
