// Package redis provides Redis persistence for post collections.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/schema"
)

const defaultKeyPrefix = "newsroom:"

// Persistence stores each collection as one JSON document under its own key
// and tracks collection ids in a set.
type Persistence struct {
	client    redis.UniversalClient
	logger    *slog.Logger
	keyPrefix string
}

// NewPersistence connects to the Redis server described by a redis:// URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewPersistenceFromClient(client, logger, defaultKeyPrefix), nil
}

// NewPersistenceFromClient wraps an existing client.
func NewPersistenceFromClient(client redis.UniversalClient, logger *slog.Logger, keyPrefix string) *Persistence {
	return &Persistence{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

func (p *Persistence) collectionKey(collectionID string) string {
	return p.keyPrefix + "collection:" + collectionID
}

func (p *Persistence) indexKey() string {
	return p.keyPrefix + "collections"
}

func (p *Persistence) Load(ctx context.Context, collectionID string) ([]*models.Post, error) {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return nil, err
	}

	data, err := p.client.Get(ctx, p.collectionKey(collectionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []*models.Post{}, nil
	}

	if err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("failed to get collection: %w", err))
	}

	if err := schema.Validate(data); err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, err))
	}

	doc, err := persistence.Decode(data)
	if err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, err))
	}

	return doc.Posts, nil
}

// Save writes the document and registers the id in one MULTI/EXEC transaction.
func (p *Persistence) Save(ctx context.Context, collectionID string, posts []*models.Post) error {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return err
	}

	data, err := persistence.Encode(collectionID, posts, time.Now().UTC())
	if err != nil {
		return persistence.NewCollectionError("Save", collectionID, err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.collectionKey(collectionID), data, 0)
		pipe.SAdd(ctx, p.indexKey(), collectionID)

		return nil
	})
	if err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to store collection: %w", err))
	}

	p.logger.DebugContext(ctx, "Collection saved", "collection_id", collectionID, "posts", len(posts))

	return nil
}

func (p *Persistence) Collections(ctx context.Context) ([]string, error) {
	ids, err := p.client.SMembers(ctx, p.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	sort.Strings(ids)

	return ids, nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
