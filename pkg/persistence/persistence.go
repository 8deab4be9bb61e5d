// Package persistence provides the storage abstraction for post collections.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/schema"
)

// Persistence loads and saves whole post collections. Each call is atomic from the
// caller's perspective; a collection that was never saved loads as empty.
type Persistence interface {
	Load(ctx context.Context, collectionID string) ([]*models.Post, error)
	Save(ctx context.Context, collectionID string, posts []*models.Post) error
	Collections(ctx context.Context) ([]string, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// Document is the serialized form of a collection shared by the document backends.
type Document struct {
	ID        string         `json:"id"`
	Posts     []*models.Post `json:"posts"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Encode serializes a collection document. Documents the schema would reject on load
// are refused, so a bad write cannot make the collection unreadable.
func Encode(collectionID string, posts []*models.Post, now time.Time) ([]byte, error) {
	if posts == nil {
		posts = []*models.Post{}
	}

	data, err := json.MarshalIndent(Document{ID: collectionID, Posts: posts, UpdatedAt: now}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collection %s: %w", collectionID, err)
	}

	if err := schema.Validate(data); err != nil {
		return nil, fmt.Errorf("refusing to store collection %s: %w", collectionID, err)
	}

	return data, nil
}

// Decode parses a collection document.
func Decode(data []byte) (*Document, error) {
	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}

	if doc.Posts == nil {
		doc.Posts = []*models.Post{}
	}

	return &doc, nil
}
