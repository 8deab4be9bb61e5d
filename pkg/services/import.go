package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/newsroom/pkg/eventbus"
	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/schema"
)

// Import replaces a collection with the posts of a collection document. The document
// must match the collection schema and the ledger invariants; the id inside the
// document is ignored in favour of collectionID.
func (s *Posts) Import(ctx context.Context, collectionID string, document []byte) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "posts.import", collectionID, attribute.Int("newsroom.import.bytes", len(document)))
	defer func() { endSpan(span, err) }()

	if err := schema.Validate(document); err != nil {
		return 0, wrapError("Import", err)
	}

	doc, err := persistence.Decode(document)
	if err != nil {
		return 0, wrapError("Import", fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}

	if err := schema.CheckInvariants(doc.Posts); err != nil {
		return 0, wrapError("Import", err)
	}

	err = s.mutate(ctx, "Import", collectionID, func([]*models.Post) ([]*models.Post, []eventbus.Event, error) {
		return doc.Posts, nil, nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "collection imported", "collection_id", collectionID, "posts", len(doc.Posts))

	return len(doc.Posts), nil
}
