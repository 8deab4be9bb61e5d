// Package postgresql provides PostgreSQL persistence for post collections.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL. Each post is one row
// holding its full JSON document; a save replaces the collection in one transaction.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	postgres := &Persistence{
		db:     database,
		logger: logger,
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Load returns the posts of a collection in their saved order.
func (p *Persistence) Load(ctx context.Context, collectionID string) ([]*models.Post, error) {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return nil, err
	}

	query := `
		SELECT document
		FROM posts
		WHERE collection_id = $1
		ORDER BY position
	`

	rows, err := p.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("failed to query posts: %w", err))
	}

	defer func() {
		if err := rows.Close(); err != nil {
			p.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	posts := make([]*models.Post, 0)

	for rows.Next() {
		var document []byte

		if err := rows.Scan(&document); err != nil {
			return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("failed to scan post: %w", err))
		}

		var post models.Post
		if err := json.Unmarshal(document, &post); err != nil {
			return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, err))
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("failed to iterate posts: %w", err))
	}

	return posts, nil
}

// Save replaces every post of the collection inside a single transaction.
func (p *Persistence) Save(ctx context.Context, collectionID string, posts []*models.Post) error {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return err
	}

	transaction, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to begin transaction: %w", err))
	}

	if err := p.replace(ctx, transaction, collectionID, posts); err != nil {
		_ = transaction.Rollback()

		return persistence.NewCollectionError("Save", collectionID, err)
	}

	if err := transaction.Commit(); err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to commit transaction: %w", err))
	}

	p.logger.DebugContext(ctx, "Collection saved", "collection_id", collectionID, "posts", len(posts))

	return nil
}

func (p *Persistence) replace(ctx context.Context, tx *sql.Tx, collectionID string, posts []*models.Post) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO collections (id, updated_at) VALUES ($1, NOW())
		ON CONFLICT (id) DO UPDATE SET updated_at = NOW()
	`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to upsert collection: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM posts WHERE collection_id = $1", collectionID)
	if err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}

	insert := `
		INSERT INTO posts (
			collection_id
		  , id
		  , position
		  , status
		  , priority
		  , author_id
		  , scheduled_for
		  , document
		  , created_at
		  , updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for position, post := range posts {
		document, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("failed to marshal post %s: %w", post.ID, err)
		}

		_, err = tx.ExecContext(ctx, insert,
			collectionID,
			post.ID,
			position,
			post.Status,
			post.Priority,
			post.AuthorID,
			post.ScheduledFor,
			string(document),
			post.CreatedAt,
			post.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post %s: %w", post.ID, err)
		}
	}

	return nil
}

// Collections lists the ids of every stored collection, sorted.
func (p *Persistence) Collections(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id FROM collections ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			p.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	ids := make([]string, 0)

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collection id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
