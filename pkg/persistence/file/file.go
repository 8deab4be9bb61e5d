// Package file provides file-based persistence for post collections.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/schema"
)

const collectionsDir = "collections"

// Persistence implements the persistence.Persistence interface using the file system.
// Every collection is one JSON document validated against the collection schema on load.
type Persistence struct {
	root   string
	logger *slog.Logger
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(logger *slog.Logger, root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:   cleanRoot,
		logger: logger,
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) path(collectionID string) string {
	return filepath.Join(fp.root, collectionsDir, collectionID+".json")
}

// Load reads a collection. A collection without a file loads as empty.
func (fp *Persistence) Load(ctx context.Context, collectionID string) ([]*models.Post, error) {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fp.path(collectionID))
	if errors.Is(err, fs.ErrNotExist) {
		return []*models.Post{}, nil
	}

	if err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("failed to read collection file: %w", err))
	}

	if err := schema.Validate(data); err != nil {
		fp.logger.ErrorContext(ctx, "Collection file failed schema validation", "collection_id", collectionID, "error", err)

		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, err))
	}

	doc, err := persistence.Decode(data)
	if err != nil {
		return nil, persistence.NewCollectionError("Load", collectionID, fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, err))
	}

	return doc.Posts, nil
}

// Save writes the collection atomically through a temporary file and a rename.
func (fp *Persistence) Save(ctx context.Context, collectionID string, posts []*models.Post) error {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return err
	}

	data, err := persistence.Encode(collectionID, posts, time.Now().UTC())
	if err != nil {
		return persistence.NewCollectionError("Save", collectionID, err)
	}

	dir := filepath.Join(fp.root, collectionsDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to create collections directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, collectionID+".*.tmp")
	if err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to create temporary file: %w", err))
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to write collection: %w", err))
	}

	if err := tmp.Close(); err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to close temporary file: %w", err))
	}

	if err := os.Rename(tmp.Name(), fp.path(collectionID)); err != nil {
		return persistence.NewCollectionError("Save", collectionID, fmt.Errorf("failed to replace collection file: %w", err))
	}

	fp.logger.DebugContext(ctx, "Collection saved", "collection_id", collectionID, "posts", len(posts))

	return nil
}

// Collections lists the ids of every stored collection, sorted.
func (fp *Persistence) Collections(_ context.Context) ([]string, error) {
	root := os.DirFS(filepath.Join(fp.root, collectionsDir))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list collection files: %w", err)
	}

	ids := make([]string, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		ids = append(ids, strings.TrimSuffix(file, ".json"))
	}

	sort.Strings(ids)

	return ids, nil
}
