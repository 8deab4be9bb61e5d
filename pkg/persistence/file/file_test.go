package file

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func samplePost(id string) *models.Post {
	created := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)

	return &models.Post{
		ID:             id,
		Title:          "Harbour reopens",
		Status:         models.StatusDraft,
		Priority:       models.PriorityNormal,
		CurrentVersion: 1,
		AuthorID:       "author-1",
		CreatedAt:      created,
		UpdatedAt:      created,
		Tags:           []string{"port"},
		Images:         []string{},
		Comments:       []models.Comment{},
		Revisions:      []models.Revision{},
		Deadlines:      []models.DeadlineMarker{},
	}
}

func TestNewPersistence(t *testing.T) {
	t.Parallel()

	fp := NewPersistence(testLogger(), "/tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)

	fp = NewPersistence(testLogger(), "file:///tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_Close(t *testing.T) {
	t.Parallel()

	fp := NewPersistence(testLogger(), "./test-data")
	assert.NoError(t, fp.Close(t.Context()))
}

func TestPersistence_LoadMissingCollectionIsEmpty(t *testing.T) {
	t.Parallel()

	fp := NewPersistence(testLogger(), t.TempDir())

	posts, err := fp.Load(t.Context(), "newsroom")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
}

func TestPersistence_SaveAndLoad(t *testing.T) {
	t.Parallel()

	testDir := t.TempDir()
	fp := NewPersistence(testLogger(), testDir)

	posts := []*models.Post{samplePost("post-1"), samplePost("post-2")}
	require.NoError(t, fp.Save(t.Context(), "newsroom", posts))
	assert.FileExists(t, filepath.Join(testDir, "collections", "newsroom.json"))

	loaded, err := fp.Load(t.Context(), "newsroom")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, posts[0], loaded[0])
	assert.Equal(t, "post-2", loaded[1].ID)

	entries, err := os.ReadDir(filepath.Join(testDir, "collections"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	require.NoError(t, fp.Save(t.Context(), "newsroom", posts[:1]))

	loaded, err = fp.Load(t.Context(), "newsroom")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestPersistence_Collections(t *testing.T) {
	t.Parallel()

	fp := NewPersistence(testLogger(), t.TempDir())

	ids, err := fp.Collections(t.Context())
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, fp.Save(t.Context(), "sports", nil))
	require.NoError(t, fp.Save(t.Context(), "metro", nil))

	ids, err = fp.Collections(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"metro", "sports"}, ids)
}

func TestPersistence_RejectsInvalidCollectionID(t *testing.T) {
	t.Parallel()

	fp := NewPersistence(testLogger(), t.TempDir())

	_, err := fp.Load(t.Context(), "../escape")
	assert.True(t, persistence.IsInvalidCollectionID(err))

	err = fp.Save(t.Context(), "../escape", nil)
	assert.True(t, persistence.IsInvalidCollectionID(err))
}

func TestPersistence_CorruptFile(t *testing.T) {
	t.Parallel()

	testDir := t.TempDir()
	fp := NewPersistence(testLogger(), testDir)

	require.NoError(t, os.MkdirAll(filepath.Join(testDir, "collections"), 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(testDir, "collections", "newsroom.json"),
		[]byte(`{"id":"newsroom","posts":[{"id":"p","status":"lost"}]}`),
		0o600,
	))

	_, err := fp.Load(t.Context(), "newsroom")
	require.Error(t, err)
	assert.True(t, persistence.IsCorruptCollection(err))
}

func TestPersistence_HealthCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewPersistence(testLogger(), t.TempDir()).HealthCheck(t.Context()))
	assert.Error(t, NewPersistence(testLogger(), "/does/not/exist").HealthCheck(t.Context()))
}
