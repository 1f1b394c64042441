package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"driftwood/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	postID := uuid.New()
	commentID := uuid.New()
	userID := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	snap := NewSnapshot()
	snap.Posts = append(snap.Posts, &models.Post{
		ID:         postID,
		Title:      "Hello",
		Content:    "World",
		Category:   models.CategoryTechnology,
		Author:     models.UserAuthor(userID),
		CommentIDs: []uuid.UUID{commentID},
		Views:      3,
		Likes:      []uuid.UUID{userID},
		IsSticky:   true,
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
	})
	snap.Comments = append(snap.Comments, &models.Comment{
		ID:        commentID,
		Content:   "First!",
		Author:    models.UserAuthor(userID),
		PostID:    postID,
		Likes:     []uuid.UUID{},
		IsEdited:  true,
		CreatedAt: created.Add(time.Minute),
		UpdatedAt: created.Add(2 * time.Minute),
	})
	snap.Users = append(snap.Users, &models.User{
		ID:             userID,
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$notarealhash",
		Avatar:         "default-avatar.png",
		JoinedAt:       created,
	})
	return snap
}

func TestFileAdapterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	adapter, err := NewFileAdapter(path)
	require.NoError(t, err)
	assert.True(t, adapter.Durable())

	ctx := context.Background()
	snap := sampleSnapshot()
	require.NoError(t, adapter.Save(ctx, snap))

	loaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	// The password hash must survive persistence; the API hides it, the
	// snapshot must not.
	assert.Equal(t, "$2a$10$notarealhash", loaded.Users[0].HashedPassword)
}

func TestFileAdapterMissingFileLoadsEmpty(t *testing.T) {
	adapter, err := NewFileAdapter(filepath.Join(t.TempDir(), "posts.json"))
	require.NoError(t, err)

	snap, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Posts)
	assert.Empty(t, snap.Comments)
	assert.Empty(t, snap.Users)
}

func TestFileAdapterCreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "posts.json")
	_, err := NewFileAdapter(path)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileAdapterSaveReplacesWholeDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.json")
	adapter, err := NewFileAdapter(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, adapter.Save(ctx, sampleSnapshot()))

	next := NewSnapshot()
	require.NoError(t, adapter.Save(ctx, next))

	loaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Posts)

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "posts.json", entries[0].Name())
}

func TestFileAdapterWritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	adapter, err := NewFileAdapter(path)
	require.NoError(t, err)
	require.NoError(t, adapter.Save(context.Background(), sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Indented, and decodable by any JSON reader
	assert.Contains(t, string(data), "\n  \"posts\"")
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "posts")
}

func TestFileAdapterCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	adapter, err := NewFileAdapter(path)
	require.NoError(t, err)

	_, err = adapter.Load(context.Background())
	assert.Error(t, err)
}
