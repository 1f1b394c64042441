package actors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"driftwood/internal/models"
	"driftwood/internal/storage"
	"driftwood/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const askTimeout = 5 * time.Second

type testStore struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func newTestStore(t *testing.T, mode models.AuthMode, adapter storage.Adapter) *testStore {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewContentActor(mode, adapter, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)
	t.Cleanup(func() {
		system.Root.Stop(pid)
	})
	return &testStore{system: system, pid: pid}
}

func (ts *testStore) ask(t *testing.T, msg interface{}) interface{} {
	t.Helper()
	future := ts.system.Root.RequestFuture(ts.pid, msg, askTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func (ts *testStore) createPost(t *testing.T, title string, category models.Category, author models.AuthorRef) *models.Post {
	t.Helper()
	result := ts.ask(t, &CreatePostMsg{
		Title:    title,
		Content:  "Body",
		Category: category,
		Author:   author,
	})
	post, ok := result.(*models.Post)
	require.True(t, ok, "expected a post, got %T: %v", result, result)
	return post
}

// The anonymous-mode scenario runs identically against both backends; the
// store contract does not depend on durability.
func TestAnonymousFlow(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Adapter{
		"memory": func(t *testing.T) storage.Adapter {
			return storage.NewMemoryAdapter()
		},
		"file": func(t *testing.T) storage.Adapter {
			adapter, err := storage.NewFileAdapter(t.TempDir() + "/posts.json")
			require.NoError(t, err)
			return adapter
		},
	}

	for name, newAdapter := range backends {
		t.Run(name, func(t *testing.T) {
			ts := newTestStore(t, models.AuthModeAnonymous, newAdapter(t))

			// Create a post
			post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))
			assert.NotEqual(t, uuid.Nil, post.ID)
			assert.Equal(t, "Alice", post.Author.Name)
			assert.Equal(t, 0, post.Views)
			assert.False(t, post.IsSticky)
			assert.False(t, post.IsLocked)
			assert.Empty(t, post.CommentIDs)

			// Add a comment
			result := ts.ask(t, &AddCommentMsg{
				PostID:  post.ID,
				Content: "Nice!",
				Author:  models.NamedAuthor("Bob"),
			})
			comment, ok := result.(*models.Comment)
			require.True(t, ok, "expected a comment, got %T: %v", result, result)
			assert.Equal(t, post.ID, comment.PostID)
			assert.True(t, comment.CreatedAt.After(post.CreatedAt) || comment.CreatedAt.Equal(post.CreatedAt))

			// Fetch the post twice; each fetch counts a view
			first := ts.ask(t, &GetPostMsg{PostID: post.ID}).(*models.Post)
			assert.Equal(t, 1, first.Views)
			assert.Contains(t, first.CommentIDs, comment.ID)
			assert.True(t, first.UpdatedAt.After(post.UpdatedAt))

			second := ts.ask(t, &GetPostMsg{PostID: post.ID}).(*models.Post)
			assert.Equal(t, 2, second.Views)

			// Listing matches the category and resolves comments
			listed := ts.ask(t, &ListPostsMsg{Category: models.CategoryGeneral}).(*ListPostsResult)
			require.Len(t, listed.Posts, 1)
			assert.Equal(t, post.ID, listed.Posts[0].ID)
			assert.Len(t, listed.Posts[0].Comments, 1)
			assert.Equal(t, "Nice!", listed.Posts[0].Comments[0].Content)
			assert.Equal(t, 1, listed.Pagination.Total)
		})
	}
}

func TestViewsCountUnderConcurrentFetches(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))

	// Fire both fetches before waiting on either; the mailbox serializes
	// them so no increment is lost.
	f1 := ts.system.Root.RequestFuture(ts.pid, &GetPostMsg{PostID: post.ID}, askTimeout)
	f2 := ts.system.Root.RequestFuture(ts.pid, &GetPostMsg{PostID: post.ID}, askTimeout)
	_, err := f1.Result()
	require.NoError(t, err)
	_, err = f2.Result()
	require.NoError(t, err)

	listed := ts.ask(t, &ListPostsMsg{}).(*ListPostsResult)
	require.Len(t, listed.Posts, 1)
	assert.Equal(t, 2, listed.Posts[0].Views)
}

func TestListPostsPagination(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())

	for i := 0; i < 12; i++ {
		category := models.CategoryGeneral
		if i%2 == 0 {
			category = models.CategoryScience
		}
		ts.createPost(t, fmt.Sprintf("Post %d", i), category, models.NamedAuthor("Alice"))
	}

	// Defaults: page 1, limit 10
	result := ts.ask(t, &ListPostsMsg{}).(*ListPostsResult)
	assert.Len(t, result.Posts, 10)
	assert.Equal(t, Pagination{Total: 12, Page: 1, Limit: 10, Pages: 2}, result.Pagination)

	// Newest first
	assert.Equal(t, "Post 11", result.Posts[0].Title)
	assert.Equal(t, "Post 2", result.Posts[9].Title)

	// Second page holds the remainder
	result = ts.ask(t, &ListPostsMsg{Page: 2}).(*ListPostsResult)
	assert.Len(t, result.Posts, 2)
	assert.Equal(t, "Post 0", result.Posts[1].Title)

	// Past the end: empty page, metadata still accurate
	result = ts.ask(t, &ListPostsMsg{Page: 7}).(*ListPostsResult)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 12, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.Pages)

	// Category filter never leaks other categories
	result = ts.ask(t, &ListPostsMsg{Category: models.CategoryScience}).(*ListPostsResult)
	assert.Equal(t, 6, result.Pagination.Total)
	for _, p := range result.Posts {
		assert.Equal(t, models.CategoryScience, p.Category)
	}

	// Unknown category matches nothing rather than failing
	result = ts.ask(t, &ListPostsMsg{Category: "Gardening"}).(*ListPostsResult)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 0, result.Pagination.Total)
}

func TestCreatePostValidation(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())

	cases := []struct {
		name string
		msg  *CreatePostMsg
	}{
		{"missing title", &CreatePostMsg{Content: "Body", Category: models.CategoryGeneral, Author: models.NamedAuthor("Alice")}},
		{"missing content", &CreatePostMsg{Title: "Hi", Category: models.CategoryGeneral, Author: models.NamedAuthor("Alice")}},
		{"missing author", &CreatePostMsg{Title: "Hi", Content: "Body", Category: models.CategoryGeneral}},
		{"unknown category", &CreatePostMsg{Title: "Hi", Content: "Body", Category: "Gardening", Author: models.NamedAuthor("Alice")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ts.ask(t, tc.msg)
			appErr, ok := result.(*utils.AppError)
			require.True(t, ok, "expected an error, got %T", result)
			assert.Equal(t, utils.ErrValidation, appErr.Code)
		})
	}

	// Category defaults to General when omitted
	post := ts.createPost(t, "Hi", "", models.NamedAuthor("Alice"))
	assert.Equal(t, models.CategoryGeneral, post.Category)
}

func TestGetPostNotFound(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())

	result := ts.ask(t, &GetPostMsg{PostID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestAddCommentErrors(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))
	other := ts.createPost(t, "Other", models.CategoryGeneral, models.NamedAuthor("Alice"))

	// Unknown post
	result := ts.ask(t, &AddCommentMsg{PostID: uuid.New(), Content: "Hello", Author: models.NamedAuthor("Bob")})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// The failed comment did not land anywhere
	listed := ts.ask(t, &ListPostsMsg{}).(*ListPostsResult)
	for _, p := range listed.Posts {
		assert.Empty(t, p.Comments)
	}

	// Missing content
	result = ts.ask(t, &AddCommentMsg{PostID: post.ID, Author: models.NamedAuthor("Bob")})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	// Missing author name in anonymous mode
	result = ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Hello"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	// Anonymous comments are length-capped
	long := make([]byte, models.MaxAnonymousCommentLen+1)
	for i := range long {
		long[i] = 'x'
	}
	result = ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: string(long), Author: models.NamedAuthor("Bob")})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	// Parent comment must belong to the same post
	comment := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Hello", Author: models.NamedAuthor("Bob")}).(*models.Comment)
	result = ts.ask(t, &AddCommentMsg{PostID: other.ID, Content: "Reply", Author: models.NamedAuthor("Bob"), ParentID: &comment.ID})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	// Unknown parent
	missing := uuid.New()
	result = ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Reply", Author: models.NamedAuthor("Bob"), ParentID: &missing})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestLockedPostRejectsComments(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))

	locked := true
	admin := &models.Identity{ID: uuid.New(), IsAdmin: true}
	flagged := ts.ask(t, &SetPostFlagsMsg{PostID: post.ID, IsLocked: &locked, Identity: admin}).(*models.Post)
	assert.True(t, flagged.IsLocked)

	result := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Hello", Author: models.NamedAuthor("Bob")})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrLocked, appErr.Code)

	// Non-admins cannot flip flags
	result = ts.ask(t, &SetPostFlagsMsg{PostID: post.ID, IsLocked: &locked, Identity: &models.Identity{ID: uuid.New()}})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestDeleteCommentCascades(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))

	parent := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Parent", Author: models.NamedAuthor("Bob")}).(*models.Comment)
	reply := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Reply", Author: models.NamedAuthor("Carol"), ParentID: &parent.ID}).(*models.Comment)
	keeper := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Keeper", Author: models.NamedAuthor("Dave")}).(*models.Comment)

	status := ts.ask(t, &DeleteCommentMsg{CommentID: parent.ID}).(*models.StatusResponse)
	assert.True(t, status.Success)

	// The comment and its reply are gone from the post and the collection
	fetched := ts.ask(t, &GetPostMsg{PostID: post.ID}).(*models.Post)
	assert.NotContains(t, fetched.CommentIDs, parent.ID)
	assert.NotContains(t, fetched.CommentIDs, reply.ID)
	assert.Contains(t, fetched.CommentIDs, keeper.ID)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "Keeper", fetched.Comments[0].Content)

	result := ts.ask(t, &DeleteCommentMsg{CommentID: parent.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestEditCommentAnonymousMode(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))
	comment := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Before", Author: models.NamedAuthor("Bob")}).(*models.Comment)
	assert.False(t, comment.IsEdited)

	// No ownership is enforced without identities
	edited := ts.ask(t, &EditCommentMsg{CommentID: comment.ID, Content: "After"}).(*models.Comment)
	assert.Equal(t, "After", edited.Content)
	assert.True(t, edited.IsEdited)

	// isEdited never resets
	edited = ts.ask(t, &EditCommentMsg{CommentID: comment.ID, Content: "Again"}).(*models.Comment)
	assert.True(t, edited.IsEdited)
}

// faultyAdapter wraps the memory backend with switchable failures. The store
// is only ever poked between asks, so the flags need no locking.
type faultyAdapter struct {
	*storage.MemoryAdapter
	failSaves bool
	failLoads bool
}

func (f *faultyAdapter) Load(ctx context.Context) (*storage.Snapshot, error) {
	if f.failLoads {
		return nil, errors.New("backend unavailable")
	}
	return f.MemoryAdapter.Load(ctx)
}

func (f *faultyAdapter) Save(ctx context.Context, snap *storage.Snapshot) error {
	if f.failSaves {
		return errors.New("backend unavailable")
	}
	return f.MemoryAdapter.Save(ctx, snap)
}

// A failed save leaves the previously persisted snapshot as the effective
// state: the mutation is discarded, never half-applied.
func TestSaveFailureLeavesStoreUntouched(t *testing.T) {
	adapter := &faultyAdapter{MemoryAdapter: storage.NewMemoryAdapter()}
	ts := newTestStore(t, models.AuthModeAnonymous, adapter)
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))

	adapter.failSaves = true

	result := ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: "Lost", Author: models.NamedAuthor("Bob")})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an error, got %T: %v", result, result)
	assert.Equal(t, utils.ErrStorage, appErr.Code)

	// The fused view increment cannot persist either
	result = ts.ask(t, &GetPostMsg{PostID: post.ID})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrStorage, appErr.Code)

	adapter.failSaves = false

	// The store picks up from the pre-failure snapshot: no phantom comment,
	// no phantom view
	listed := ts.ask(t, &ListPostsMsg{}).(*ListPostsResult)
	require.Len(t, listed.Posts, 1)
	assert.Empty(t, listed.Posts[0].Comments)
	assert.Empty(t, listed.Posts[0].CommentIDs)
	assert.Equal(t, 0, listed.Posts[0].Views)
	assert.Equal(t, post.UpdatedAt, listed.Posts[0].UpdatedAt)
}

func TestLoadFailureReportsStorageError(t *testing.T) {
	adapter := &faultyAdapter{MemoryAdapter: storage.NewMemoryAdapter(), failLoads: true}
	ts := newTestStore(t, models.AuthModeAnonymous, adapter)

	result := ts.ask(t, &ListPostsMsg{})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an error, got %T: %v", result, result)
	assert.Equal(t, utils.ErrStorage, appErr.Code)
}

func TestCommentsListedNewestFirst(t *testing.T) {
	ts := newTestStore(t, models.AuthModeAnonymous, storage.NewMemoryAdapter())
	post := ts.createPost(t, "Hi", models.CategoryGeneral, models.NamedAuthor("Alice"))

	for i := 0; i < 3; i++ {
		ts.ask(t, &AddCommentMsg{PostID: post.ID, Content: fmt.Sprintf("c%d", i), Author: models.NamedAuthor("Bob")})
		time.Sleep(time.Millisecond)
	}

	comments := ts.ask(t, &GetCommentsForPostMsg{PostID: post.ID}).([]*models.Comment)
	require.Len(t, comments, 3)
	assert.Equal(t, "c2", comments[0].Content)
	assert.Equal(t, "c0", comments[2].Content)
}
