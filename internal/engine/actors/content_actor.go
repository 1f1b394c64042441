package actors

import (
	stdctx "context"
	"log"
	"time"

	"driftwood/internal/models"
	"driftwood/internal/storage"
	"driftwood/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for the ContentActor
type (
	ListPostsMsg struct {
		Category models.Category `json:"category,omitempty"`
		Page     int             `json:"page"`
		Limit    int             `json:"limit"`
	}

	GetPostMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	CreatePostMsg struct {
		Title    string           `json:"title"`
		Content  string           `json:"content"`
		Category models.Category  `json:"category"`
		Author   models.AuthorRef `json:"author"`
	}

	AddCommentMsg struct {
		PostID   uuid.UUID        `json:"postId"`
		Content  string           `json:"content"`
		Author   models.AuthorRef `json:"author"`
		ParentID *uuid.UUID       `json:"parentId,omitempty"`
	}

	GetCommentsForPostMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	EditCommentMsg struct {
		CommentID uuid.UUID        `json:"commentId"`
		Content   string           `json:"content"`
		Identity  *models.Identity `json:"identity,omitempty"`
	}

	DeleteCommentMsg struct {
		CommentID uuid.UUID        `json:"commentId"`
		Identity  *models.Identity `json:"identity,omitempty"`
	}

	ToggleCommentLikeMsg struct {
		CommentID uuid.UUID        `json:"commentId"`
		Identity  *models.Identity `json:"identity,omitempty"`
	}

	TogglePostLikeMsg struct {
		PostID   uuid.UUID        `json:"postId"`
		Identity *models.Identity `json:"identity,omitempty"`
	}

	SetPostFlagsMsg struct {
		PostID   uuid.UUID        `json:"postId"`
		IsSticky *bool            `json:"isSticky,omitempty"`
		IsLocked *bool            `json:"isLocked,omitempty"`
		Identity *models.Identity `json:"identity,omitempty"`
	}

	RegisterUserMsg struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginMsg struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetCountsMsg struct{}
)

// ListPostsResult pairs a page of posts with its pagination metadata.
type ListPostsResult struct {
	Posts      []*models.Post `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

// LikeResult reports the like count after a toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// Counts reports collection sizes for the health endpoint.
type Counts struct {
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Users    int `json:"users"`
}

// ContentActor is the content store. It owns one backend adapter and handles
// every operation as a single load-transform-save over the whole snapshot.
// The mailbox serializes mutations, so two concurrent writers can never load
// the same snapshot and overwrite one another's changes.
type ContentActor struct {
	mode    models.AuthMode
	adapter storage.Adapter
	metrics *utils.MetricsCollector
}

func NewContentActor(mode models.AuthMode, adapter storage.Adapter, metrics *utils.MetricsCollector) actor.Actor {
	return &ContentActor{
		mode:    mode,
		adapter: adapter,
		metrics: metrics,
	}
}

func (a *ContentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ContentActor started (mode=%s, durable=%v)", a.mode, a.adapter.Durable())

	case *actor.Stopping:
		log.Printf("ContentActor stopping")

	case *ListPostsMsg:
		a.handleListPosts(context, msg)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *AddCommentMsg:
		a.handleAddComment(context, msg)
	case *GetCommentsForPostMsg:
		a.handleGetPostComments(context, msg)
	case *EditCommentMsg:
		a.handleEditComment(context, msg)
	case *DeleteCommentMsg:
		a.handleDeleteComment(context, msg)
	case *ToggleCommentLikeMsg:
		a.handleToggleCommentLike(context, msg)
	case *TogglePostLikeMsg:
		a.handleTogglePostLike(context, msg)
	case *SetPostFlagsMsg:
		a.handleSetPostFlags(context, msg)
	case *RegisterUserMsg:
		a.handleRegisterUser(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserProfileMsg:
		a.handleGetUserProfile(context, msg)
	case *GetCountsMsg:
		a.handleGetCounts(context)

	default:
		log.Printf("ContentActor: Unknown message type %T", msg)
	}
}

// load reads the current snapshot. On failure it responds with a storage
// error and returns nil; the caller must bail out.
func (a *ContentActor) load(context actor.Context) *storage.Snapshot {
	snap, err := a.adapter.Load(stdctx.Background())
	if err != nil {
		log.Printf("ContentActor: failed to load snapshot: %v", err)
		context.Respond(utils.NewStorageError("Failed to load data", err))
		return nil
	}
	return snap
}

// save persists the transformed snapshot. On failure the previously saved
// snapshot stays effective; the next load starts from it again.
func (a *ContentActor) save(context actor.Context, snap *storage.Snapshot) bool {
	if err := a.adapter.Save(stdctx.Background(), snap); err != nil {
		log.Printf("ContentActor: failed to save snapshot: %v", err)
		context.Respond(utils.NewStorageError("Failed to save data", err))
		return false
	}
	return true
}

// resolvePost returns a response copy of a post with its comments attached
// newest-first and author usernames filled in.
func (a *ContentActor) resolvePost(snap *storage.Snapshot, post *models.Post) *models.Post {
	resolved := post.Clone()
	resolved.AuthorUsername = a.resolveUsername(snap, post.Author)

	comments := snap.PostComments(post.ID)
	SortCommentsNewestFirst(comments)
	resolved.Comments = make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		resolved.Comments = append(resolved.Comments, a.resolveComment(snap, c))
	}
	return resolved
}

func (a *ContentActor) resolveComment(snap *storage.Snapshot, comment *models.Comment) *models.Comment {
	resolved := comment.Clone()
	resolved.AuthorUsername = a.resolveUsername(snap, comment.Author)
	return resolved
}

func (a *ContentActor) resolveUsername(snap *storage.Snapshot, author models.AuthorRef) string {
	if a.mode != models.AuthModeAuthenticated || author.UserID == uuid.Nil {
		return ""
	}
	if user := snap.FindUser(author.UserID); user != nil {
		return user.Username
	}
	return "[unknown]"
}

func (a *ContentActor) handleListPosts(context actor.Context, msg *ListPostsMsg) {
	snap := a.load(context)
	if snap == nil {
		return
	}

	matched := FilterByCategory(snap.Posts, msg.Category)
	SortPostsNewestFirst(matched)
	page, pagination := Paginate(matched, msg.Page, msg.Limit)

	posts := make([]*models.Post, 0, len(page))
	for _, p := range page {
		posts = append(posts, a.resolvePost(snap, p))
	}

	context.Respond(&ListPostsResult{Posts: posts, Pagination: pagination})
}

// handleGetPost returns the post and counts the view in the same operation,
// so near-simultaneous fetches each count exactly once.
func (a *ContentActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	startTime := time.Now()

	snap := a.load(context)
	if snap == nil {
		return
	}

	post := snap.FindPost(msg.PostID)
	if post == nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	post.Views++
	if !a.save(context, snap) {
		return
	}

	a.metrics.AddOperationLatency("get_post", time.Since(startTime))
	context.Respond(a.resolvePost(snap, post))
}

func (a *ContentActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	input := models.NewPostInput{
		Title:    msg.Title,
		Content:  msg.Content,
		Category: msg.Category,
		Author:   msg.Author,
	}
	if err := input.Validate(a.mode); err != nil {
		context.Respond(err)
		return
	}

	snap := a.load(context)
	if snap == nil {
		return
	}

	if a.mode == models.AuthModeAuthenticated && snap.FindUser(input.Author.UserID) == nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	now := time.Now()
	newPost := &models.Post{
		ID:         uuid.New(),
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		Author:     input.Author,
		CommentIDs: make([]uuid.UUID, 0),
		Views:      0,
		Likes:      make([]uuid.UUID, 0),
		IsSticky:   false,
		IsLocked:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	snap.Posts = append(snap.Posts, newPost)

	if !a.save(context, snap) {
		return
	}

	log.Printf("Created post %s in category %s", newPost.ID, newPost.Category)
	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(a.resolvePost(snap, newPost))
}

func (a *ContentActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	startTime := time.Now()

	snap := a.load(context)
	if snap == nil {
		return
	}

	post := snap.FindPost(msg.PostID)
	if post == nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}
	input := models.NewCommentInput{Content: msg.Content, Author: msg.Author}
	if err := input.Validate(a.mode); err != nil {
		context.Respond(err)
		return
	}

	if post.IsLocked {
		context.Respond(utils.NewAppError(utils.ErrLocked, "Post is locked", nil))
		return
	}

	if a.mode == models.AuthModeAuthenticated && snap.FindUser(input.Author.UserID) == nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	if msg.ParentID != nil {
		parent := snap.FindComment(*msg.ParentID)
		if parent == nil {
			context.Respond(utils.NewNotFoundError("Parent comment"))
			return
		}
		if parent.PostID != msg.PostID {
			context.Respond(utils.NewValidationError("Parent comment belongs to a different post"))
			return
		}
	}

	now := time.Now()
	newComment := &models.Comment{
		ID:        uuid.New(),
		Content:   input.Content,
		Author:    input.Author,
		PostID:    msg.PostID,
		ParentID:  msg.ParentID,
		Likes:     make([]uuid.UUID, 0),
		IsEdited:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	snap.Comments = append(snap.Comments, newComment)
	post.CommentIDs = append(post.CommentIDs, newComment.ID)
	post.UpdatedAt = now

	if !a.save(context, snap) {
		return
	}

	a.metrics.AddOperationLatency("add_comment", time.Since(startTime))
	context.Respond(a.resolveComment(snap, newComment))
}

func (a *ContentActor) handleGetPostComments(context actor.Context, msg *GetCommentsForPostMsg) {
	snap := a.load(context)
	if snap == nil {
		return
	}

	if snap.FindPost(msg.PostID) == nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	comments := snap.PostComments(msg.PostID)
	SortCommentsNewestFirst(comments)

	resolved := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		resolved = append(resolved, a.resolveComment(snap, c))
	}
	context.Respond(resolved)
}

// authorizeCommentChange applies the per-mode ownership rule: authenticated
// deployments require the comment's author or an admin; anonymous
// deployments have no identities to check, so any caller may mutate.
func (a *ContentActor) authorizeCommentChange(comment *models.Comment, identity *models.Identity) *utils.AppError {
	if a.mode != models.AuthModeAuthenticated {
		return nil
	}
	if identity == nil {
		return utils.NewUnauthorizedError("identity required")
	}
	if !identity.Owns(comment.Author) {
		return utils.NewForbiddenError("not the comment author")
	}
	return nil
}

func (a *ContentActor) handleEditComment(context actor.Context, msg *EditCommentMsg) {
	startTime := time.Now()

	snap := a.load(context)
	if snap == nil {
		return
	}

	comment := snap.FindComment(msg.CommentID)
	if comment == nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}
	if err := a.authorizeCommentChange(comment, msg.Identity); err != nil {
		context.Respond(err)
		return
	}

	input := models.NewCommentInput{Content: msg.Content, Author: comment.Author}
	if err := input.Validate(a.mode); err != nil {
		context.Respond(err)
		return
	}

	comment.Content = input.Content
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()

	if !a.save(context, snap) {
		return
	}

	a.metrics.AddOperationLatency("edit_comment", time.Since(startTime))
	context.Respond(a.resolveComment(snap, comment))
}

func (a *ContentActor) handleDeleteComment(context actor.Context, msg *DeleteCommentMsg) {
	startTime := time.Now()

	snap := a.load(context)
	if snap == nil {
		return
	}

	comment := snap.FindComment(msg.CommentID)
	if comment == nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}
	if err := a.authorizeCommentChange(comment, msg.Identity); err != nil {
		context.Respond(err)
		return
	}

	// Replies to the deleted comment go with it, keeping the thread free of
	// dangling parent references. All removals land in one save.
	doomed := []uuid.UUID{msg.CommentID}
	for i := 0; i < len(doomed); i++ {
		for _, c := range snap.Comments {
			if c.ParentID != nil && *c.ParentID == doomed[i] {
				doomed = append(doomed, c.ID)
			}
		}
	}
	for _, id := range doomed {
		snap.RemoveComment(id)
	}
	if post := snap.FindPost(comment.PostID); post != nil {
		post.UpdatedAt = time.Now()
	}

	if !a.save(context, snap) {
		return
	}

	log.Printf("Deleted comment %s (and %d replies)", msg.CommentID, len(doomed)-1)
	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Comment deleted successfully"})
}

func (a *ContentActor) handleToggleCommentLike(context actor.Context, msg *ToggleCommentLikeMsg) {
	if msg.Identity == nil {
		context.Respond(utils.NewUnauthorizedError("login required to like"))
		return
	}

	snap := a.load(context)
	if snap == nil {
		return
	}

	comment := snap.FindComment(msg.CommentID)
	if comment == nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	liked := toggleLike(&comment.Likes, msg.Identity.ID)
	if !a.save(context, snap) {
		return
	}
	context.Respond(&LikeResult{Liked: liked, LikesCount: len(comment.Likes)})
}

func (a *ContentActor) handleTogglePostLike(context actor.Context, msg *TogglePostLikeMsg) {
	if msg.Identity == nil {
		context.Respond(utils.NewUnauthorizedError("login required to like"))
		return
	}

	snap := a.load(context)
	if snap == nil {
		return
	}

	post := snap.FindPost(msg.PostID)
	if post == nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	liked := toggleLike(&post.Likes, msg.Identity.ID)
	post.UpdatedAt = time.Now()
	if !a.save(context, snap) {
		return
	}
	context.Respond(&LikeResult{Liked: liked, LikesCount: len(post.Likes)})
}

// toggleLike idempotently adds or removes id from the likes set and reports
// whether it is present afterwards.
func toggleLike(likes *[]uuid.UUID, id uuid.UUID) bool {
	for i, existing := range *likes {
		if existing == id {
			*likes = append((*likes)[:i], (*likes)[i+1:]...)
			return false
		}
	}
	*likes = append(*likes, id)
	return true
}

func (a *ContentActor) handleSetPostFlags(context actor.Context, msg *SetPostFlagsMsg) {
	if msg.Identity == nil || !msg.Identity.IsAdmin {
		context.Respond(utils.NewForbiddenError("admin rights required"))
		return
	}

	snap := a.load(context)
	if snap == nil {
		return
	}

	post := snap.FindPost(msg.PostID)
	if post == nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	if msg.IsSticky != nil {
		post.IsSticky = *msg.IsSticky
	}
	if msg.IsLocked != nil {
		post.IsLocked = *msg.IsLocked
	}
	post.UpdatedAt = time.Now()

	if !a.save(context, snap) {
		return
	}
	context.Respond(a.resolvePost(snap, post))
}

func (a *ContentActor) handleRegisterUser(context actor.Context, msg *RegisterUserMsg) {
	if a.mode != models.AuthModeAuthenticated {
		context.Respond(utils.NewAppError(utils.ErrValidation, "Registration is disabled in anonymous mode", nil))
		return
	}

	input := models.NewUserInput{Username: msg.Username, Email: msg.Email, Password: msg.Password}
	if err := input.Validate(); err != nil {
		context.Respond(err)
		return
	}

	snap := a.load(context)
	if snap == nil {
		return
	}

	if snap.FindUserByEmail(input.Email) != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email is already registered", nil))
		return
	}
	if snap.FindUserByUsername(input.Username) != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username is already taken", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrValidation, "Failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: string(hashed),
		Avatar:         "default-avatar.png",
		Bio:            "",
		IsAdmin:        false,
		JoinedAt:       time.Now(),
	}
	snap.Users = append(snap.Users, user)

	if !a.save(context, snap) {
		return
	}

	log.Printf("Registered user %s (%s)", user.Username, user.ID)
	context.Respond(user.Profile())
}

func (a *ContentActor) handleLogin(context actor.Context, msg *LoginMsg) {
	snap := a.load(context)
	if snap == nil {
		return
	}

	user := snap.FindUserByEmail(msg.Email)
	if user == nil {
		context.Respond(&models.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		log.Printf("Login failed for %s: password mismatch", msg.Email)
		context.Respond(&models.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	context.Respond(&models.LoginResponse{
		Success:  true,
		UserID:   user.ID.String(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
}

func (a *ContentActor) handleGetUserProfile(context actor.Context, msg *GetUserProfileMsg) {
	snap := a.load(context)
	if snap == nil {
		return
	}

	user := snap.FindUser(msg.UserID)
	if user == nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}
	context.Respond(user.Profile())
}

func (a *ContentActor) handleGetCounts(context actor.Context) {
	snap := a.load(context)
	if snap == nil {
		return
	}
	context.Respond(&Counts{
		Posts:    len(snap.Posts),
		Comments: len(snap.Comments),
		Users:    len(snap.Users),
	})
}
