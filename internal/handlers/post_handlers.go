package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"driftwood/internal/engine/actors"
	"driftwood/internal/models"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	AuthorName string `json:"authorName,omitempty"` // Anonymous mode only
}

// PostLikeRequest represents a request to toggle a like on a post
type PostLikeRequest struct {
	PostID string `json:"postId"`
}

// PostFlagsRequest represents an admin request to change post flags
type PostFlagsRequest struct {
	PostID   string `json:"postId"`
	IsSticky *bool  `json:"isSticky,omitempty"`
	IsLocked *bool  `json:"isLocked,omitempty"`
}

// HandleListPosts serves paginated post listings with an optional category
// filter.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()
		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))

		result, err := s.ask(&actors.ListPostsMsg{
			Category: models.Category(query.Get("category")),
			Page:     page,
			Limit:    limit,
		})
		s.writeResult(w, result, err)
	}
}

// HandlePost serves a single post (GET, counting the view) and post creation
// (POST).
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			postID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(&actors.GetPostMsg{PostID: postID})
			s.writeResult(w, result, askErr)

		case http.MethodPost:
			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			author, ok := s.authorRef(w, r, req.AuthorName)
			if !ok {
				return
			}

			log.Printf("Creating post %q in category %q", req.Title, req.Category)
			result, err := s.ask(&actors.CreatePostMsg{
				Title:    req.Title,
				Content:  req.Content,
				Category: models.Category(req.Category),
				Author:   author,
			})
			s.writeResult(w, result, err)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePostLike toggles the caller's like on a post.
func (s *Server) HandlePostLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req PostLikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(&actors.TogglePostLikeMsg{
			PostID:   postID,
			Identity: s.identity(r),
		})
		s.writeResult(w, result, askErr)
	}
}

// HandlePostFlags lets admins change the sticky/locked flags.
func (s *Server) HandlePostFlags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req PostFlagsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(&actors.SetPostFlagsMsg{
			PostID:   postID,
			IsSticky: req.IsSticky,
			IsLocked: req.IsLocked,
			Identity: s.identity(r),
		})
		s.writeResult(w, result, askErr)
	}
}

// authorRef builds the author reference for the active mode: the free-text
// name from the body in anonymous mode, the token identity otherwise.
func (s *Server) authorRef(w http.ResponseWriter, r *http.Request, authorName string) (models.AuthorRef, bool) {
	if s.Mode == models.AuthModeAnonymous {
		return models.NamedAuthor(authorName), true
	}

	identity := s.identity(r)
	if identity == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return models.AuthorRef{}, false
	}
	return models.UserAuthor(identity.ID), true
}
