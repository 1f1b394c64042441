package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"driftwood/internal/engine/actors"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	PostID     string `json:"postId"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName,omitempty"` // Anonymous mode only
	ParentID   string `json:"parentId,omitempty"`   // Optional, for replies
}

// EditCommentRequest represents a request to edit an existing comment
type EditCommentRequest struct {
	CommentID string `json:"commentId"`
	Content   string `json:"content"`
}

// DeleteCommentRequest represents a request to delete a comment
type DeleteCommentRequest struct {
	CommentID string `json:"commentId"`
}

// CommentLikeRequest represents a request to toggle a like on a comment
type CommentLikeRequest struct {
	CommentID string `json:"commentId"`
}

// HandleComment handles comment creation, editing and deletion
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			postID, err := uuid.Parse(req.PostID)
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}

			var parentID *uuid.UUID
			if req.ParentID != "" {
				parsed, err := uuid.Parse(req.ParentID)
				if err != nil {
					http.Error(w, "Invalid parent comment ID", http.StatusBadRequest)
					return
				}
				parentID = &parsed
			}

			author, ok := s.authorRef(w, r, req.AuthorName)
			if !ok {
				return
			}

			log.Printf("Adding comment to post %s", postID)
			result, askErr := s.ask(&actors.AddCommentMsg{
				PostID:   postID,
				Content:  req.Content,
				Author:   author,
				ParentID: parentID,
			})
			s.writeResult(w, result, askErr)

		case http.MethodPut:
			var req EditCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			commentID, err := uuid.Parse(req.CommentID)
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(&actors.EditCommentMsg{
				CommentID: commentID,
				Content:   req.Content,
				Identity:  s.identity(r),
			})
			s.writeResult(w, result, askErr)

		case http.MethodDelete:
			var req DeleteCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			commentID, err := uuid.Parse(req.CommentID)
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(&actors.DeleteCommentMsg{
				CommentID: commentID,
				Identity:  s.identity(r),
			})
			s.writeResult(w, result, askErr)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleGetPostComments lists a post's comments newest-first without
// counting a view.
func (s *Server) HandleGetPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(&actors.GetCommentsForPostMsg{PostID: postID})
		s.writeResult(w, result, askErr)
	}
}

// HandleCommentLike toggles the caller's like on a comment.
func (s *Server) HandleCommentLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CommentLikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		commentID, err := uuid.Parse(req.CommentID)
		if err != nil {
			http.Error(w, "Invalid comment ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(&actors.ToggleCommentLikeMsg{
			CommentID: commentID,
			Identity:  s.identity(r),
		})
		s.writeResult(w, result, askErr)
	}
}
