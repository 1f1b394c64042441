package storage

import (
	"context"

	"driftwood/internal/models"

	"github.com/google/uuid"
)

// Snapshot is the entire persisted document graph at one point in time.
// Comments are always first-class entities referencing their post; posts
// carry comment ids. Users are present only in authenticated deployments.
type Snapshot struct {
	Posts    []*models.Post    `json:"posts" bson:"posts"`
	Comments []*models.Comment `json:"comments" bson:"comments"`
	Users    []*models.User    `json:"users,omitempty" bson:"users,omitempty"`
}

// Adapter is the contract both persistence strategies satisfy: read the
// whole snapshot, overwrite the whole snapshot. Save must be atomic from a
// reader's point of view; a failed Save leaves the previously persisted
// snapshot as the effective state.
type Adapter interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	// Durable reports whether saved snapshots survive a process restart.
	Durable() bool
	Close(ctx context.Context) error
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Posts:    make([]*models.Post, 0),
		Comments: make([]*models.Comment, 0),
		Users:    make([]*models.User, 0),
	}
}

func (s *Snapshot) Clone() *Snapshot {
	cp := &Snapshot{
		Posts:    make([]*models.Post, 0, len(s.Posts)),
		Comments: make([]*models.Comment, 0, len(s.Comments)),
		Users:    make([]*models.User, 0, len(s.Users)),
	}
	for _, p := range s.Posts {
		cp.Posts = append(cp.Posts, p.Clone())
	}
	for _, c := range s.Comments {
		cp.Comments = append(cp.Comments, c.Clone())
	}
	for _, u := range s.Users {
		cp.Users = append(cp.Users, u.Clone())
	}
	return cp
}

func (s *Snapshot) FindPost(id uuid.UUID) *models.Post {
	for _, p := range s.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Snapshot) FindComment(id uuid.UUID) *models.Comment {
	for _, c := range s.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// PostComments returns the comments of a post in insertion order.
func (s *Snapshot) PostComments(postID uuid.UUID) []*models.Comment {
	comments := make([]*models.Comment, 0)
	for _, c := range s.Comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments
}

// RemoveComment deletes a comment from the comment collection and from its
// post's comment-id list. Both removals happen on the same in-memory
// snapshot, so they become visible in one Save.
func (s *Snapshot) RemoveComment(id uuid.UUID) {
	for i, c := range s.Comments {
		if c.ID != id {
			continue
		}
		if post := s.FindPost(c.PostID); post != nil {
			kept := make([]uuid.UUID, 0, len(post.CommentIDs))
			for _, cid := range post.CommentIDs {
				if cid != id {
					kept = append(kept, cid)
				}
			}
			post.CommentIDs = kept
		}
		s.Comments = append(s.Comments[:i], s.Comments[i+1:]...)
		return
	}
}

func (s *Snapshot) FindUser(id uuid.UUID) *models.User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Snapshot) FindUserByEmail(email string) *models.User {
	for _, u := range s.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Snapshot) FindUserByUsername(username string) *models.User {
	for _, u := range s.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
