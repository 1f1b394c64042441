package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID             uuid.UUID   `json:"id" bson:"id"`
	Content        string      `json:"content" bson:"content"`
	Author         AuthorRef   `json:"author" bson:"author"`
	AuthorUsername string      `json:"authorUsername,omitempty" bson:"-"` // Resolved on read in authenticated mode
	PostID         uuid.UUID   `json:"postId" bson:"postId"`
	ParentID       *uuid.UUID  `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Likes          []uuid.UUID `json:"likes" bson:"likes"`
	IsEdited       bool        `json:"isEdited" bson:"isEdited"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID is in the comment's likes set.
func (c *Comment) LikedBy(userID uuid.UUID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Comment) Clone() *Comment {
	cp := *c
	cp.Likes = make([]uuid.UUID, len(c.Likes))
	copy(cp.Likes, c.Likes)
	if c.ParentID != nil {
		parent := *c.ParentID
		cp.ParentID = &parent
	}
	return &cp
}
