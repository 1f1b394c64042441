package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of post categories. Creation validates against
// the set; listing treats unknown values as matching nothing.
type Category string

const (
	CategoryGeneral       Category = "General"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryPolitics      Category = "Politics"
	CategoryScience       Category = "Science"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category, in presentation order.
var Categories = []Category{
	CategoryGeneral,
	CategoryTechnology,
	CategorySports,
	CategoryEntertainment,
	CategoryPolitics,
	CategoryScience,
	CategoryOther,
}

func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Post struct {
	ID             uuid.UUID   `json:"id" bson:"id"`
	Title          string      `json:"title" bson:"title"`
	Content        string      `json:"content" bson:"content"`
	Category       Category    `json:"category" bson:"category"`
	Author         AuthorRef   `json:"author" bson:"author"`
	AuthorUsername string      `json:"authorUsername,omitempty" bson:"-"` // Resolved on read in authenticated mode
	CommentIDs     []uuid.UUID `json:"commentIds" bson:"commentIds"`
	Comments       []*Comment  `json:"comments,omitempty" bson:"-"` // Resolved on read, newest first
	Views          int         `json:"views" bson:"views"`
	Likes          []uuid.UUID `json:"likes" bson:"likes"`
	IsSticky       bool        `json:"isSticky" bson:"isSticky"`
	IsLocked       bool        `json:"isLocked" bson:"isLocked"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID is in the post's likes set.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Resolved fields (Comments, AuthorUsername) are
// not carried over; callers resolve them against the snapshot they hold.
func (p *Post) Clone() *Post {
	cp := *p
	cp.CommentIDs = make([]uuid.UUID, len(p.CommentIDs))
	copy(cp.CommentIDs, p.CommentIDs)
	cp.Likes = make([]uuid.UUID, len(p.Likes))
	copy(cp.Likes, p.Likes)
	cp.Comments = nil
	return &cp
}
