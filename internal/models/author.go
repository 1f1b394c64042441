package models

import "github.com/google/uuid"

// AuthMode selects which identity scheme the deployment runs under. The two
// schemes are mutually exclusive and chosen once at configuration time.
type AuthMode string

const (
	// AuthModeAnonymous: posts and comments carry a free-text author name,
	// no ownership checks are enforced.
	AuthModeAnonymous AuthMode = "anonymous"
	// AuthModeAuthenticated: posts and comments reference a registered user,
	// edit/delete require ownership or admin rights.
	AuthModeAuthenticated AuthMode = "authenticated"
)

// AuthorRef identifies the author of a post or comment. Exactly one field is
// set: Name in anonymous mode, UserID in authenticated mode.
type AuthorRef struct {
	Name   string    `json:"name,omitempty" bson:"name,omitempty"`
	UserID uuid.UUID `json:"userId,omitempty" bson:"userId,omitempty"`
}

func NamedAuthor(name string) AuthorRef {
	return AuthorRef{Name: name}
}

func UserAuthor(id uuid.UUID) AuthorRef {
	return AuthorRef{UserID: id}
}

// IsZero reports whether no author identity is present at all.
func (a AuthorRef) IsZero() bool {
	return a.Name == "" && a.UserID == uuid.Nil
}

// Identity is the caller identity supplied by the identity provider for a
// request. A nil *Identity means the caller is anonymous.
type Identity struct {
	ID      uuid.UUID `json:"id"`
	IsAdmin bool      `json:"isAdmin"`
}

// Owns reports whether this identity may mutate content written by author.
func (i *Identity) Owns(author AuthorRef) bool {
	if i == nil {
		return false
	}
	return i.IsAdmin || (author.UserID != uuid.Nil && author.UserID == i.ID)
}
