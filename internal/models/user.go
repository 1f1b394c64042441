package models

import (
	"time"

	"github.com/google/uuid"
)

// User exists only in authenticated deployments. HashedPassword is persisted
// with the snapshot but must never reach an API response; handlers respond
// with Profile instead.
type User struct {
	ID             uuid.UUID `json:"id" bson:"id"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	HashedPassword string    `json:"passwordHash" bson:"passwordHash"`
	Avatar         string    `json:"avatar" bson:"avatar"`
	Bio            string    `json:"bio" bson:"bio"`
	IsAdmin        bool      `json:"isAdmin" bson:"isAdmin"`
	JoinedAt       time.Time `json:"joinedAt" bson:"joinedAt"`
}

// Profile is the outward-facing view of a User.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
	Bio      string    `json:"bio"`
	IsAdmin  bool      `json:"isAdmin"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		IsAdmin:  u.IsAdmin,
		JoinedAt: u.JoinedAt,
	}
}

func (u *User) Clone() *User {
	cp := *u
	return &cp
}
