package models

import (
	"fmt"
	"regexp"
	"strings"

	"driftwood/internal/utils"
)

// Field-level limits, matching the published schema.
const (
	MaxTitleLen      = 100
	MaxAuthorNameLen = 50
	MaxUsernameLen   = 20
	MaxBioLen        = 200
	MinPasswordLen   = 6

	// Comments signed with a free-text name are capped; comments from a
	// registered user are unbounded.
	MaxAnonymousCommentLen = 50
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// NewPostInput carries the fields of a create-post request.
type NewPostInput struct {
	Title    string
	Content  string
	Category Category
	Author   AuthorRef
}

// Validate checks the input against the active auth mode. Creation is
// strict: an unknown category is rejected here even though listings treat
// unknown categories as merely matching nothing.
func (in *NewPostInput) Validate(mode AuthMode) *utils.AppError {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Author.Name = strings.TrimSpace(in.Author.Name)

	if in.Title == "" {
		return utils.NewValidationError("Please provide a title")
	}
	if len(in.Title) > MaxTitleLen {
		return utils.NewValidationError(fmt.Sprintf("Title cannot be more than %d characters", MaxTitleLen))
	}
	if in.Content == "" {
		return utils.NewValidationError("Please provide content")
	}
	if in.Category == "" {
		in.Category = CategoryGeneral
	}
	if !ValidCategory(in.Category) {
		return utils.NewValidationError("Please provide a valid category")
	}
	return validateAuthor(in.Author, mode)
}

// NewCommentInput carries the fields of an add-comment request.
type NewCommentInput struct {
	Content string
	Author  AuthorRef
}

func (in *NewCommentInput) Validate(mode AuthMode) *utils.AppError {
	in.Content = strings.TrimSpace(in.Content)
	in.Author.Name = strings.TrimSpace(in.Author.Name)

	if in.Content == "" {
		return utils.NewValidationError("Please provide content")
	}
	if mode == AuthModeAnonymous && len(in.Content) > MaxAnonymousCommentLen {
		return utils.NewValidationError(fmt.Sprintf("Comment cannot be more than %d characters", MaxAnonymousCommentLen))
	}
	return validateAuthor(in.Author, mode)
}

func validateAuthor(author AuthorRef, mode AuthMode) *utils.AppError {
	switch mode {
	case AuthModeAnonymous:
		if author.Name == "" {
			return utils.NewValidationError("Please provide your name")
		}
		if len(author.Name) > MaxAuthorNameLen {
			return utils.NewValidationError(fmt.Sprintf("Name cannot be more than %d characters", MaxAuthorNameLen))
		}
	case AuthModeAuthenticated:
		if author.IsZero() {
			return utils.NewValidationError("Please provide an author")
		}
	}
	return nil
}

// NewUserInput carries the fields of a registration request. The password is
// validated here but hashed by the store; it never lands in the snapshot.
type NewUserInput struct {
	Username string
	Email    string
	Password string
}

func (in *NewUserInput) Validate() *utils.AppError {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return utils.NewValidationError("Please provide a username")
	}
	if len(in.Username) > MaxUsernameLen {
		return utils.NewValidationError(fmt.Sprintf("Username cannot be more than %d characters", MaxUsernameLen))
	}
	if in.Email == "" {
		return utils.NewValidationError("Please provide an email")
	}
	if !emailPattern.MatchString(in.Email) {
		return utils.NewValidationError("Please provide a valid email")
	}
	if len(in.Password) < MinPasswordLen {
		return utils.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLen))
	}
	return nil
}
