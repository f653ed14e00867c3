package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoGithubToken signals that no GitHub credential is configured. Callers
// must supply a token before aggregation can run; this is a precondition
// failure, not an aggregation error.
var ErrNoGithubToken = errors.New("github access token is not configured")

// User represents a registered user account
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	GithubID  *string    `json:"github_id,omitempty"` // github email identity, if known
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewUser creates a new User with a generated UUID
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the User fields
func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("user name is required")
	}
	if u.Email == "" {
		return errors.New("user email is required")
	}
	return nil
}
