package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Assignment represents a course assignment whose teams submit work as
// GitHub links. CreatedAt doubles as the lower bound for repository commit
// history queries.
type Assignment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAssignment creates a new Assignment with a generated UUID
func NewAssignment(name string) *Assignment {
	now := time.Now()
	return &Assignment{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the Assignment fields
func (a *Assignment) Validate() error {
	if a.Name == "" {
		return errors.New("assignment name is required")
	}
	return nil
}
