package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Team represents an assignment team. SubmittedLinks holds the raw
// hyperlinks the team submitted, in submission order.
type Team struct {
	ID             string    `json:"id"`
	AssignmentID   string    `json:"assignment_id"`
	Name           string    `json:"name"`
	SubmittedLinks []string  `json:"submitted_links"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTeam creates a new Team with a generated UUID
func NewTeam(assignmentID, name string) *Team {
	now := time.Now()
	return &Team{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates the Team fields
func (t *Team) Validate() error {
	if t.AssignmentID == "" {
		return errors.New("assignment ID is required")
	}
	if t.Name == "" {
		return errors.New("team name is required")
	}
	return nil
}
