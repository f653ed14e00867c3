package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Participant links a user to an assignment team
type Participant struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AssignmentID string    `json:"assignment_id"`
	TeamID       string    `json:"team_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewParticipant creates a new Participant with a generated UUID
func NewParticipant(userID, assignmentID, teamID string) *Participant {
	now := time.Now()
	return &Participant{
		ID:           uuid.New().String(),
		UserID:       userID,
		AssignmentID: assignmentID,
		TeamID:       teamID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates the Participant fields
func (p *Participant) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.AssignmentID == "" {
		return errors.New("assignment ID is required")
	}
	if p.TeamID == "" {
		return errors.New("team ID is required")
	}
	return nil
}
