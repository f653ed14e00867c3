package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MetricSourceGithub tags metric records produced by the GitHub aggregation engine
const MetricSourceGithub = "github"

// Metric is the persisted aggregate for one github identity on one team:
// the identity's total commit count and, when resolvable, the owning
// participant. Records are keyed by (team_id, github_id); re-running
// aggregation updates the total in place, it never sums or deletes.
type Metric struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	TeamID        string    `json:"team_id"`
	GithubID      string    `json:"github_id"` // author's github email identity
	ParticipantID *string   `json:"participant_id,omitempty"`
	TotalCommits  int       `json:"total_commits"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewMetric creates a new Metric with a generated UUID
func NewMetric(teamID, githubID string, totalCommits int) *Metric {
	now := time.Now()
	return &Metric{
		ID:           uuid.New().String(),
		Source:       MetricSourceGithub,
		TeamID:       teamID,
		GithubID:     githubID,
		TotalCommits: totalCommits,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates the Metric fields
func (m *Metric) Validate() error {
	if m.TeamID == "" {
		return errors.New("team ID is required")
	}
	if m.GithubID == "" {
		return errors.New("github ID is required")
	}
	if m.TotalCommits < 0 {
		return errors.New("total commits cannot be negative")
	}
	return nil
}
