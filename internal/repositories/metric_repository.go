package repositories

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/sukruthimodem/expertiza/internal/models"
)

// MetricRepository handles database operations for metric records
type MetricRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewMetricRepository creates a new MetricRepository
func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// GetByTeamAndGithubID retrieves the metric record for a (team, github identity)
// pair, or nil if none exists yet.
func (r *MetricRepository) GetByTeamAndGithubID(teamID, githubID string) (*models.Metric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, source, team_id, github_id, participant_id, total_commits, created_at, updated_at
		FROM metrics WHERE team_id = ? AND github_id = ?
	`

	var metric models.Metric
	err := r.db.QueryRow(query, teamID, githubID).Scan(
		&metric.ID,
		&metric.Source,
		&metric.TeamID,
		&metric.GithubID,
		&metric.ParticipantID,
		&metric.TotalCommits,
		&metric.CreatedAt,
		&metric.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &metric, nil
}

// Upsert creates the metric record for (team_id, github_id) or updates its
// commit total and participant resolution in place.
func (r *MetricRepository) Upsert(metric *models.Metric) error {
	existing, err := r.GetByTeamAndGithubID(metric.TeamID, metric.GithubID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing != nil {
		query := `
			UPDATE metrics SET total_commits = ?, participant_id = ?, updated_at = ?
			WHERE team_id = ? AND github_id = ?
		`
		_, err = r.db.Exec(query, metric.TotalCommits, metric.ParticipantID, time.Now(), metric.TeamID, metric.GithubID)
		return err
	}

	query := `
		INSERT INTO metrics (id, source, team_id, github_id, participant_id, total_commits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		metric.ID,
		metric.Source,
		metric.TeamID,
		metric.GithubID,
		metric.ParticipantID,
		metric.TotalCommits,
		metric.CreatedAt,
		metric.UpdatedAt,
	)
	return err
}

// GetByTeamID retrieves all metric records for a team
func (r *MetricRepository) GetByTeamID(teamID string) ([]*models.Metric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, source, team_id, github_id, participant_id, total_commits, created_at, updated_at
		FROM metrics WHERE team_id = ?
		ORDER BY total_commits DESC
	`

	return r.queryMetrics(query, teamID)
}

// GetByAssignmentID retrieves all metric records for the teams of an assignment
func (r *MetricRepository) GetByAssignmentID(assignmentID string) ([]*models.Metric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT m.id, m.source, m.team_id, m.github_id, m.participant_id, m.total_commits, m.created_at, m.updated_at
		FROM metrics m
		JOIN teams t ON t.id = m.team_id
		WHERE t.assignment_id = ?
		ORDER BY t.name, m.total_commits DESC
	`

	return r.queryMetrics(query, assignmentID)
}

func (r *MetricRepository) queryMetrics(query string, args ...interface{}) ([]*models.Metric, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.Metric
	for rows.Next() {
		var metric models.Metric
		err := rows.Scan(
			&metric.ID,
			&metric.Source,
			&metric.TeamID,
			&metric.GithubID,
			&metric.ParticipantID,
			&metric.TotalCommits,
			&metric.CreatedAt,
			&metric.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, &metric)
	}

	return metrics, rows.Err()
}
