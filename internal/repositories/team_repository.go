package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sukruthimodem/expertiza/internal/models"
)

// TeamRepository handles database operations for teams and their submitted links
type TeamRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO teams (id, assignment_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, team.ID, team.AssignmentID, team.Name, team.CreatedAt, team.UpdatedAt)
	return err
}

// GetByID retrieves a team by ID, including its submitted links
func (r *TeamRepository) GetByID(id string) (*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, assignment_id, name, created_at, updated_at
		FROM teams WHERE id = ?
	`

	var team models.Team
	err := r.db.QueryRow(query, id).Scan(
		&team.ID,
		&team.AssignmentID,
		&team.Name,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	links, err := r.getLinks(team.ID)
	if err != nil {
		return nil, err
	}
	team.SubmittedLinks = links

	return &team, nil
}

// GetByAssignmentID retrieves all teams for an assignment, including links
func (r *TeamRepository) GetByAssignmentID(assignmentID string) ([]*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, assignment_id, name, created_at, updated_at
		FROM teams WHERE assignment_id = ?
		ORDER BY name
	`

	rows, err := r.db.Query(query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID,
			&team.AssignmentID,
			&team.Name,
			&team.CreatedAt,
			&team.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, team := range teams {
		links, err := r.getLinks(team.ID)
		if err != nil {
			return nil, err
		}
		team.SubmittedLinks = links
	}

	return teams, nil
}

// AddLink appends a submitted link for the team
func (r *TeamRepository) AddLink(teamID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var position int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM team_links WHERE team_id = ?`, teamID).Scan(&position)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO team_links (id, team_id, url, position, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, uuid.New().String(), teamID, url, position, time.Now())
	return err
}

func (r *TeamRepository) getLinks(teamID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT url FROM team_links WHERE team_id = ? ORDER BY position`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		links = append(links, url)
	}
	return links, rows.Err()
}
