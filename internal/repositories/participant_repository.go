package repositories

import (
	"database/sql"
	"sync"

	"github.com/sukruthimodem/expertiza/internal/models"
)

// ParticipantRepository handles database operations for participants
type ParticipantRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create creates a new participant
func (r *ParticipantRepository) Create(participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO participants (id, user_id, assignment_id, team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		participant.ID,
		participant.UserID,
		participant.AssignmentID,
		participant.TeamID,
		participant.CreatedAt,
		participant.UpdatedAt,
	)
	return err
}

// GetByUserAndAssignment retrieves the participant row for a user on an assignment
func (r *ParticipantRepository) GetByUserAndAssignment(userID, assignmentID string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, user_id, assignment_id, team_id, created_at, updated_at
		FROM participants WHERE user_id = ? AND assignment_id = ?
	`

	var participant models.Participant
	err := r.db.QueryRow(query, userID, assignmentID).Scan(
		&participant.ID,
		&participant.UserID,
		&participant.AssignmentID,
		&participant.TeamID,
		&participant.CreatedAt,
		&participant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &participant, nil
}

// GetByTeamID retrieves all participants on a team
func (r *ParticipantRepository) GetByTeamID(teamID string) ([]*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, user_id, assignment_id, team_id, created_at, updated_at
		FROM participants WHERE team_id = ?
	`

	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		var participant models.Participant
		err := rows.Scan(
			&participant.ID,
			&participant.UserID,
			&participant.AssignmentID,
			&participant.TeamID,
			&participant.CreatedAt,
			&participant.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		participants = append(participants, &participant)
	}

	return participants, rows.Err()
}
