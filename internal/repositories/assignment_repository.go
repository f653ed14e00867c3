package repositories

import (
	"database/sql"
	"sync"

	"github.com/sukruthimodem/expertiza/internal/models"
)

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO assignments (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, assignment.ID, assignment.Name, assignment.CreatedAt, assignment.UpdatedAt)
	return err
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(id string) (*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, created_at, updated_at
		FROM assignments WHERE id = ?
	`

	var assignment models.Assignment
	err := r.db.QueryRow(query, id).Scan(
		&assignment.ID,
		&assignment.Name,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}
