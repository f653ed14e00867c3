package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/sukruthimodem/expertiza/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO users (id, name, email, github_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.GithubID, user.CreatedAt, user.UpdatedAt)
	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, email, github_id, created_at, updated_at, deleted_at
		FROM users WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanUser(r.db.QueryRow(query, id))
}

// GetByGithubID retrieves a user by stored github identity
func (r *UserRepository) GetByGithubID(githubID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, email, github_id, created_at, updated_at, deleted_at
		FROM users WHERE github_id = ? AND deleted_at IS NULL
	`

	return r.scanUser(r.db.QueryRow(query, githubID))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, email, github_id, created_at, updated_at, deleted_at
		FROM users WHERE email = ? AND deleted_at IS NULL
	`

	return r.scanUser(r.db.QueryRow(query, email))
}

// UpdateGithubID stores a learned github identity on the user
func (r *UserRepository) UpdateGithubID(userID, githubID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE users SET github_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, githubID, time.Now(), userID)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.GithubID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
