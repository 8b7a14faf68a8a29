package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user row.
func (r *UserRepository) CreateUser(u model.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, email, api_key, plan, request_count, request_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.APIKey, u.Plan, u.RequestCount, u.RequestDate, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByAPIKey looks a user up by their issued key.
func (r *UserRepository) GetUserByAPIKey(apiKey string) (model.User, error) {
	return r.getUser("api_key = ?", apiKey)
}

// GetUserByEmail looks a user up by email.
func (r *UserRepository) GetUserByEmail(email string) (model.User, error) {
	return r.getUser("email = ?", email)
}

// GetUser looks a user up by ID.
func (r *UserRepository) GetUser(id string) (model.User, error) {
	return r.getUser("id = ?", id)
}

func (r *UserRepository) getUser(where string, arg any) (model.User, error) {
	var u model.User
	var createdAtStr string

	err := r.db.QueryRow(`
		SELECT id, email, api_key, plan, request_count, request_date, created_at
		FROM users
		WHERE `+where, arg).Scan(
		&u.ID,
		&u.Email,
		&u.APIKey,
		&u.Plan,
		&u.RequestCount,
		&u.RequestDate,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan users table results: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.User{}, err
	}

	return u, nil
}

// IncrementRequestCount bumps the user's counter for the given day,
// resetting it first when the stored window is older. Returns the count
// after the increment.
func (r *UserRepository) IncrementRequestCount(id, day string) (int, error) {
	_, err := r.db.Exec(`
		UPDATE users
		SET request_count = CASE WHEN request_date = ? THEN request_count + 1 ELSE 1 END,
		    request_date = ?
		WHERE id = ?
	`, day, day, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update request counter: %w", err)
	}

	var count int
	err = r.db.QueryRow(`SELECT request_count FROM users WHERE id = ?`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read request counter: %w", err)
	}
	return count, nil
}

// ResetRequestCounts zeroes every user's daily counter.
func (r *UserRepository) ResetRequestCounts(day string) error {
	_, err := r.db.Exec(`UPDATE users SET request_count = 0, request_date = ?`, day)
	if err != nil {
		return fmt.Errorf("failed to reset request counters: %w", err)
	}
	return nil
}
