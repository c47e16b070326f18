package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cube_navigator/internal/models"
)

// ErrUserNotFound is returned by SetRole for an unknown username.
var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	// The first account becomes the operator; the role is decided inside the
	// insert so two concurrent sign-ups cannot both claim it.
	insertUserSQL = `INSERT INTO users (username, password_hash, role)
SELECT ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'viewer' ELSE 'operator' END
RETURNING id, role`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, role FROM users WHERE username = ?`
	updateUserRoleSQL       = `UPDATE users SET role = ? WHERE username = ?`
)

// Create inserts a new user and returns it with its ID and assigned role.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	u := models.User{Username: username, PasswordHash: passwordHash}
	if err := r.db.QueryRowContext(ctx, insertUserSQL, username, passwordHash).Scan(&u.ID, &u.Role); err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", username, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

// SetRole changes the role of an existing user.
func (r *UserRepository) SetRole(ctx context.Context, username, role string) error {
	res, err := r.db.ExecContext(ctx, updateUserRoleSQL, role, username)
	if err != nil {
		return fmt.Errorf("update role of %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role of %q: %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	return nil
}
