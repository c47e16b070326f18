package repository

import (
	"context"
	"database/sql"

	"cube_navigator/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetRole(ctx context.Context, username, role string) error
}

type StateRepo interface {
	Save(ctx context.Context, s models.RobotState) error
	Load(ctx context.Context) (models.RobotState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.RobotEvent) error
	List(ctx context.Context, q EventQuery) ([]models.RobotEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
