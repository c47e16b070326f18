package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cube_navigator/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	robotStateRowID = 1

	upsertStateSQL = `
		INSERT INTO robot_state (id, x_mm, y_mm, heading_deg, moving, last_command, cube_known, cube_x_mm, cube_y_mm, cube_heading_deg, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			x_mm=excluded.x_mm,
			y_mm=excluded.y_mm,
			heading_deg=excluded.heading_deg,
			moving=excluded.moving,
			last_command=excluded.last_command,
			cube_known=excluded.cube_known,
			cube_x_mm=excluded.cube_x_mm,
			cube_y_mm=excluded.cube_y_mm,
			cube_heading_deg=excluded.cube_heading_deg,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, x_mm, y_mm, heading_deg, moving, last_command, cube_known, cube_x_mm, cube_y_mm, cube_heading_deg, updated_at
		FROM robot_state WHERE id=?
	`
)

// Save upserts the single robot_state row. A zero UpdatedAt is stamped with
// the current time; times are always stored in UTC.
func (r *StateSQLite) Save(ctx context.Context, s models.RobotState) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		robotStateRowID,
		s.X,
		s.Y,
		s.HeadingDeg,
		s.IsMoving,
		s.LastCommand,
		s.CubeKnown,
		s.CubeX,
		s.CubeY,
		s.CubeHeading,
		ts.UTC(),
	)
	return err
}

// Load returns the persisted state, or a zero RobotState (ID 0) if nothing
// has been saved yet.
func (r *StateSQLite) Load(ctx context.Context) (models.RobotState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, robotStateRowID)

	var (
		s    models.RobotState
		last sql.NullString
	)
	if err := row.Scan(
		&s.ID,
		&s.X,
		&s.Y,
		&s.HeadingDeg,
		&s.IsMoving,
		&last,
		&s.CubeKnown,
		&s.CubeX,
		&s.CubeY,
		&s.CubeHeading,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RobotState{}, nil
		}
		return models.RobotState{}, err
	}
	s.LastCommand = last.String
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
