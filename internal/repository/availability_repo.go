package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
)

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const availabilityColumns = "id, client_id, day, start_at, end_at, created_at"

func scanWindow(row pgx.Row) (*models.AvailabilityWindow, error) {
	var window models.AvailabilityWindow
	err := row.Scan(
		&window.ID,
		&window.ClientID,
		&window.Day,
		&window.StartAt,
		&window.EndAt,
		&window.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *AvailabilityRepository) Create(
	ctx context.Context,
	clientID int64,
	day time.Time,
	startAt time.Time,
	endAt time.Time,
) (*models.AvailabilityWindow, error) {
	query := `
		INSERT INTO availabilities (client_id, day, start_at, end_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + availabilityColumns

	return scanWindow(r.db.QueryRow(ctx, query, clientID, day, startAt, endAt))
}

func (r *AvailabilityRepository) GetByID(
	ctx context.Context,
	windowID int64,
) (*models.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availabilities
		WHERE id = $1
	`
	return scanWindow(r.db.QueryRow(ctx, query, windowID))
}

func (r *AvailabilityRepository) ListForClient(
	ctx context.Context,
	clientID int64,
	day *time.Time,
) ([]models.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availabilities
		WHERE client_id = $1
	`
	args := []any{clientID}
	if day != nil {
		query += " AND day = $2"
		args = append(args, *day)
	}
	query += " ORDER BY start_at ASC, id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]models.AvailabilityWindow, 0)
	for rows.Next() {
		var window models.AvailabilityWindow
		if err := rows.Scan(
			&window.ID,
			&window.ClientID,
			&window.Day,
			&window.StartAt,
			&window.EndAt,
			&window.CreatedAt,
		); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, windowID int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM availabilities WHERE id = $1", windowID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
