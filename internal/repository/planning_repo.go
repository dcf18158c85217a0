package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repositories
// can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PlanningRepository struct {
	db DBTX
}

func NewPlanningRepository(db DBTX) *PlanningRepository {
	return &PlanningRepository{db: db}
}

const planningColumns = "id, contract_id, scheduled_at, status, created_at, updated_at"

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.ContractID,
		&session.ScheduledAt,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *PlanningRepository) Create(
	ctx context.Context,
	contractID int64,
	scheduledAt time.Time,
) (*models.Session, error) {
	query := `
		INSERT INTO plannings (contract_id, scheduled_at, status)
		VALUES ($1, $2, 'PLANNED')
		RETURNING ` + planningColumns

	return scanSession(r.db.QueryRow(ctx, query, contractID, scheduledAt))
}

func (r *PlanningRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `
		SELECT ` + planningColumns + `
		FROM plannings
		WHERE id = $1
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// ExistsForClientAt reports whether any non-cancelled session exists at
// exactly the given instant for any contract belonging to the client.
// Both the single and recurring booking paths consult this and nothing
// else; there is no second duplicate-detection rule anywhere.
func (r *PlanningRepository) ExistsForClientAt(
	ctx context.Context,
	clientID int64,
	at time.Time,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM plannings p
			JOIN contracts c ON c.id = p.contract_id
			WHERE c.client_id = $1
			  AND p.status <> 'CANCELLED'
			  AND p.scheduled_at = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, clientID, at).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PlanningRepository) ListForContract(
	ctx context.Context,
	contractID int64,
) ([]models.Session, error) {
	query := `
		SELECT ` + planningColumns + `
		FROM plannings
		WHERE contract_id = $1
		ORDER BY scheduled_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListForCoachOnDate returns every non-cancelled session booked with
// the coach on the given calendar day, for the booking-panel view.
func (r *PlanningRepository) ListForCoachOnDate(
	ctx context.Context,
	coachID int64,
	day time.Time,
) ([]models.Session, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT p.id, p.contract_id, p.scheduled_at, p.status, p.created_at, p.updated_at
		FROM plannings p
		JOIN contracts c ON c.id = p.contract_id
		WHERE c.coach_id = $1
		  AND p.status <> 'CANCELLED'
		  AND p.scheduled_at >= $2
		  AND p.scheduled_at < $3
		ORDER BY p.scheduled_at ASC, p.id ASC
	`
	rows, err := r.db.Query(ctx, query, coachID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *PlanningRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus models.PlanningStatus,
	nextStatus models.PlanningStatus,
) (*models.Session, error) {
	query := `
		UPDATE plannings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + planningColumns

	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

func (r *PlanningRepository) Delete(ctx context.Context, sessionID int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM plannings WHERE id = $1", sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectSessions(rows pgx.Rows) ([]models.Session, error) {
	sessions := make([]models.Session, 0)
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.ContractID,
			&session.ScheduledAt,
			&session.Status,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
