package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/planner"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/repository"
)

type planningStore interface {
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	ExistsForClientAt(ctx context.Context, clientID int64, at time.Time) (bool, error)
	ListForContract(ctx context.Context, contractID int64) ([]models.Session, error)
	ListForCoachOnDate(ctx context.Context, coachID int64, day time.Time) ([]models.Session, error)
	UpdateStatusIfCurrent(ctx context.Context, sessionID int64, currentStatus, nextStatus models.PlanningStatus) (*models.Session, error)
	Delete(ctx context.Context, sessionID int64) error
}

type contractStore interface {
	GetByID(ctx context.Context, contractID int64) (*models.Contract, error)
	GetActiveForClient(ctx context.Context, clientID int64) (*models.Contract, error)
}

type PlanningService struct {
	db           *pgxpool.Pool
	planningRepo planningStore
	contractRepo contractStore
	cancelWindow time.Duration
	now          func() time.Time
}

func NewPlanningService(
	db *pgxpool.Pool,
	planningRepo *repository.PlanningRepository,
	contractRepo *repository.ContractRepository,
	cancelWindow time.Duration,
) *PlanningService {
	return &PlanningService{
		db:           db,
		planningRepo: planningRepo,
		contractRepo: contractRepo,
		cancelWindow: cancelWindow,
		now:          time.Now,
	}
}

// HasExistingSession is the conflict check both booking paths consult.
// Instants compare at minute granularity; seconds are always zero in
// practice.
func (s *PlanningService) HasExistingSession(
	ctx context.Context,
	clientID int64,
	at time.Time,
) (bool, error) {
	if clientID <= 0 || at.IsZero() {
		return false, ErrValidation
	}
	return s.planningRepo.ExistsForClientAt(ctx, clientID, at.UTC().Truncate(time.Minute))
}

// AddSession books one session at one instant, the ad-hoc path used
// when booking directly off an availability window.
func (s *PlanningService) AddSession(
	ctx context.Context,
	clientID int64,
	at time.Time,
) (*models.Session, error) {
	if clientID <= 0 || at.IsZero() {
		return nil, ErrValidation
	}
	at = at.UTC().Truncate(time.Minute)

	contract, err := s.contractRepo.GetActiveForClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveContract
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txPlanningRepo := repository.NewPlanningRepository(tx)

	// Serialize bookings per client so two tabs cannot both pass the
	// conflict check before either commits.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", clientID); err != nil {
		return nil, err
	}

	exists, err := txPlanningRepo.ExistsForClientAt(ctx, clientID, at)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	session, err := txPlanningRepo.Create(ctx, contract.ID, at)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("planning: add session commit failed client=%d at=%s: %v", clientID, at, err)
		return nil, err
	}
	return session, nil
}

type RecurringSessionsInput struct {
	ClientID      int64
	StartDate     time.Time
	StartTime     string
	EndTime       string
	NumberOfWeeks int
	Weekdays      []time.Weekday
}

type RecurringSessionsResult struct {
	Created []models.Session
	Skipped int
}

// GenerateRecurringSessions expands the weekly pattern into concrete
// instants and books them as one atomic batch. Instants already taken
// are skipped, not overwritten; a storage failure mid-batch rolls the
// whole batch back, since half a recurrence is worse than none.
func (s *PlanningService) GenerateRecurringSessions(
	ctx context.Context,
	input RecurringSessionsInput,
) (*RecurringSessionsResult, error) {
	if input.ClientID <= 0 {
		return nil, ErrValidation
	}

	spec := planner.RecurrenceSpec{
		StartDate:     input.StartDate,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		NumberOfWeeks: input.NumberOfWeeks,
		Weekdays:      input.Weekdays,
	}
	candidates, err := planner.ExpandWeekly(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	contract, err := s.contractRepo.GetActiveForClient(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveContract
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txPlanningRepo := repository.NewPlanningRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.ClientID); err != nil {
		return nil, err
	}

	result := &RecurringSessionsResult{Created: make([]models.Session, 0, len(candidates))}
	for _, candidate := range candidates {
		at := candidate.UTC().Truncate(time.Minute)

		exists, err := txPlanningRepo.ExistsForClientAt(ctx, input.ClientID, at)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		session, err := txPlanningRepo.Create(ctx, contract.ID, at)
		if err != nil {
			return nil, mapUniqueViolation(err)
		}
		result.Created = append(result.Created, *session)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("planning: recurring batch commit failed client=%d weeks=%d: %v",
			input.ClientID, input.NumberOfWeeks, err)
		return nil, err
	}
	return result, nil
}

// CancelSession is the client-initiated path: status flips to CANCELLED
// and the row stays for billing history. The UI hides the action inside
// the window, but the rule is re-validated here regardless of what the
// UI thought.
func (s *PlanningService) CancelSession(
	ctx context.Context,
	sessionID int64,
	requestedBy int64,
) (*models.Session, error) {
	session, err := s.planningRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, session.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != requestedBy {
		return nil, ErrForbidden
	}

	if session.Status != models.StatusPlanned {
		return nil, ErrInvalidStateTransition
	}

	remaining := session.ScheduledAt.Sub(s.now())
	if remaining < s.cancelWindow {
		return nil, &CancelWindowError{
			RequiredHours:  int(s.cancelWindow.Hours()),
			RemainingHours: int(remaining.Hours()),
		}
	}

	cancelled, err := s.planningRepo.UpdateStatusIfCurrent(
		ctx, sessionID, models.StatusPlanned, models.StatusCancelled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return cancelled, nil
}

// DeleteSession hard-removes a row, no time-window rule. The elevated
// role requirement is enforced upstream by the route middleware.
func (s *PlanningService) DeleteSession(ctx context.Context, sessionID int64) error {
	if err := s.planningRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MarkSessionDone lets the owning coach record a held session.
func (s *PlanningService) MarkSessionDone(
	ctx context.Context,
	sessionID int64,
	coachID int64,
) (*models.Session, error) {
	session, err := s.planningRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, session.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.CoachID != coachID {
		return nil, ErrForbidden
	}

	if session.Status != models.StatusPlanned {
		return nil, ErrInvalidStateTransition
	}
	if session.ScheduledAt.After(s.now()) {
		return nil, ErrInvalidStateTransition
	}

	done, err := s.planningRepo.UpdateStatusIfCurrent(
		ctx, sessionID, models.StatusPlanned, models.StatusDone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return done, nil
}

// SessionsForCoachOnDate feeds the "existing sessions that day" panel
// shown while booking.
func (s *PlanningService) SessionsForCoachOnDate(
	ctx context.Context,
	coachID int64,
	day time.Time,
) ([]models.Session, error) {
	if coachID <= 0 || day.IsZero() {
		return nil, ErrValidation
	}
	return s.planningRepo.ListForCoachOnDate(ctx, coachID, day)
}

// MonthlySummary builds the aggregation view for a contract. Clients
// see their own contracts, coaches the ones they hold, admins all.
func (s *PlanningService) MonthlySummary(
	ctx context.Context,
	actorID int64,
	role string,
	contractID int64,
) ([]planner.MonthlySummary, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canAccessContract(role, actorID, contract) {
		return nil, ErrForbidden
	}

	sessions, err := s.planningRepo.ListForContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return planner.AggregateByMonth(sessions, *contract, s.now()), nil
}

func canAccessContract(role string, actorID int64, contract *models.Contract) bool {
	switch role {
	case models.RoleClient:
		return contract.ClientID == actorID
	case models.RoleCoach:
		return contract.CoachID == actorID
	case models.RoleAdmin:
		return true
	}
	return false
}

// mapUniqueViolation turns the storage-layer backstop (partial unique
// index on contract_id, scheduled_at) into the same ErrConflict the
// pre-check produces.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}
