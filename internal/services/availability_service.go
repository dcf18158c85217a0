package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/repository"
)

type availabilityStore interface {
	Create(ctx context.Context, clientID int64, day, startAt, endAt time.Time) (*models.AvailabilityWindow, error)
	GetByID(ctx context.Context, windowID int64) (*models.AvailabilityWindow, error)
	ListForClient(ctx context.Context, clientID int64, day *time.Time) ([]models.AvailabilityWindow, error)
	Delete(ctx context.Context, windowID int64) error
}

type AvailabilityService struct {
	repo availabilityStore
}

func NewAvailabilityService(repo *repository.AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

// DeclareWindow records a block of client free time. Windows are never
// edited; changing one means deleting and declaring again.
func (s *AvailabilityService) DeclareWindow(
	ctx context.Context,
	clientID int64,
	startAt time.Time,
	endAt time.Time,
) (*models.AvailabilityWindow, error) {
	if clientID <= 0 || startAt.IsZero() || endAt.IsZero() {
		return nil, ErrValidation
	}
	startAt = startAt.UTC().Truncate(time.Minute)
	endAt = endAt.UTC().Truncate(time.Minute)
	if !endAt.After(startAt) {
		return nil, ErrValidation
	}

	day := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.Create(ctx, clientID, day, startAt, endAt)
}

// RemoveWindow deletes a window. Clients may only remove their own;
// coaches and admins may remove any.
func (s *AvailabilityService) RemoveWindow(
	ctx context.Context,
	windowID int64,
	requestedBy int64,
	role string,
) error {
	window, err := s.repo.GetByID(ctx, windowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if role == models.RoleClient && window.ClientID != requestedBy {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, windowID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *AvailabilityService) ListWindows(
	ctx context.Context,
	clientID int64,
	day *time.Time,
) ([]models.AvailabilityWindow, error) {
	if clientID <= 0 {
		return nil, ErrValidation
	}
	return s.repo.ListForClient(ctx, clientID, day)
}
