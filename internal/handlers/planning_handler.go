package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/planner"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/services"
)

type planningApplicationService interface {
	AddSession(ctx context.Context, clientID int64, at time.Time) (*models.Session, error)
	GenerateRecurringSessions(ctx context.Context, input services.RecurringSessionsInput) (*services.RecurringSessionsResult, error)
	CancelSession(ctx context.Context, sessionID, requestedBy int64) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID int64) error
	MarkSessionDone(ctx context.Context, sessionID, coachID int64) (*models.Session, error)
	HasExistingSession(ctx context.Context, clientID int64, at time.Time) (bool, error)
	SessionsForCoachOnDate(ctx context.Context, coachID int64, day time.Time) ([]models.Session, error)
	MonthlySummary(ctx context.Context, actorID int64, role string, contractID int64) ([]planner.MonthlySummary, error)
}

type PlanningHandler struct {
	service planningApplicationService
}

func NewPlanningHandler(service *services.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: service}
}

type addSessionRequest struct {
	ClientID int64  `json:"client_id"`
	DateTime string `json:"date_time"`
}

type addRecurringRequest struct {
	ClientID      int64  `json:"client_id"`
	StartDate     string `json:"start_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	NumberOfWeeks int    `json:"number_of_weeks"`
	SelectedDays  []int  `json:"selected_days"`
}

type sessionExistsRequest struct {
	ClientID int64  `json:"client_id"`
	DateTime string `json:"date_time"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *PlanningHandler) AddSession(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	var req addSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	clientID, err := resolveClientID(role, actorID, req.ClientID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DateTime))
	if err != nil {
		return badRequest(c, "date_time must be a valid RFC3339 timestamp")
	}

	session, err := h.service.AddSession(c.Context(), clientID, at)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"session_id": session.ID,
		"session":    session,
	})
}

func (h *PlanningHandler) AddRecurringSessions(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	var req addRecurringRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	clientID, err := resolveClientID(role, actorID, req.ClientID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	startDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		return badRequest(c, "start_date must be a valid YYYY-MM-DD date")
	}

	weekdays := make([]time.Weekday, 0, len(req.SelectedDays))
	for _, d := range req.SelectedDays {
		if d < 0 || d > 6 {
			return badRequest(c, "selected_days entries must be between 0 (Sunday) and 6 (Saturday)")
		}
		weekdays = append(weekdays, time.Weekday(d))
	}

	result, err := h.service.GenerateRecurringSessions(c.Context(), services.RecurringSessionsInput{
		ClientID:      clientID,
		StartDate:     startDate,
		StartTime:     strings.TrimSpace(req.StartTime),
		EndTime:       strings.TrimSpace(req.EndTime),
		NumberOfWeeks: req.NumberOfWeeks,
		Weekdays:      weekdays,
	})
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"count":    len(result.Created),
		"skipped":  result.Skipped,
		"sessions": result.Created,
	})
}

func (h *PlanningHandler) CancelSession(c *fiber.Ctx) error {
	actorID, _, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	session, err := h.service.CancelSession(c.Context(), sessionID, actorID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session cancelled",
		"session": session,
	})
}

func (h *PlanningHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	if err := h.service.DeleteSession(c.Context(), sessionID); err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session deleted",
	})
}

func (h *PlanningHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}
	if role != models.RoleCoach && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Forbidden"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !strings.EqualFold(strings.TrimSpace(req.Status), string(models.StatusDone)) {
		return badRequest(c, "status must be DONE")
	}

	session, err := h.service.MarkSessionDone(c.Context(), sessionID, actorID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

func (h *PlanningHandler) CheckSessionExists(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	var req sessionExistsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	clientID, err := resolveClientID(role, actorID, req.ClientID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DateTime))
	if err != nil {
		return badRequest(c, "date_time must be a valid RFC3339 timestamp")
	}

	exists, err := h.service.HasExistingSession(c.Context(), clientID, at)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{"has_session": exists})
}

func (h *PlanningHandler) ListCoachDay(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}
	if role != models.RoleCoach && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Forbidden"})
	}

	day, err := time.Parse("2006-01-02", strings.TrimSpace(c.Query("date")))
	if err != nil {
		return badRequest(c, "date must be a valid YYYY-MM-DD date")
	}

	sessions, err := h.service.SessionsForCoachOnDate(c.Context(), actorID, day)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *PlanningHandler) ContractSummary(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	contractID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contract id")
	}

	months, err := h.service.MonthlySummary(c.Context(), actorID, role, contractID)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{
		"contract_id": contractID,
		"months":      months,
	})
}

// resolveClientID pins clients to themselves: a client may only act on
// their own schedule, while coaches and admins must name the client.
func resolveClientID(role string, actorID, requestedClientID int64) (int64, error) {
	switch role {
	case models.RoleClient:
		if requestedClientID != 0 && requestedClientID != actorID {
			return 0, services.ErrForbidden
		}
		return actorID, nil
	case models.RoleCoach, models.RoleAdmin:
		if requestedClientID <= 0 {
			return 0, services.ErrValidation
		}
		return requestedClientID, nil
	}
	return 0, services.ErrForbidden
}

func actorFromLocals(c *fiber.Ctx) (int64, string, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, "", errors.New("missing user id")
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return 0, "", errors.New("missing role")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, "", err
	}
	return userID, role, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.ErrValidation
	}
	return id, nil
}

func parseQueryID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.ErrValidation
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":    false,
		"error":      message,
		"error_kind": "validation",
	})
}

// mapPlanningError turns service sentinel errors into the discriminated
// responses the UI branches on: error_kind tells it whether to say "fix
// your form", "pick another time" or "too late to cancel".
func mapPlanningError(c *fiber.Ctx, err error) error {
	var windowErr *services.CancelWindowError

	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": err.Error(), "error_kind": "validation",
		})
	case errors.As(err, &windowErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success":         false,
			"error":           windowErr.Error(),
			"error_kind":      "policy_violation",
			"hours_remaining": windowErr.RemainingHours,
		})
	case errors.Is(err, services.ErrCancelWindow):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false, "error": err.Error(), "error_kind": "policy_violation",
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false, "error": "A session already exists at the requested time", "error_kind": "conflict",
		})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false, "error": err.Error(), "error_kind": "invalid_state",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "error": "Forbidden", "error_kind": "forbidden",
		})
	case errors.Is(err, services.ErrNoActiveContract):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Client has no active contract", "error_kind": "not_found",
		})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Not found", "error_kind": "not_found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to process planning request", "error_kind": "persistence",
		})
	}
}
