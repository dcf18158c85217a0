package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/services"
)

type availabilityApplicationService interface {
	DeclareWindow(ctx context.Context, clientID int64, startAt, endAt time.Time) (*models.AvailabilityWindow, error)
	RemoveWindow(ctx context.Context, windowID, requestedBy int64, role string) error
	ListWindows(ctx context.Context, clientID int64, day *time.Time) ([]models.AvailabilityWindow, error)
}

type AvailabilityHandler struct {
	service availabilityApplicationService
}

func NewAvailabilityHandler(service *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

type declareWindowRequest struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

func (h *AvailabilityHandler) DeclareWindow(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}
	if role != models.RoleClient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Forbidden"})
	}

	var req declareWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	startAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartAt))
	if err != nil {
		return badRequest(c, "start_at must be a valid RFC3339 timestamp")
	}
	endAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.EndAt))
	if err != nil {
		return badRequest(c, "end_at must be a valid RFC3339 timestamp")
	}

	window, err := h.service.DeclareWindow(c.Context(), actorID, startAt, endAt)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"window":  window,
	})
}

func (h *AvailabilityHandler) RemoveWindow(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	windowID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid availability id")
	}

	if err := h.service.RemoveWindow(c.Context(), windowID, actorID, role); err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Availability removed"})
}

func (h *AvailabilityHandler) ListWindows(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	clientID := actorID
	if role == models.RoleCoach || role == models.RoleAdmin {
		id, err := parseQueryID(c, "client_id")
		if err != nil {
			return badRequest(c, "client_id is required")
		}
		clientID = id
	}

	var day *time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "date must be a valid YYYY-MM-DD date")
		}
		day = &parsed
	}

	windows, err := h.service.ListWindows(c.Context(), clientID, day)
	if err != nil {
		return mapPlanningError(c, err)
	}

	return c.JSON(fiber.Map{"windows": windows})
}
