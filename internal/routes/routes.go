package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/config"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/handlers"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/middleware"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/repository"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	planningRepo := repository.NewPlanningRepository(db)
	contractRepo := repository.NewContractRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)

	cancelWindow := time.Duration(cfg.CancelWindowHours) * time.Hour
	planningService := services.NewPlanningService(db, planningRepo, contractRepo, cancelWindow)
	availabilityService := services.NewAvailabilityService(availabilityRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	planningHandler := handlers.NewPlanningHandler(planningService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	plannings := protected.Group("/plannings")
	plannings.Post("", planningHandler.AddSession)
	plannings.Post("/recurring", planningHandler.AddRecurringSessions)
	plannings.Post("/exists", planningHandler.CheckSessionExists)
	plannings.Get("/day", planningHandler.ListCoachDay)
	plannings.Post("/:id/cancel", planningHandler.CancelSession)
	plannings.Put("/:id/status", planningHandler.UpdateStatus)
	plannings.Delete("/:id",
		middleware.RequireRole(models.RoleCoach, models.RoleAdmin),
		planningHandler.DeleteSession,
	)

	contracts := protected.Group("/contracts")
	contracts.Get("/:id/summary", planningHandler.ContractSummary)

	availabilities := protected.Group("/availabilities")
	availabilities.Post("", availabilityHandler.DeclareWindow)
	availabilities.Get("", availabilityHandler.ListWindows)
	availabilities.Delete("/:id", availabilityHandler.RemoveWindow)
}
