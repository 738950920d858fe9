package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mortgage-qualify/internal/adapters/http/handlers"
	"mortgage-qualify/internal/config"
	"mortgage-qualify/internal/core/domain"
	"mortgage-qualify/internal/core/services"
)

// Setup configures all routes for the application.
func Setup(
	app *fiber.App,
	db *gorm.DB,
	cfg *config.Config,
	registry *domain.Registry,
	computations *services.ComputationService,
) {
	healthHandler := handlers.NewHealthHandler(db)
	computationHandler := handlers.NewComputationHandler(computations, cfg.Currency)
	institutionHandler := handlers.NewInstitutionHandler(registry)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api/v1")

	computationsGroup := api.Group("/computations")
	computationsGroup.Post("/", computationHandler.Compute)
	computationsGroup.Get("/", computationHandler.List)
	computationsGroup.Get("/:ref", computationHandler.Get)
	computationsGroup.Post("/:ref/reserve", computationHandler.Reserve)

	institutionsGroup := api.Group("/institutions")
	institutionsGroup.Get("/", institutionHandler.List)
	institutionsGroup.Get("/:code", institutionHandler.Get)
}
