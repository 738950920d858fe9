package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mortgage-qualify/internal/pkg/response"
)

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	db        *gorm.DB
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now()}
}

// Root answers on / with a service banner.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Mortgage Qualification API", fiber.Map{
		"service": "mortgage-qualify",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// HealthCheck answers on /health and verifies database connectivity.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	return response.Success(c, "", fiber.Map{
		"status":   status,
		"database": dbStatus,
	})
}
