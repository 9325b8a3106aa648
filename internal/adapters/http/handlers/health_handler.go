package handlers

import (
	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *kvstore.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *kvstore.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Root handles the root endpoint
// @Summary Root endpoint
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Forza loan API is running",
		"mode":    config.AppConfig.AppMode,
	})
}

// HealthCheck reports API and storage health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	storageStatus := "healthy"
	if err := h.store.HealthCheck(); err != nil {
		storageStatus = "unhealthy"
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"storage": storageStatus,
	})
}
