package handler

import (
	"context"
	"time"

	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewHealthHandler(db *gorm.DB, logg *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logg: logg}
}

// Health pings the database
// GET /api/v1/healthz
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logg.Error(ctx, "health check failed", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
