package handler

import (
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	service service.AnalysisService
	logg    *logger.Logger
}

func NewAnalysisHandler(s service.AnalysisService, logg *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: s, logg: logg}
}

// GetSummary returns overview counts
func (h *AnalysisHandler) GetSummary(c *fiber.Ctx) error {
	stats, err := h.service.Summary(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(stats)
}

func (h *AnalysisHandler) GetTagRanking(c *fiber.Ctx) error {
	tags, err := h.service.TagRanking(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(tags)
}

func (h *AnalysisHandler) GetLocationDistribution(c *fiber.Ctx) error {
	counts, err := h.service.LocationDistribution(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(counts)
}

// GetStockMovement returns daily inbound/outbound totals for charts
// Query params: range (7d, 1m, 3m, 6m, 1y; default 7d)
func (h *AnalysisHandler) GetStockMovement(c *fiber.Ctx) error {
	report, err := h.service.StockMovement(c.UserContext(), c.Query("range", service.DefaultRange))
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(report)
}
