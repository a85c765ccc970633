package handler

import (
	"go-household-inventory/internal/model"
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
	logg    *logger.Logger
}

func NewPurchaseHandler(s service.PurchaseService, logg *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{service: s, logg: logg}
}

// GET /api/v1/purchase-list
func (h *PurchaseHandler) GetPurchaseList(c *fiber.Ctx) error {
	groups, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(groups)
}

// CompletePurchase restocks the bought items
// POST /api/v1/purchase-list/complete
func (h *PurchaseHandler) CompletePurchase(c *fiber.Ctx) error {
	var req model.CompletePurchaseRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	results, err := h.service.Complete(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(fiber.Map{"results": results})
}
