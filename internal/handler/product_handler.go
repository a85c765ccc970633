package handler

import (
	"go-household-inventory/internal/model"
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	lifecycle service.ProductService
	query     service.QueryService
	logg      *logger.Logger
}

func NewProductHandler(lifecycle service.ProductService, query service.QueryService, logg *logger.Logger) *ProductHandler {
	return &ProductHandler{lifecycle: lifecycle, query: query, logg: logg}
}

// CreateProduct registers a new product
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	product, err := h.lifecycle.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      product.ID,
		"message": "product created",
	})
}

// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.query.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	product, err := h.lifecycle.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(product)
}

// UpdateProduct applies a partial update
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	var req model.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	product, err := h.lifecycle.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	return c.JSON(fiber.Map{
		"id":      product.ID,
		"message": "product updated",
	})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	if err := h.lifecycle.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// AdjustStock adds the signed change to the current quantity
// PATCH /api/v1/products/:id/stock
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	var req model.AdjustStockRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	product, err := h.lifecycle.AdjustStock(c.UserContext(), id, *req.Change)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	return c.JSON(fiber.Map{
		"id":             product.ID,
		"stock_quantity": product.StockQuantity,
		"message":        "stock quantity updated",
	})
}

// SetStock overwrites the quantity
// PUT /api/v1/products/:id/stock
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	var req model.SetStockRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	product, err := h.lifecycle.SetStock(c.UserContext(), id, *req.StockQuantity)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	return c.JSON(fiber.Map{
		"id":            product.ID,
		"current_stock": product.StockQuantity,
		"message":       "stock quantity set",
	})
}

// GET /api/v1/products/by-status?status=要購入
func (h *ProductHandler) GetByStatus(c *fiber.Ctx) error {
	products, err := h.query.ListByStatus(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/by-store/:location
func (h *ProductHandler) GetByStore(c *fiber.Ctx) error {
	products, err := h.query.ListByStore(c.UserContext(), pathParam(c, "location"))
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/by-tag/:tag
func (h *ProductHandler) GetByTag(c *fiber.Ctx) error {
	products, err := h.query.ListByTag(c.UserContext(), pathParam(c, "tag"))
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id/history
func (h *ProductHandler) GetHistory(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	movements, err := h.query.History(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(movements)
}

// LookupCheck queries the external catalogue by product id or barcode
// POST /api/v1/products/:idOrBarcode/yahoo-check
func (h *ProductHandler) LookupCheck(c *fiber.Ctx) error {
	result, err := h.lifecycle.LookupCheck(c.UserContext(), pathParam(c, "idOrBarcode"))
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(result)
}
