package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Products *ProductHandler
	Tags     *TagHandler
	Analysis *AnalysisHandler
	Purchase *PurchaseHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API. Fixed product paths are registered before
// the :id routes so they are not captured as ids.
func RegisterRoutes(api fiber.Router, h Handlers) {
	api.Get("/healthz", h.Health.Health)

	products := api.Group("/products")
	products.Get("/by-status", h.Products.GetByStatus)
	products.Get("/by-store/:location", h.Products.GetByStore)
	products.Get("/by-tag/:tag", h.Products.GetByTag)
	products.Get("/", h.Products.GetProducts)
	products.Post("/", h.Products.CreateProduct)
	products.Get("/:id", h.Products.GetProduct)
	products.Put("/:id", h.Products.UpdateProduct)
	products.Delete("/:id", h.Products.DeleteProduct)
	products.Patch("/:id/stock", h.Products.AdjustStock)
	products.Put("/:id/stock", h.Products.SetStock)
	products.Get("/:id/history", h.Products.GetHistory)
	products.Post("/:idOrBarcode/yahoo-check", h.Products.LookupCheck)

	tags := api.Group("/tags")
	tags.Get("/", h.Tags.GetTags)
	tags.Post("/", h.Tags.CreateTag)
	tags.Put("/:id", h.Tags.RenameTag)
	tags.Delete("/:id", h.Tags.DeleteTag)

	analysis := api.Group("/analysis")
	analysis.Get("/summary", h.Analysis.GetSummary)
	analysis.Get("/tags", h.Analysis.GetTagRanking)
	analysis.Get("/locations", h.Analysis.GetLocationDistribution)
	analysis.Get("/stock-movement", h.Analysis.GetStockMovement)

	api.Get("/purchase-list", h.Purchase.GetPurchaseList)
	api.Post("/purchase-list/complete", h.Purchase.CompletePurchase)
}
