package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-household-inventory/internal/lookup"
	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/internal/ws"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/logger"
	"go-household-inventory/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinBarcodeLength is the shortest key accepted as a barcode (EAN-8).
const MinBarcodeLength = 8

const productNotFound = "product not found"

// ProductService owns the stock and status lifecycle of a product. Every
// path that changes stock_quantity or minimum_stock re-derives the status.
type ProductService interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*model.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (*model.Product, error)
	LookupCheck(ctx context.Context, idOrBarcode string) (*LookupResult, error)
}

// LookupResult is the outcome of an external catalogue check.
type LookupResult struct {
	ID          *uuid.UUID          `json:"id,omitempty"`
	Barcode     string              `json:"barcode"`
	ProductInfo *lookup.ProductInfo `json:"product_info"`
	Message     string              `json:"message"`
}

type productService struct {
	products repository.ProductRepository
	provider lookup.Provider
	events   EventPublisher
	metrics  *metrics.InventoryMetrics
	logg     *logger.Logger
}

func NewProductService(
	products repository.ProductRepository,
	provider lookup.Provider,
	events EventPublisher,
	m *metrics.InventoryMetrics,
	logg *logger.Logger,
) ProductService {
	if events == nil {
		events = noopPublisher{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &productService{
		products: products,
		provider: provider,
		events:   events,
		metrics:  m,
		logg:     logg,
	}
}

func (s *productService) observe(operation string, err error) {
	code := ""
	if err != nil {
		code = string(apperror.CodeOf(err))
	}
	s.metrics.IncOperation(operation, code)
}

func (s *productService) publish(action string, p *model.Product, message string) {
	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: action,
		Product: map[string]interface{}{
			"id":             p.ID,
			"name":           p.Name,
			"stock_quantity": p.StockQuantity,
			"minimum_stock":  p.MinimumStock,
			"status":         p.Status,
		},
		Message: message,
	})
}

func (s *productService) transition(ctx context.Context, p *model.Product, from model.Status) {
	if from == p.Status {
		return
	}
	s.metrics.IncTransition(string(from), string(p.Status))
	ctx = s.logg.WithProduct(ctx, p.ID.String())
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"from": from,
		"to":   p.Status,
	}), "product status changed")
}

func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (product *model.Product, err error) {
	defer func() { s.observe("create", err) }()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product = &model.Product{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		PurchaseLocation: strings.TrimSpace(req.PurchaseLocation),
		ImagePath:        req.ImagePath,
		OrderURL:         req.OrderURL,
		Barcode:          req.Barcode,
		StockQuantity:    model.DefaultStockQuantity,
		MinimumStock:     model.DefaultMinimumStock,
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.MinimumStock != nil {
		product.MinimumStock = *req.MinimumStock
	}
	product.RefreshStatus()

	movement := model.NewStockMovement(product, 0, model.MovementIn)
	if err := s.products.Create(ctx, product, normalizeTags(req.Tags), movement); err != nil {
		return nil, apperror.Internal(err, "failed to create product")
	}
	if product.Tags == nil {
		product.Tags = []model.Tag{}
	}

	s.publish("product_created", product, fmt.Sprintf("'%s' was added", product.Name))
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}
	if product.Tags == nil {
		product.Tags = []model.Tag{}
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (product *model.Product, err error) {
	defer func() { s.observe("update", err) }()

	product, err = s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var columns []string
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
		columns = append(columns, "name")
	}
	if req.Description.Set {
		product.Description = req.Description.Value
		columns = append(columns, "description")
	}
	if req.PurchaseLocation != nil {
		product.PurchaseLocation = strings.TrimSpace(*req.PurchaseLocation)
		columns = append(columns, "purchase_location")
	}
	if req.ImagePath.Set {
		product.ImagePath = req.ImagePath.Value
		columns = append(columns, "image_path")
	}
	if req.OrderURL.Set {
		product.OrderURL = req.OrderURL.Value
		columns = append(columns, "order_url")
	}
	if req.Barcode.Set {
		product.Barcode = req.Barcode.Value
		columns = append(columns, "barcode")
	}

	before, prevStatus := product.StockQuantity, product.Status
	var movement *model.StockMovement
	if req.StockQuantity != nil || req.MinimumStock != nil {
		if req.StockQuantity != nil {
			product.StockQuantity = *req.StockQuantity
			columns = append(columns, "stock_quantity")
		}
		if req.MinimumStock != nil {
			product.MinimumStock = *req.MinimumStock
			columns = append(columns, "minimum_stock")
		}
		product.RefreshStatus()
		columns = append(columns, "status")
		movement = model.NewStockMovement(product, before, "")
	}
	if len(columns) > 0 {
		columns = append(columns, "updated_at")
	}

	if err := s.products.Update(ctx, product, columns, normalizeTags(req.Tags), movement); err != nil {
		return nil, storeError(err, productNotFound)
	}
	if product.Tags == nil {
		product.Tags = []model.Tag{}
	}
	s.transition(ctx, product, prevStatus)

	s.publish("product_updated", product, fmt.Sprintf("'%s' was updated", product.Name))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { s.observe("delete", err) }()

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return storeError(err, productNotFound)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return storeError(err, productNotFound)
	}

	s.publish("product_deleted", product, fmt.Sprintf("'%s' was deleted", product.Name))
	return nil
}

// AdjustStock applies delta to the current quantity. The read and the write
// are separate store calls, so concurrent adjustments of one product race.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (product *model.Product, err error) {
	defer func() { s.observe("adjust_stock", err) }()

	product, err = s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}

	if delta > model.MaxStockQuantity-product.StockQuantity {
		return nil, apperror.Invalid(fmt.Sprintf("stock_quantity cannot exceed %d", model.MaxStockQuantity)).
			WithDetails(map[string]int{"stock_quantity": product.StockQuantity, "change": delta})
	}
	newStock := product.StockQuantity + delta
	if newStock < 0 {
		return nil, apperror.Invalid("stock_quantity cannot go below 0").
			WithDetails(map[string]int{"stock_quantity": product.StockQuantity, "change": delta})
	}

	kind := model.MovementIn
	if delta < 0 {
		kind = model.MovementOut
	}
	return s.writeStock(ctx, product, newStock, kind, "stock_adjusted")
}

func (s *productService) SetStock(ctx context.Context, id uuid.UUID, quantity int) (product *model.Product, err error) {
	defer func() { s.observe("set_stock", err) }()

	if quantity < 0 {
		return nil, apperror.Invalid("stock_quantity must be an integer of 0 or more")
	}
	if quantity > model.MaxStockQuantity {
		return nil, apperror.Invalid(fmt.Sprintf("stock_quantity must be at most %d", model.MaxStockQuantity))
	}
	product, err = s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}
	return s.writeStock(ctx, product, quantity, model.MovementSet, "stock_set")
}

func (s *productService) writeStock(ctx context.Context, product *model.Product, newStock int, kind model.MovementType, action string) (*model.Product, error) {
	before, prevStatus := product.StockQuantity, product.Status
	product.StockQuantity = newStock
	product.RefreshStatus()

	movement := model.NewStockMovement(product, before, kind)
	if err := s.products.UpdateStock(ctx, product.ID, newStock, product.Status, movement); err != nil {
		return nil, storeError(err, productNotFound)
	}
	s.transition(ctx, product, prevStatus)

	s.publish(action, product, fmt.Sprintf("'%s' stock changed from %d to %d", product.Name, before, newStock))
	return product, nil
}

// LookupCheck resolves key as a product id when it is UUID-shaped and as a
// barcode otherwise, then asks the external provider about the barcode.
func (s *productService) LookupCheck(ctx context.Context, key string) (result *LookupResult, err error) {
	defer func() { s.observe("lookup_check", err) }()

	key = strings.TrimSpace(key)
	var product *model.Product
	barcode := key

	if id, ok := parseID(key); ok {
		product, err = s.products.FindByID(ctx, id)
		if err != nil {
			return nil, storeError(err, productNotFound)
		}
		if product.Barcode == nil || strings.TrimSpace(*product.Barcode) == "" {
			return nil, apperror.Invalid("product has no barcode")
		}
		barcode = strings.TrimSpace(*product.Barcode)
	} else {
		if len([]rune(key)) < MinBarcodeLength {
			return nil, apperror.Invalid(fmt.Sprintf("barcode must be at least %d characters", MinBarcodeLength))
		}
		product, err = s.products.FindByBarcode(ctx, key)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Internal(err, "storage operation failed")
			}
			product = nil
		}
	}

	info, err := s.provider.Lookup(ctx, barcode)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			s.metrics.IncLookup("not_found")
			return nil, apperror.NotFound("no product information for barcode " + barcode)
		}
		s.metrics.IncLookup("error")
		return nil, apperror.Internal(err, "product lookup failed")
	}
	s.metrics.IncLookup("found")

	result = &LookupResult{
		Barcode:     barcode,
		ProductInfo: info,
		Message:     "product lookup completed",
	}
	if product != nil {
		if err := s.products.MarkLookupChecked(ctx, product.ID); err != nil {
			return nil, storeError(err, productNotFound)
		}
		id := product.ID
		result.ID = &id
	}
	return result, nil
}

// parseID accepts only the canonical 36-character UUID form, so long
// numeric barcodes are never mistaken for ids.
func parseID(value string) (uuid.UUID, bool) {
	if len(value) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
