package service

import (
	"context"
	"strings"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/config"

	"github.com/google/uuid"
)

// QueryService answers read-only listings, newest product first.
type QueryService interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByStatus(ctx context.Context, status string) ([]model.Product, error)
	ListByStore(ctx context.Context, location string) ([]model.Product, error)
	ListByTag(ctx context.Context, tag string) ([]model.Product, error)
	History(ctx context.Context, id uuid.UUID) ([]model.StockMovement, error)
}

type queryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	cfg       config.QueryConfig
}

func NewQueryService(products repository.ProductRepository, movements repository.StockMovementRepository, cfg config.QueryConfig) QueryService {
	return &queryService{products: products, movements: movements, cfg: cfg}
}

func (s *queryService) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list products")
	}
	return withTags(products), nil
}

func (s *queryService) ListByStatus(ctx context.Context, value string) ([]model.Product, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperror.Invalid("status query parameter is required")
	}
	status, ok := model.ParseStatus(value)
	if !ok {
		return nil, apperror.Invalid("status must be one of 在庫あり, 要購入, IN_STOCK, NEED_TO_BUY")
	}

	products, err := s.products.FindByStatus(ctx, status)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list products by status")
	}
	return withTags(products), nil
}

// ListByStore matches purchase_location exactly. An empty result is a
// not-found error unless StoreEmptyAsNotFound is off.
func (s *queryService) ListByStore(ctx context.Context, location string) ([]model.Product, error) {
	products, err := s.products.FindByPurchaseLocation(ctx, location)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list products by purchase location")
	}
	if len(products) == 0 && s.cfg.StoreEmptyAsNotFound {
		return nil, apperror.NotFound("no products found for purchase location " + location)
	}
	return withTags(products), nil
}

func (s *queryService) ListByTag(ctx context.Context, tag string) ([]model.Product, error) {
	products, err := s.products.FindByTag(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, apperror.Internal(err, "failed to list products by tag")
	}
	return withTags(products), nil
}

func (s *queryService) History(ctx context.Context, id uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, storeError(err, productNotFound)
	}
	movements, err := s.movements.FindByProduct(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load stock history")
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	return movements, nil
}
