package service

import (
	"context"
	"sort"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/pkg/apperror"
)

// PurchaseItem is a product that needs buying and how many to buy.
type PurchaseItem struct {
	model.Product
	RequiredAmount int `json:"required_amount"`
}

type PurchaseGroup struct {
	PurchaseLocation string         `json:"purchase_location"`
	Items            []PurchaseItem `json:"items"`
}

// PurchaseResult reports one item of a completed purchase.
type PurchaseResult struct {
	ID            string         `json:"id"`
	Success       bool           `json:"success"`
	StockQuantity *int           `json:"stock_quantity,omitempty"`
	Status        model.Status   `json:"status,omitempty"`
	Error         *PurchaseError `json:"error,omitempty"`
}

type PurchaseError struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

type PurchaseService interface {
	List(ctx context.Context) ([]PurchaseGroup, error)
	Complete(ctx context.Context, req *model.CompletePurchaseRequest) ([]PurchaseResult, error)
}

type purchaseService struct {
	products  repository.ProductRepository
	lifecycle ProductService
}

func NewPurchaseService(products repository.ProductRepository, lifecycle ProductService) PurchaseService {
	return &purchaseService{products: products, lifecycle: lifecycle}
}

// List groups NEED_TO_BUY products by purchase location, locations sorted by
// name and items newest first.
func (s *purchaseService) List(ctx context.Context) ([]PurchaseGroup, error) {
	products, err := s.products.FindByStatus(ctx, model.StatusNeedToBuy)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load purchase list")
	}

	index := map[string]int{}
	groups := []PurchaseGroup{}
	for _, p := range withTags(products) {
		i, ok := index[p.PurchaseLocation]
		if !ok {
			i = len(groups)
			index[p.PurchaseLocation] = i
			groups = append(groups, PurchaseGroup{PurchaseLocation: p.PurchaseLocation})
		}
		groups[i].Items = append(groups[i].Items, PurchaseItem{
			Product:        p,
			RequiredAmount: p.MinimumStock - p.StockQuantity,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].PurchaseLocation < groups[j].PurchaseLocation
	})
	return groups, nil
}

// Complete restocks each item independently; one failure does not undo the others.
func (s *purchaseService) Complete(ctx context.Context, req *model.CompletePurchaseRequest) ([]PurchaseResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	results := make([]PurchaseResult, 0, len(req.Items))
	for _, item := range req.Items {
		result := PurchaseResult{ID: item.ID}

		id, ok := parseID(item.ID)
		if !ok {
			result.Error = &PurchaseError{Code: apperror.CodeNotFound, Message: productNotFound}
			results = append(results, result)
			continue
		}

		product, err := s.lifecycle.AdjustStock(ctx, id, item.Quantity)
		if err != nil {
			result.Error = &PurchaseError{Code: apperror.CodeOf(err), Message: publicMessage(err)}
		} else {
			qty := product.StockQuantity
			result.Success = true
			result.StockQuantity = &qty
			result.Status = product.Status
		}
		results = append(results, result)
	}
	return results, nil
}

// publicMessage hides internal causes the same way the HTTP envelope does.
func publicMessage(err error) string {
	meta := apperror.MetadataFor(apperror.CodeOf(err))
	if typed := apperror.As(err); typed != nil && meta.ShowMessage {
		return typed.Message()
	}
	return meta.PublicMessage
}
