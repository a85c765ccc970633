// Package lookup resolves barcodes to external product metadata.
package lookup

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the provider has no product for a barcode.
var ErrNotFound = errors.New("lookup: product not found")

// ProductInfo is the metadata an external catalogue returns for a barcode.
type ProductInfo struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Availability bool            `json:"availability"`
}

// Provider looks a barcode up in an external catalogue.
type Provider interface {
	Lookup(ctx context.Context, barcode string) (*ProductInfo, error)
}
