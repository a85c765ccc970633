package lookup

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/shopspring/decimal"
)

// MockProvider stands in for the Yahoo shopping API. Results are derived from
// the barcode so repeated lookups agree. Only an empty barcode is unknown.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (MockProvider) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if barcode == "" {
		return nil, ErrNotFound
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(barcode))
	sum := h.Sum32()

	return &ProductInfo{
		Name:         fmt.Sprintf("Yahoo商品 (%s)", barcode),
		Price:        decimal.NewFromInt(int64(sum%10000) + 100),
		Availability: sum%2 == 0,
	}, nil
}
