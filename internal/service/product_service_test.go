package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go-household-inventory/internal/lookup"
	"go-household-inventory/internal/model"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateRequiresNameAndLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lifecycle.Create(ctx, &model.CreateProductRequest{PurchaseLocation: "Store"})
	assertCode(t, err, apperror.CodeInvalidRequest)
	assert.Contains(t, err.Error(), "name is required")

	_, err = f.lifecycle.Create(ctx, &model.CreateProductRequest{Name: "Milk"})
	assertCode(t, err, apperror.CodeInvalidRequest)
	assert.Contains(t, err.Error(), "purchase_location is required")

	_, err = f.lifecycle.Create(ctx, &model.CreateProductRequest{Name: "   ", PurchaseLocation: "Store"})
	assertCode(t, err, apperror.CodeInvalidRequest)

	all, err := f.query.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateDefaultsQuantities(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store"})
	assert.Equal(t, 1, p.StockQuantity)
	assert.Equal(t, 1, p.MinimumStock)
	assert.Equal(t, model.StatusInStock, p.Status)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	history, err := f.query.History(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.MovementIn, history[0].Type)
	assert.Equal(t, 1, history[0].Quantity)

	assert.Equal(t, []string{"product_created"}, f.events.actions())
}

func TestCreateWithZeroStockRecordsNoMovement(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, model.CreateProductRequest{
		Name:             "Eggs",
		PurchaseLocation: "Store",
		StockQuantity:    intPtr(0),
		MinimumStock:     intPtr(0),
	})
	stored, err := f.lifecycle.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockQuantity)
	assert.Equal(t, 0, stored.MinimumStock)
	assert.Equal(t, model.StatusInStock, stored.Status)

	history, err := f.query.History(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateValidatesLengthsAndNegatives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   model.CreateProductRequest
		field string
	}{
		{"long name", model.CreateProductRequest{Name: strings.Repeat("x", 101), PurchaseLocation: "Store"}, "name"},
		{"long location", model.CreateProductRequest{Name: "Milk", PurchaseLocation: strings.Repeat("s", 51)}, "purchase_location"},
		{"long description", model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store", Description: strPtr(strings.Repeat("d", 1001))}, "description"},
		{"negative stock", model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store", StockQuantity: intPtr(-1)}, "stock_quantity"},
		{"negative minimum", model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store", MinimumStock: intPtr(-3)}, "minimum_stock"},
		{"long tag", model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store", Tags: []string{strings.Repeat("t", 51)}}, "tags[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.lifecycle.Create(ctx, &req)
			assertCode(t, err, apperror.CodeInvalidRequest)

			details, ok := apperror.As(err).Details().([]*validator.ErrorResponse)
			require.True(t, ok)
			assert.Equal(t, tt.field, details[0].FailedField)
		})
	}
}

func TestNameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, model.CreateProductRequest{Name: strings.Repeat("牛", 100), PurchaseLocation: "スーパー"})
	assert.Equal(t, 100, len([]rune(p.Name)))
}

func TestMilkRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{
		Name:             "Milk",
		PurchaseLocation: "Store",
		StockQuantity:    intPtr(2),
		MinimumStock:     intPtr(3),
	})
	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedToBuy, stored.Status)

	adjusted, err := f.lifecycle.AdjustStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, adjusted.StockQuantity)
	assert.Equal(t, model.StatusInStock, adjusted.Status)

	stored, err = f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.StockQuantity)
	assert.Equal(t, model.StatusInStock, stored.Status)
}

func TestAdjustStockBelowZeroLeavesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Rice", PurchaseLocation: "Store", StockQuantity: intPtr(3)})

	for _, delta := range []int{-4, -10, -100} {
		_, err := f.lifecycle.AdjustStock(ctx, p.ID, delta)
		assertCode(t, err, apperror.CodeInvalidRequest)

		stored, err := f.lifecycle.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.StockQuantity)
	}

	adjusted, err := f.lifecycle.AdjustStock(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.StockQuantity)
	assert.Equal(t, model.StatusNeedToBuy, adjusted.Status)

	history, err := f.query.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	var types []model.MovementType
	for _, m := range history {
		types = append(types, m.Type)
	}
	assert.ElementsMatch(t, []model.MovementType{model.MovementIn, model.MovementOut}, types)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.AdjustStock(context.Background(), uuid.New(), 1)
	assertCode(t, err, apperror.CodeNotFound)
}

func TestSetStockRecomputesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Soap", PurchaseLocation: "Drugstore", StockQuantity: intPtr(5), MinimumStock: intPtr(2)})

	set, err := f.lifecycle.SetStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, set.StockQuantity)
	assert.Equal(t, model.StatusNeedToBuy, set.Status)

	_, err = f.lifecycle.SetStock(ctx, p.ID, -1)
	assertCode(t, err, apperror.CodeInvalidRequest)

	_, err = f.lifecycle.SetStock(ctx, uuid.New(), 4)
	assertCode(t, err, apperror.CodeNotFound)

	history, err := f.query.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Contains(t, []model.MovementType{history[0].Type, history[1].Type}, model.MovementSet)
}

func TestDeleteThenReadIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Tea", PurchaseLocation: "Store", Tags: []string{"drinks"}})
	require.NoError(t, f.lifecycle.Delete(ctx, p.ID))

	_, err := f.lifecycle.Get(ctx, p.ID)
	assertCode(t, err, apperror.CodeNotFound)

	err = f.lifecycle.Delete(ctx, p.ID)
	assertCode(t, err, apperror.CodeNotFound)

	var movements int64
	require.NoError(t, f.db.Model(&model.StockMovement{}).Where("product_id = ?", p.ID).Count(&movements).Error)
	assert.Equal(t, int64(1), movements)

	assert.Equal(t, []string{"product_created", "product_deleted"}, f.events.actions())
}

func TestUpdateRejectsLongNameAndKeepsStoredName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store"})

	_, err := f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{Name: strPtr(strings.Repeat("x", 101))})
	assertCode(t, err, apperror.CodeInvalidRequest)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", stored.Name)
}

func TestUpdateUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.Update(context.Background(), uuid.New(), &model.UpdateProductRequest{Name: strPtr("x")})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestUpdateRecomputesStatusOnMinimumChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Coffee", PurchaseLocation: "Store", StockQuantity: intPtr(2), MinimumStock: intPtr(1)})
	require.Equal(t, model.StatusInStock, p.Status)

	updated, err := f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{MinimumStock: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedToBuy, updated.Status)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.MinimumStock)
	assert.Equal(t, 2, stored.StockQuantity)
	assert.Equal(t, model.StatusNeedToBuy, stored.Status)
	assert.Equal(t, "Coffee", stored.Name)
}

func TestUpdateStockQuantityRecordsMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Sugar", PurchaseLocation: "Store", StockQuantity: intPtr(4), MinimumStock: intPtr(2)})

	_, err := f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{StockQuantity: intPtr(0)})
	require.NoError(t, err)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockQuantity)
	assert.Equal(t, model.StatusNeedToBuy, stored.Status)

	history, err := f.query.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	var out *model.StockMovement
	for i := range history {
		if history[i].Type == model.MovementOut {
			out = &history[i]
		}
	}
	require.NotNil(t, out)
	assert.Equal(t, 4, out.Quantity)
}

func TestUpdatePartialFieldsAndTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{
		Name:             "Shampoo",
		PurchaseLocation: "Drugstore",
		Description:      strPtr("original"),
		Tags:             []string{"bath", "daily"},
	})

	updated, err := f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{
		PurchaseLocation: strPtr("Online"),
		Tags:             []string{"bath", "refill"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Online", updated.PurchaseLocation)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shampoo", stored.Name)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "original", *stored.Description)
	assert.Equal(t, []string{"bath", "refill"}, stored.TagNames())

	_, err = f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{Name: strPtr("Shampoo XL")})
	require.NoError(t, err)
	stored, err = f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bath", "refill"}, stored.TagNames())

	_, err = f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{Tags: []string{}})
	require.NoError(t, err)
	stored, err = f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tags)
}

func TestLookupCheckByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Cola", PurchaseLocation: "Store", Barcode: strPtr("4901234567894")})

	result, err := f.lifecycle.LookupCheck(ctx, p.ID.String())
	require.NoError(t, err)
	require.NotNil(t, result.ID)
	assert.Equal(t, p.ID, *result.ID)
	assert.Equal(t, "4901234567894", result.Barcode)
	require.NotNil(t, result.ProductInfo)
	assert.Equal(t, "Yahoo商品 (4901234567894)", result.ProductInfo.Name)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.YahooChecked)
}

func TestLookupCheckByBarcode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Cola", PurchaseLocation: "Store", Barcode: strPtr("4901234567894")})

	result, err := f.lifecycle.LookupCheck(ctx, "4901234567894")
	require.NoError(t, err)
	require.NotNil(t, result.ID)
	assert.Equal(t, p.ID, *result.ID)

	unknown, err := f.lifecycle.LookupCheck(ctx, "12345678")
	require.NoError(t, err)
	assert.Nil(t, unknown.ID)
	assert.Equal(t, "12345678", unknown.Barcode)
}

func TestLookupCheckErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noBarcode := f.create(t, model.CreateProductRequest{Name: "Bread", PurchaseLocation: "Bakery"})

	_, err := f.lifecycle.LookupCheck(ctx, noBarcode.ID.String())
	assertCode(t, err, apperror.CodeInvalidRequest)

	_, err = f.lifecycle.LookupCheck(ctx, uuid.NewString())
	assertCode(t, err, apperror.CodeNotFound)

	_, err = f.lifecycle.LookupCheck(ctx, "1234")
	assertCode(t, err, apperror.CodeInvalidRequest)

}

type unknownBarcodeProvider struct{}

func (unknownBarcodeProvider) Lookup(context.Context, string) (*lookup.ProductInfo, error) {
	return nil, lookup.ErrNotFound
}

func TestLookupCheckProviderNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products, unknownBarcodeProvider{}, nil, nil, nil)

	_, err := svc.LookupCheck(context.Background(), "4901234567894")
	assertCode(t, err, apperror.CodeNotFound)
}

func TestLookupCheckAlphanumericBarcodeMarksProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Filter", PurchaseLocation: "Online", Barcode: strPtr("ABC12345")})

	result, err := f.lifecycle.LookupCheck(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "ABC12345", result.Barcode)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.YahooChecked)
}

func TestStorageFailuresAreInternal(t *testing.T) {
	repo := new(mockProductRepo)
	svc := NewProductService(repo, lookup.NewMockProvider(), nil, nil, nil)
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, errors.New("connection reset"))

	_, err := svc.AdjustStock(ctx, id, 1)
	assertCode(t, err, apperror.CodeInternal)

	_, err = svc.Get(ctx, id)
	assertCode(t, err, apperror.CodeInternal)

	repo.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	_, err = svc.Create(ctx, &model.CreateProductRequest{Name: "Milk", PurchaseLocation: "Store"})
	assertCode(t, err, apperror.CodeInternal)

	repo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustStockNegativeNeverWrites(t *testing.T) {
	repo := new(mockProductRepo)
	svc := NewProductService(repo, lookup.NewMockProvider(), nil, nil, nil)
	ctx := context.Background()

	p := &model.Product{Name: "Milk", StockQuantity: 1, MinimumStock: 1}
	p.ID = uuid.New()
	repo.On("FindByID", ctx, p.ID).Return(p, nil)

	_, err := svc.AdjustStock(ctx, p.ID, -2)
	assertCode(t, err, apperror.CodeInvalidRequest)
	repo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustStockWritesDerivedStatus(t *testing.T) {
	repo := new(mockProductRepo)
	svc := NewProductService(repo, lookup.NewMockProvider(), nil, nil, nil)
	ctx := context.Background()

	p := &model.Product{Name: "Milk", StockQuantity: 3, MinimumStock: 2, Status: model.StatusInStock}
	p.ID = uuid.New()
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("UpdateStock", ctx, p.ID, 1, model.StatusNeedToBuy, mock.MatchedBy(func(m *model.StockMovement) bool {
		return m.Type == model.MovementOut && m.Quantity == 2 && m.BeforeQuantity == 3 && m.AfterQuantity == 1
	})).Return(nil)

	updated, err := svc.AdjustStock(ctx, p.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedToBuy, updated.Status)
	repo.AssertExpectations(t)
}

func TestAdjustStockRejectsQuantityAboveLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{Name: "Tissue", PurchaseLocation: "Drugstore", StockQuantity: intPtr(5)})

	_, err := f.lifecycle.AdjustStock(ctx, p.ID, math.MaxInt)
	assertCode(t, err, apperror.CodeInvalidRequest)
	assert.Contains(t, err.Error(), "cannot exceed")
	assert.NotContains(t, err.Error(), "below 0")

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity)

	adjusted, err := f.lifecycle.AdjustStock(ctx, p.ID, model.MaxStockQuantity-5)
	require.NoError(t, err)
	assert.Equal(t, model.MaxStockQuantity, adjusted.StockQuantity)

	_, err = f.lifecycle.AdjustStock(ctx, p.ID, 1)
	assertCode(t, err, apperror.CodeInvalidRequest)
	assert.Contains(t, err.Error(), "cannot exceed")

	history, err := f.query.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestStockQuantityUpperBound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tooMany := model.MaxStockQuantity + 1

	_, err := f.lifecycle.Create(ctx, &model.CreateProductRequest{Name: "Paper", PurchaseLocation: "Store", StockQuantity: &tooMany})
	assertCode(t, err, apperror.CodeInvalidRequest)
	assert.Contains(t, err.Error(), "stock_quantity must be at most 2147483647")

	p := f.create(t, model.CreateProductRequest{Name: "Paper", PurchaseLocation: "Store", StockQuantity: intPtr(3)})

	_, err = f.lifecycle.SetStock(ctx, p.ID, tooMany)
	assertCode(t, err, apperror.CodeInvalidRequest)

	_, err = f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{MinimumStock: &tooMany})
	assertCode(t, err, apperror.CodeInvalidRequest)

	set, err := f.lifecycle.SetStock(ctx, p.ID, model.MaxStockQuantity)
	require.NoError(t, err)
	assert.Equal(t, model.MaxStockQuantity, set.StockQuantity)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaxStockQuantity, stored.StockQuantity)
	assert.Equal(t, 1, stored.MinimumStock)
}

func TestUpdateNullClearsOptionalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, model.CreateProductRequest{
		Name:             "Detergent",
		PurchaseLocation: "Drugstore",
		Description:      strPtr("old"),
		Barcode:          strPtr("4901234567894"),
		OrderURL:         strPtr("https://example.com/detergent"),
	})

	_, err := f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{
		Description: model.NullString(),
		Barcode:     model.NullString(),
		ImagePath:   model.SetString("/images/detergent.png"),
	})
	require.NoError(t, err)

	stored, err := f.lifecycle.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Description)
	assert.Nil(t, stored.Barcode)
	require.NotNil(t, stored.ImagePath)
	assert.Equal(t, "/images/detergent.png", *stored.ImagePath)
	require.NotNil(t, stored.OrderURL)
	assert.Equal(t, "https://example.com/detergent", *stored.OrderURL)

	_, err = f.lifecycle.Update(ctx, p.ID, &model.UpdateProductRequest{Description: model.SetString(strings.Repeat("x", 1001))})
	assertCode(t, err, apperror.CodeInvalidRequest)
}
