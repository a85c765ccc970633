package service

import (
	"context"
	"sync"
	"testing"

	"go-household-inventory/internal/dbtest"
	"go-household-inventory/internal/lookup"
	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/internal/ws"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordingPublisher) Publish(event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	tags      repository.TagRepository
	movements repository.StockMovementRepository
	events    *recordingPublisher
	lifecycle ProductService
	query     QueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{
		db:        db,
		products:  repository.NewProductRepo(db),
		tags:      repository.NewTagRepo(db),
		movements: repository.NewStockMovementRepo(db),
		events:    &recordingPublisher{},
	}
	f.lifecycle = NewProductService(f.products, lookup.NewMockProvider(), f.events, nil, nil)
	f.query = NewQueryService(f.products, f.movements, config.QueryConfig{StoreEmptyAsNotFound: true})
	return f
}

func (f *fixture) create(t *testing.T, req model.CreateProductRequest) *model.Product {
	t.Helper()
	p, err := f.lifecycle.Create(context.Background(), &req)
	require.NoError(t, err)
	return p
}

func assertCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperror.CodeOf(err), err.Error())
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product, tagNames []string, movement *model.StockMovement) error {
	return m.Called(ctx, product, tagNames, movement).Error(0)
}

func (m *mockProductRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *mockProductRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	args := m.Called(ctx, barcode)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *mockProductRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Product, error) {
	args := m.Called(ctx, status)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) FindByPurchaseLocation(ctx context.Context, location string) ([]model.Product, error) {
	args := m.Called(ctx, location)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) FindByTag(ctx context.Context, tag string) ([]model.Product, error) {
	args := m.Called(ctx, tag)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *model.Product, columns []string, tagNames []string, movement *model.StockMovement) error {
	return m.Called(ctx, product, columns, tagNames, movement).Error(0)
}

func (m *mockProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int, status model.Status, movement *model.StockMovement) error {
	return m.Called(ctx, id, newStock, status, movement).Error(0)
}

func (m *mockProductRepo) MarkLookupChecked(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
