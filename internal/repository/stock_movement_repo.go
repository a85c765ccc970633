package repository

import (
	"context"
	"time"

	"go-household-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetInventoryStats(ctx context.Context) (*InventoryStats, error)
	GetLocationDistribution(ctx context.Context) ([]LocationCount, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// InventoryStats backs the analysis summary cards.
type InventoryStats struct {
	TotalProducts int64 `json:"total_products"`
	NeedToBuy     int64 `json:"need_to_buy"`
	OutOfStock    int64 `json:"out_of_stock"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// SET movements count by direction of the change.
	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN after_quantity > before_quantity THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN after_quantity < before_quantity THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		// Postgres hands DATE back as a timestamp string.
		if len(data.Date) > len("2006-01-02") {
			data.Date = data.Date[:len("2006-01-02")]
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *stockMovementRepo) GetInventoryStats(ctx context.Context) (*InventoryStats, error) {
	var stats InventoryStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("status = ?", model.StatusNeedToBuy).Count(&stats.NeedToBuy).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("stock_quantity = ?", 0).Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *stockMovementRepo) GetLocationDistribution(ctx context.Context) ([]LocationCount, error) {
	var counts []LocationCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("purchase_location AS location, COUNT(*) AS count").
		Group("purchase_location").
		Order("count DESC, location ASC").
		Scan(&counts).Error
	return counts, err
}
