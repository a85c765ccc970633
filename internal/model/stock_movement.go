package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
	MovementSet MovementType = "SET"
)

// StockMovement logs one change of a product's stock quantity. Rows are kept
// after the product is deleted, so there is no relation field (and no FK).
type StockMovement struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName    string       `gorm:"type:varchar(100)" json:"product_name"`
	Type           MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity       int          `gorm:"type:integer;not null" json:"quantity"`
	BeforeQuantity int          `gorm:"type:integer;not null" json:"before_quantity"`
	AfterQuantity  int          `gorm:"type:integer;not null" json:"after_quantity"`
	Status         Status       `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// NewStockMovement describes the change from before to p's current quantity.
// It returns nil when the quantity did not change.
func NewStockMovement(p *Product, before int, kind MovementType) *StockMovement {
	if p.StockQuantity == before && kind != MovementSet {
		return nil
	}
	qty := p.StockQuantity - before
	if kind == "" {
		kind = MovementIn
		if qty < 0 {
			kind = MovementOut
		}
	}
	if qty < 0 {
		qty = -qty
	}
	return &StockMovement{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Type:           kind,
		Quantity:       qty,
		BeforeQuantity: before,
		AfterQuantity:  p.StockQuantity,
		Status:         p.Status,
	}
}
