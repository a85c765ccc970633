package model

import "math"

// MaxStockQuantity is the largest quantity the INTEGER stock columns hold.
// The validate tags below repeat it as a literal.
const MaxStockQuantity = math.MaxInt32

// CreateProductRequest is the body of POST /products. Absent quantities
// default to 1.
type CreateProductRequest struct {
	Name             string   `json:"name" validate:"required,notblank,max=100"`
	Description      *string  `json:"description" validate:"omitempty,max=1000"`
	PurchaseLocation string   `json:"purchase_location" validate:"required,notblank,max=50"`
	ImagePath        *string  `json:"image_path"`
	OrderURL         *string  `json:"order_url"`
	Barcode          *string  `json:"barcode" validate:"omitempty,max=64"`
	StockQuantity    *int     `json:"stock_quantity" validate:"omitempty,min=0,max=2147483647"`
	MinimumStock     *int     `json:"minimum_stock" validate:"omitempty,min=0,max=2147483647"`
	Tags             []string `json:"tags" validate:"omitempty,dive,notblank,max=50"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
// The optional text fields accept an explicit null, which clears them.
// A non-nil Tags (including an empty list) replaces the tag set.
type UpdateProductRequest struct {
	Name             *string        `json:"name" validate:"omitempty,notblank,max=100"`
	Description      NullableString `json:"description" validate:"omitempty,max=1000"`
	PurchaseLocation *string        `json:"purchase_location" validate:"omitempty,notblank,max=50"`
	ImagePath        NullableString `json:"image_path"`
	OrderURL         NullableString `json:"order_url"`
	Barcode          NullableString `json:"barcode" validate:"omitempty,max=64"`
	StockQuantity    *int           `json:"stock_quantity" validate:"omitempty,min=0,max=2147483647"`
	MinimumStock     *int           `json:"minimum_stock" validate:"omitempty,min=0,max=2147483647"`
	Tags             []string       `json:"tags" validate:"omitempty,dive,notblank,max=50"`
}

type AdjustStockRequest struct {
	Change *int `json:"change" validate:"required,min=-2147483647,max=2147483647"`
}

type SetStockRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,min=0,max=2147483647"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

type CompletePurchaseItem struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0,max=2147483647"`
}

type CompletePurchaseRequest struct {
	Items []CompletePurchaseItem `json:"items" validate:"required,min=1,dive"`
}
