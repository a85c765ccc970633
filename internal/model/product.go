package model

const (
	DefaultStockQuantity = 1
	DefaultMinimumStock  = 1
)

type Product struct {
	BaseModel
	Name             string  `gorm:"type:varchar(100);not null" json:"name"`
	Description      *string `gorm:"type:varchar(1000)" json:"description"`
	PurchaseLocation string  `gorm:"type:varchar(50);not null;index" json:"purchase_location"`
	ImagePath        *string `json:"image_path"`
	OrderURL         *string `json:"order_url"`
	Barcode          *string `gorm:"type:varchar(64);index" json:"barcode"`

	// No gorm default on the integers: a zero value must be written as zero.
	// INTEGER matches the migration; MaxStockQuantity bounds the values.
	StockQuantity int    `gorm:"type:integer;not null" json:"stock_quantity"`
	MinimumStock  int    `gorm:"type:integer;not null" json:"minimum_stock"`
	Status        Status `gorm:"type:varchar(20);not null;index" json:"status"`
	YahooChecked  bool   `gorm:"not null" json:"yahoo_checked"`

	Tags []Tag `gorm:"many2many:product_tags;" json:"tags"`
}

// RefreshStatus re-derives Status from the current quantities.
func (p *Product) RefreshStatus() {
	p.Status = DeriveStatus(p.StockQuantity, p.MinimumStock)
}

// TagNames returns the attached tag names in stored order.
func (p *Product) TagNames() []string {
	names := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		names[i] = t.Name
	}
	return names
}
