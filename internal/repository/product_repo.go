package repository

import (
	"context"
	"time"

	"go-household-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository is the Product Store. Listings are ordered by created_at DESC.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product, tagNames []string, movement *model.StockMovement) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindByStatus(ctx context.Context, status model.Status) ([]model.Product, error)
	FindByPurchaseLocation(ctx context.Context, location string) ([]model.Product, error)
	FindByTag(ctx context.Context, tag string) ([]model.Product, error)
	// Update writes only the given columns. A nil tagNames keeps the current tags.
	Update(ctx context.Context, product *model.Product, columns []string, tagNames []string, movement *model.StockMovement) error
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int, status model.Status, movement *model.StockMovement) error
	MarkLookupChecked(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") })
}

func (r *productRepo) Create(ctx context.Context, product *model.Product, tagNames []string, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		product.Tags = tags
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if movement != nil {
			movement.ProductID = product.ID
			return tx.Create(movement).Error
		}
		return nil
	})
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.query(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.query(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	err := r.query(ctx).Where("barcode = ?", barcode).Order("created_at DESC").First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Product, error) {
	var products []model.Product
	err := r.query(ctx).Where("status = ?", status).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByPurchaseLocation(ctx context.Context, location string) ([]model.Product, error) {
	var products []model.Product
	err := r.query(ctx).Where("purchase_location = ?", location).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByTag(ctx context.Context, tag string) ([]model.Product, error) {
	var products []model.Product
	err := r.query(ctx).
		Joins("JOIN product_tags ON product_tags.product_id = products.id").
		Joins("JOIN tags ON tags.id = product_tags.tag_id").
		Where("tags.name = ?", tag).
		Order("products.created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, product *model.Product, columns []string, tagNames []string, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(product).Select(columns).Updates(product)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		if tagNames != nil {
			tags, err := findOrCreateTags(tx, tagNames)
			if err != nil {
				return err
			}
			assoc := tx.Model(product).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return err
			}
			product.Tags = tags
		}

		if movement != nil {
			return tx.Create(movement).Error
		}
		return nil
	})
}

// UpdateStock writes the quantity, its derived status and the movement row in one transaction.
func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int, status model.Status, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"stock_quantity": newStock,
				"status":         status,
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if movement != nil {
			return tx.Create(movement).Error
		}
		return nil
	})
}

func (r *productRepo) MarkLookupChecked(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"yahoo_checked": true,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := model.Product{BaseModel: model.BaseModel{ID: id}}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
