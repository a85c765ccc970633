package repository

import (
	"context"

	"go-household-inventory/internal/model"

	"gorm.io/gorm"
)

type TagRepository interface {
	FindAllWithCounts(ctx context.Context) ([]model.TagCount, error)
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	Create(ctx context.Context, tag *model.Tag) error
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

type tagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) TagRepository {
	return &tagRepo{db}
}

func (r *tagRepo) FindAllWithCounts(ctx context.Context) ([]model.TagCount, error) {
	var counts []model.TagCount
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id AS id, tags.name AS name, COUNT(product_tags.product_id) AS count").
		Joins("LEFT JOIN product_tags ON product_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *tagRepo) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepo) Rename(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the tag and its product links; products are untouched.
func (r *tagRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// findOrCreateTags resolves names to stored tags inside tx, creating missing ones.
func findOrCreateTags(tx *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag model.Tag
		if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
