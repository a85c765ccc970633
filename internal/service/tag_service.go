package service

import (
	"context"
	"errors"
	"strings"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/pkg/apperror"

	"gorm.io/gorm"
)

const tagNotFound = "tag not found"

type TagService interface {
	List(ctx context.Context) ([]model.TagCount, error)
	Create(ctx context.Context, req *model.TagRequest) (*model.Tag, error)
	Rename(ctx context.Context, id uint, req *model.TagRequest) (*model.Tag, error)
	Delete(ctx context.Context, id uint) error
}

type tagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) List(ctx context.Context) ([]model.TagCount, error) {
	tags, err := s.tags.FindAllWithCounts(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list tags")
	}
	if tags == nil {
		tags = []model.TagCount{}
	}
	return tags, nil
}

func (s *tagService) Create(ctx context.Context, req *model.TagRequest) (*model.Tag, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, 0); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, apperror.Internal(err, "failed to create tag")
	}
	return tag, nil
}

func (s *tagService) Rename(ctx context.Context, id uint, req *model.TagRequest) (*model.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, tagNotFound)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, id); err != nil {
		return nil, err
	}

	if err := s.tags.Rename(ctx, id, name); err != nil {
		return nil, storeError(err, tagNotFound)
	}
	tag.Name = name
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id uint) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return storeError(err, tagNotFound)
	}
	return nil
}

// ensureUnique fails when another tag (not id) already uses name.
func (s *tagService) ensureUnique(ctx context.Context, name string, id uint) error {
	existing, err := s.tags.FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return apperror.Internal(err, "storage operation failed")
	case existing.ID != id:
		return apperror.Invalid("tag '" + name + "' already exists")
	}
	return nil
}
