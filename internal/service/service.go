package service

import (
	"errors"
	"strings"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/ws"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/validator"

	"gorm.io/gorm"
)

// EventPublisher receives lifecycle events; *ws.Hub satisfies it.
type EventPublisher interface {
	Publish(event ws.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ws.Event) {}

// validateRequest reports the first violation as the message and attaches all of them.
func validateRequest(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return apperror.Invalid(errs[0].Message()).WithDetails(errs)
}

func storeError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal(err, "storage operation failed")
}

// normalizeTags trims names and drops duplicates. It keeps a nil input nil.
func normalizeTags(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// withTags makes empty tag sets serialize as [] instead of null.
func withTags(products []model.Product) []model.Product {
	if products == nil {
		return []model.Product{}
	}
	for i := range products {
		if products[i].Tags == nil {
			products[i].Tags = []model.Tag{}
		}
	}
	return products
}
