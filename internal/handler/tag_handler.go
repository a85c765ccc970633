package handler

import (
	"strconv"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	service service.TagService
	logg    *logger.Logger
}

func NewTagHandler(s service.TagService, logg *logger.Logger) *TagHandler {
	return &TagHandler{service: s, logg: logg}
}

func tagID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperror.NotFound("tag not found")
	}
	return uint(id), nil
}

// GetTags lists tags with their product counts
// GET /api/v1/tags
func (h *TagHandler) GetTags(c *fiber.Ctx) error {
	tags, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(tags)
}

// POST /api/v1/tags
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	var req model.TagRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	tag, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// PUT /api/v1/tags/:id
func (h *TagHandler) RenameTag(c *fiber.Ctx) error {
	id, err := tagID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	var req model.TagRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logg, err)
	}

	tag, err := h.service.Rename(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(tag)
}

// DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	id, err := tagID(c)
	if err != nil {
		return respondError(c, h.logg, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logg, err)
	}
	return c.JSON(fiber.Map{"message": "tag deleted"})
}
