package handler

import (
	"errors"
	"net/url"

	"go-household-inventory/pkg/apperror"
	"go-household-inventory/pkg/logger"
	"go-household-inventory/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError writes the {error:{code,message}} envelope. Internal causes
// are logged and replaced by the public message.
func respondError(c *fiber.Ctx, logg *logger.Logger, err error) error {
	code := apperror.CodeOf(err)
	meta := apperror.MetadataFor(code)

	body := fiber.Map{"code": code, "message": meta.PublicMessage}
	if typed := apperror.As(err); typed != nil && meta.ShowMessage {
		body["message"] = typed.Message()
		if details := typed.Details(); details != nil {
			body["details"] = details
		}
	}
	if apperror.Is(err, apperror.CodeInternal) {
		logg.Error(logg.WithFields(c.UserContext(), map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
		}), "request failed", err)
	}

	return c.Status(meta.HTTPStatus).JSON(fiber.Map{"error": body})
}

// ErrorHandler renders errors that escape handlers (unknown routes, body
// limits, recovered panics) with the same envelope.
func ErrorHandler(logg *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				err = apperror.NotFound(fiberErr.Message)
			case fiberErr.Code < fiber.StatusInternalServerError:
				err = apperror.Invalid(fiberErr.Message)
			default:
				err = apperror.Internal(fiberErr, "unhandled server error")
			}
		}
		return respondError(c, logg, err)
	}
}

// bind decodes the JSON body into out.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Invalid("request body must be valid JSON").WithDetails(err.Error())
	}
	return nil
}

// bindValid decodes the body and runs its validate tags.
func bindValid(c *fiber.Ctx, out interface{}) error {
	if err := bind(c, out); err != nil {
		return err
	}
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		return apperror.Invalid(errs[0].Message()).WithDetails(errs)
	}
	return nil
}

// productID parses :id. A malformed id cannot exist, so it is a not-found.
func productID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("product not found")
	}
	return id, nil
}

// pathParam returns the URL-decoded route parameter.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
