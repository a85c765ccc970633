package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"param,omitempty"`
	numeric     bool
}

// Message renders the violation for API callers.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.FailedField)
	case "max":
		if e.numeric {
			return fmt.Sprintf("%s must be at most %s", e.FailedField, e.Value)
		}
		return fmt.Sprintf("%s must be at most %s characters", e.FailedField, e.Value)
	case "min":
		if e.Value == "0" {
			return fmt.Sprintf("%s must be an integer of 0 or more", e.FailedField)
		}
		return fmt.Sprintf("%s must be at least %s", e.FailedField, e.Value)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.FailedField, e.Value)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.FailedField)
	}
	return fmt.Sprintf("%s failed on '%s'", e.FailedField, e.Tag)
}

var validate = validator.New()

func init() {
	// Report JSON names so messages match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(field.String()) != ""
	})
}

// RegisterCustomType makes fields of the given types validate as the value fn
// returns for them. A nil return counts as empty for omitempty.
func RegisterCustomType(fn validator.CustomTypeFunc, types ...interface{}) {
	validate.RegisterCustomTypeFunc(fn, types...)
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range validationErrs {
			var element ErrorResponse
			element.FailedField = fieldPath(err.Namespace())
			element.Tag = err.Tag()
			element.Value = err.Param()
			element.numeric = isNumeric(err.Kind())
			errors = append(errors, &element)
		}
	}
	return errors
}

// fieldPath drops the root struct name from a namespace like "CreateProductRequest.tags[0]".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
