package apperror

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeNotFound       Code = "RESOURCE_NOT_FOUND"
	CodeInternal       Code = "INTERNAL_SERVER_ERROR"
)

// Metadata describes how a code is surfaced to API callers.
type Metadata struct {
	HTTPStatus    int
	PublicMessage string
	// ShowMessage reports whether the error's own message may be returned.
	ShowMessage bool
}

var metadataByCode = map[Code]Metadata{
	CodeInvalidRequest: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid request",
		ShowMessage:   true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
		ShowMessage:   true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
		ShowMessage:   false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Invalid is shorthand for New(CodeInvalidRequest, message).
func Invalid(message string) *Error {
	return New(CodeInvalidRequest, message)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Internal(err error, message string) *Error {
	return Wrap(CodeInternal, err, message)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts an *Error from the chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code carried by err; untyped errors are internal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
