// Package apperr maps domain failures onto the four error kinds the API exposes.
package apperr

import (
	"errors"
	"net/http"

	"agency-backend/internal/models"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTPError never exposes the wrapped cause of an internal error.
func (e *AppError) ToHTTPError() models.ErrorResponse {
	if e.Kind == KindInternal {
		return models.ErrorResponse{Error: e.Code, Message: "an internal error occurred"}
	}
	return models.ErrorResponse{Error: e.Code, Message: e.Message}
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func Unauthorized(code, message string) *AppError {
	return New(KindUnauthorized, code, message)
}

func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

func Validation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

func Internal(err error) *AppError {
	return Wrap(KindInternal, "INTERNAL_ERROR", "internal error", err)
}

// From returns the AppError inside err, or wraps err as internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
