package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by every domain service. Handlers map these to HTTP statuses.
const (
	CodeNotFound   = "notFound"
	CodeConflict   = "conflict"
	CodeBadRequest = "badRequest"
	CodeForbidden  = "forbidden"
)

// ServiceError is the error type raised by the session, pricing, availability and
// tracking services.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func NewBadRequestError(msg string) error {
	return &ServiceError{Code: CodeBadRequest, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Code: CodeForbidden, Message: msg}
}

// IsCode reports whether err is a ServiceError carrying the given code.
func IsCode(err error, code string) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// HTTPStatus resolves the HTTP status for a domain error. Unknown errors are 500s.
func HTTPStatus(err error) int {
	var se *ServiceError
	if !errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	switch se.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
