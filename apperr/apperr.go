package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes surfaced next to the human message.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeOverPick          = "OVER_PICK"
	CodeAlreadyCompleted  = "ALREADY_COMPLETED"
	CodeUnavailable       = "UNAVAILABLE"
)

// AppError is a business-rule violation. Terminal for the request; never retried.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func NotFound(resource string, id interface{}) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id), http.StatusNotFound)
}

func Conflict(format string, args ...interface{}) *AppError {
	return New(CodeConflict, fmt.Sprintf(format, args...), http.StatusConflict)
}

// InsufficientStock always names the shortfall so the operator can correct
// the quantity without another round trip.
func InsufficientStock(requested, available int) *AppError {
	return New(CodeInsufficientStock,
		fmt.Sprintf("insufficient stock: requested %d but only %d units available", requested, available),
		http.StatusConflict)
}

func CapacityExceeded(binName string, utilization float64) *AppError {
	return New(CodeCapacityExceeded,
		fmt.Sprintf("transfer would exceed capacity of bin %s at %.0f%%", binName, utilization),
		http.StatusConflict)
}

func OverPick(requested, remaining int) *AppError {
	return New(CodeOverPick,
		fmt.Sprintf("cannot pick %d units: only %d remaining to fulfill requirement", requested, remaining),
		http.StatusBadRequest)
}

func AlreadyCompleted(id interface{}) *AppError {
	return New(CodeAlreadyCompleted,
		fmt.Sprintf("picking record %v is already completed", id),
		http.StatusConflict)
}

func Unavailable(err error) *AppError {
	e := New(CodeUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable)
	e.Err = err
	return e
}

// From extracts an *AppError, wrapping unknown errors as UNAVAILABLE.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unavailable(err)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
