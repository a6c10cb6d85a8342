package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeRasterization = "RASTERIZATION_FAILURE"
	CodeTemplate      = "TEMPLATE_MISSING"
	CodeUnknownRegion = "UNKNOWN_REGION"
	CodeConfig        = "CONFIG_ERROR"
)

// Common application errors
var (
	ErrRasterization    = errors.New("rasterization failed")
	ErrTemplateMissing  = errors.New("template missing")
	ErrUnknownRegion    = errors.New("unknown region")
	ErrFieldRecognition = errors.New("field recognition failed")
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDatabase         = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// RasterizationError wraps an external rasterizer failure.
func RasterizationError(message string, cause error) error {
	if cause == nil {
		cause = ErrRasterization
	} else {
		cause = fmt.Errorf("%w: %w", ErrRasterization, cause)
	}
	return NewAppError(CodeRasterization, message, cause)
}

// TemplateMissingError reports that no usable template exists for a region.
func TemplateMissingError(region string) error {
	return NewAppError(CodeTemplate, fmt.Sprintf("no template for region %q", region), ErrTemplateMissing)
}

// ErrorCode extracts the AppError code from err, or "" when err carries none.
func ErrorCode(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
