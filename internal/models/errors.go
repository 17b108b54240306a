package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes used across the API. Every handler reports failures through
// this taxonomy; StatusFor is the single place where codes map to HTTP
// statuses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeAuth         = "AUTHENTICATION_ERROR"
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeNotFound     = "NOT_FOUND"
	CodeStore        = "STORE_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: CodeAuth, Message: message}
}

func NewMissingTokenError() *AppError {
	return &AppError{Code: CodeMissingToken, Message: "Authorization required"}
}

func NewInvalidTokenError(message string) *AppError {
	return &AppError{Code: CodeInvalidToken, Message: message}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewStoreError(err error) *AppError {
	return &AppError{Code: CodeStore, Message: "Storage error", Err: err}
}

// StatusFor maps an error to its HTTP status code. Unclassified errors count
// as store failures.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeAuth, CodeMissingToken:
		return fiber.StatusUnauthorized
	case CodeInvalidToken:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standardized error response, deriving the
// status from the taxonomy.
func RespondWithError(c *fiber.Ctx, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{Error: err.Error()}
	}

	return c.Status(StatusFor(err)).JSON(response)
}
