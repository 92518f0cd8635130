package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable codes surfaced to clients alongside the message, so the
// UI can show a specific error without parsing text.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInvalidState  = "INVALID_STATE"
	CodeSquareTaken   = "SQUARE_TAKEN"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
)

// Error is an expected, typed domain failure. Anything that is not an
// *Error is treated as an infrastructure failure and reported as a
// generic 500 without leaking internals.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusForbidden, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Code: CodeInvalidState, Status: http.StatusBadRequest, Message: message}
}

func SquareTaken(message string) *Error {
	return &Error{Code: CodeSquareTaken, Status: http.StatusConflict, Message: message}
}

func QuotaExceeded(message string) *Error {
	return &Error{Code: CodeQuotaExceeded, Status: http.StatusBadRequest, Message: message}
}

// CodeOf returns the domain code of err, or "" if err is not a domain error.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Respond writes err as a JSON response. Domain errors keep their status,
// code and message; everything else becomes a 500 with a generic body.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
