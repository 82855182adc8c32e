package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldErrors maps a request field (or "server"/"auth") to a
// human-readable message.
type FieldErrors map[string]string

// ErrorResponse is the envelope every failure is returned in.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Errors  FieldErrors `json:"errors"`
}

// Respond sends an error envelope with the given status.
func Respond(c *gin.Context, statusCode int, errs FieldErrors) {
	c.JSON(statusCode, ErrorResponse{Success: false, Errors: errs})
}

// FieldError sends a single-field error envelope.
func FieldError(c *gin.Context, statusCode int, field, message string) {
	Respond(c, statusCode, FieldErrors{field: message})
}

// Helper functions for common error responses

// BadRequest sends a 400 response with a field-level message.
func BadRequest(c *gin.Context, field, message string) {
	if message == "" {
		message = "Invalid request"
	}
	FieldError(c, http.StatusBadRequest, field, message)
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	FieldError(c, http.StatusUnauthorized, "auth", message)
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, field, message string) {
	if message == "" {
		message = "Access denied"
	}
	FieldError(c, http.StatusForbidden, field, message)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, field, message string) {
	if message == "" {
		message = "Resource not found"
	}
	FieldError(c, http.StatusNotFound, field, message)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests, try again later"
	}
	FieldError(c, http.StatusTooManyRequests, "server", message)
}

// InternalError sends a 500 response. The detail belongs in the server
// log, never in the message.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong"
	}
	FieldError(c, http.StatusInternalServerError, "server", message)
}
