// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"leadportal/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal error"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// StatusFor maps err to an HTTP status code. An *apperr.Error anywhere in the
// chain decides by its Kind; any other error is a 500 and nil is a 200.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ErrorMessage returns the message of the *apperr.Error in err's chain.
// Untyped errors are reported as "internal error" so their text never
// reaches a client.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return msgInternal
}

// ErrorDetails returns the details of the *apperr.Error in err's chain, if any.
func ErrorDetails(err error) interface{} {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// HandleError writes the standard error body for err and attaches err to the
// gin context so RequestLogger can log the cause of 5xx answers.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)
	c.JSON(StatusFor(err), ErrorResponse{
		Error:   ErrorMessage(err),
		Details: ErrorDetails(err),
	})
	return true
}
