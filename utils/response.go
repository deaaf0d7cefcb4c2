package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Errors  []ValidationError `json:"errors"`
}

// SendAppError writes err as a JSON error body. Anything that is not an *AppError, or an
// AppError without a client-facing status, is reported as a generic 500.
func SendAppError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError(ErrDatabase, "internal error", err)
	}

	status := AppErrorToHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path,
			"code", appErr.Code,
			"err", appErr.Error(),
		)
		c.JSON(status, ErrorResponse{
			Error:   http.StatusText(status),
			Message: "An unexpected error occurred",
			Code:    status,
		})
		return
	}

	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: appErr.Message,
		Code:    status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

// SendValidationErrors reports field-level problems with 422.
func SendValidationErrors(c *gin.Context, fields []ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:   "Validation failed",
		Message: "Request data failed validation",
		Code:    http.StatusUnprocessableEntity,
		Errors:  fields,
	})
}
