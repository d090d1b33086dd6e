package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppError is an error that knows its HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError is a 400 for request bodies that fail validation
func NewValidationError(message string) *AppError {
	return newAppError(http.StatusBadRequest, message)
}

// NewBadRequestError is a 400 for malformed requests
func NewBadRequestError(message string) *AppError {
	return newAppError(http.StatusBadRequest, message)
}

// NewNotFoundError renders "<resource> not found"
func NewNotFoundError(resource string) *AppError {
	return newAppError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewAccessDeniedError hides whether a split bill exists from callers who
// cannot see it.
func NewAccessDeniedError() *AppError {
	return newAppError(http.StatusNotFound, ErrSplitBillNotFound)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message)
}

func NewInternalError(message string) *AppError {
	return newAppError(http.StatusInternalServerError, message)
}

// IsAppError reports whether err carries an AppError with the given status.
func IsAppError(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// HandleError renders err as {"error": message}. Anything that is not an
// AppError becomes a logged 500.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		zap.L().Error("unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

// HandleSuccess writes a 200 with data as the body
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
