package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendgraph-api/apperror"
)

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

type SuccessResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{OK: true, Message: message, Data: data})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{OK: true, Message: message, Data: data})
}

func SendError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, ErrorResponse{
		OK:      false,
		Message: message,
		Error:   ErrorDetail{Kind: kind, Message: message},
	})
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, apperror.KindName(apperror.ErrInvalidRequest), message)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "Unauthorized", message)
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.ErrInvalidRequest:
		return http.StatusBadRequest
	case apperror.ErrNotFound:
		return http.StatusNotFound
	case apperror.ErrConflict, apperror.ErrInvalidState:
		return http.StatusConflict
	case apperror.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SendAppError writes err as an error envelope. Internal failures are logged
// and their message is not exposed.
func SendAppError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperror.KindOf(err)
	if kind == nil {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		SendError(c, http.StatusInternalServerError, apperror.KindName(nil), "An unexpected error occurred")
		return
	}

	message := err.Error()
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message = appErr.Error()
	}
	SendError(c, StatusFor(err), apperror.KindName(kind), message)
}
