package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"branching-novel/internal/models"
)

const (
	msgUnavailable = "that action isn't available"
	msgRetry       = "please retry"
	msgInternal    = "an unexpected internal error occurred"
)

func (h *GameHandler) handleServiceError(c *gin.Context, err error) {
	var (
		status int
		body   APIError
	)
	switch {
	case errors.Is(err, models.ErrValidation):
		status, body = http.StatusBadRequest, APIError{Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		status, body = http.StatusNotFound, APIError{Message: msgUnavailable}
	case errors.Is(err, models.ErrInvalidChoice), errors.Is(err, models.ErrInvalidNode):
		status, body = http.StatusUnprocessableEntity, APIError{Message: msgUnavailable}
	case errors.Is(err, models.ErrConflict):
		status, body = http.StatusConflict, APIError{Message: msgRetry}
	default:
		h.logger.Error("Unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		status, body = http.StatusInternalServerError, APIError{Message: msgInternal}
	}
	c.AbortWithStatusJSON(status, body)
}

// handleBindError reports malformed payloads, listing the offending fields
// when the validator produced them.
func (h *GameHandler) handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: failed '%s'", fe.Field(), fe.Tag()))
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, APIError{Message: "validation failed", Fields: fields})
		return
	}
	h.logger.Debug("Malformed request body", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, APIError{Message: "malformed request body"})
}
