package handlers

import (
	"context"
	"errors"
	"net/http"

	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
}

// StatusFor maps an application error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized
	case apperrors.IsAuthorization(err):
		return http.StatusForbidden
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsAlreadyExists(err),
		errors.Is(err, apperrors.ErrBusy),
		errors.Is(err, apperrors.ErrNoPendingDelete):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNothingToSave):
		return http.StatusBadRequest
	case apperrors.IsUpload(err), apperrors.IsPersistence(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body with its status
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, ErrorResponse{Error: apperrors.Message(err)})
}

// Reloader refreshes the roster snapshot shared by console sessions
type Reloader interface {
	Reload(ctx context.Context) error
}

func reload(ctx context.Context, r Reloader) {
	if r == nil {
		return
	}
	if err := r.Reload(ctx); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to reload roster after API change")
	}
}
