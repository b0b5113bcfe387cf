package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"jewelry-studio-backend/internal/models"
)

// respondError maps service errors to HTTP responses. Unknown errors are
// recorded on the gin context and reported as 500.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Message})
	case errors.Is(err, models.ErrDesignNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Design not found"})
	case errors.Is(err, models.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Order not found"})
	case errors.Is(err, models.ErrNoRegenerationsLeft):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNoSourceImage):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No product image for this variation"})
	case errors.Is(err, models.ErrVideoInProgress):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Video is already being generated"})
	case errors.Is(err, models.ErrNoGoldPrice):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No gold price available yet"})
	case errors.Is(err, models.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Rate limit exceeded", Message: err.Error()})
	case errors.Is(err, models.ErrSearchUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Reference search is unavailable"})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid input", Message: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error", Message: err.Error()})
	}
}

func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + label + " id"})
		return uuid.Nil, false
	}
	return id, true
}
