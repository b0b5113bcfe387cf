package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"jewelry-studio-backend/internal/models"
)

// DesignService is the design surface used by the HTTP layer.
type DesignService interface {
	Create(ctx context.Context, req models.CreateDesignRequest, clientID string) (*models.Design, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Design, error)
	Regenerate(ctx context.Context, id uuid.UUID) (*models.Design, error)
	SelectVariation(ctx context.Context, id uuid.UUID, variation int) (*models.Design, error)
	SaveToGallery(ctx context.Context, id uuid.UUID) error
	TriggerVideo(ctx context.Context, id uuid.UUID, variation int) error
	BeforeAfter(ctx context.Context, id uuid.UUID) (*models.BeforeAfterResponse, error)
	Upload(ctx context.Context, data []byte, declaredType string) (*models.UploadResponse, error)
	Response(design *models.Design) models.DesignResponse
	Summary(design *models.Design) models.DesignSummary
}

type DesignsHandler struct {
	designs DesignService
}

func NewDesignsHandler(designs DesignService) *DesignsHandler {
	return &DesignsHandler{designs: designs}
}

// CreateDesign godoc
// @Summary     Create a design
// @Description Validates the customization, stores the design in "generating" and starts image generation in the background.
// @Description Poll GET /designs/{design_id} for progress.
// @Tags        designs
// @Accept      json
// @Produce     json
// @Param       request body models.CreateDesignRequest true "Customization"
// @Success     202 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /designs [post]
func (h *DesignsHandler) CreateDesign(c *gin.Context) {
	var req models.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	design, err := h.designs.Create(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.designs.Response(design))
}

// GetDesign godoc
// @Summary     Get design status
// @Description Returns status, progress note, analysis, image URLs, video slots and regenerations remaining.
// @Tags        designs
// @Produce     json
// @Param       design_id path string true "Design ID (UUID)"
// @Success     200 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id} [get]
func (h *DesignsHandler) GetDesign(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}

	design, err := h.designs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.designs.Response(design))
}

// Regenerate godoc
// @Summary     Regenerate a design
// @Description Clears the images, consumes one regeneration and starts a new run.
// @Tags        designs
// @Produce     json
// @Param       design_id path string true "Design ID (UUID)"
// @Success     202 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id}/regenerate [post]
func (h *DesignsHandler) Regenerate(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}

	design, err := h.designs.Regenerate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.designs.Response(design))
}

// SelectVariation godoc
// @Summary     Select a product variation
// @Tags        designs
// @Accept      json
// @Produce     json
// @Param       design_id path string true "Design ID (UUID)"
// @Param       request body models.SelectVariationRequest true "Variation index"
// @Success     200 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id}/select [post]
func (h *DesignsHandler) SelectVariation(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}

	var req models.SelectVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	design, err := h.designs.SelectVariation(c.Request.Context(), id, *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.designs.Response(design))
}

// SaveToGallery godoc
// @Summary     Feature a design in the gallery
// @Tags        designs
// @Param       design_id path string true "Design ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id}/gallery [post]
func (h *DesignsHandler) SaveToGallery(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}

	if err := h.designs.SaveToGallery(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TriggerVideo godoc
// @Summary     Generate a video for a variation
// @Description Animates the stored product image of the variation in the background. Poll the design for the slot status.
// @Tags        designs
// @Produce     json
// @Param       design_id path string true "Design ID (UUID)"
// @Param       index path int true "Variation index (0-3)"
// @Success     202
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /designs/{design_id}/videos/{index} [post]
func (h *DesignsHandler) TriggerVideo(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid variation index"})
		return
	}

	if err := h.designs.TriggerVideo(c.Request.Context(), id, index); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// BeforeAfter godoc
// @Summary     Reference and result side by side
// @Tags        designs
// @Produce     json
// @Param       design_id path string true "Design ID (UUID)"
// @Success     200 {object} models.BeforeAfterResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id}/before-after [get]
func (h *DesignsHandler) BeforeAfter(c *gin.Context) {
	id, ok := parseID(c, "design_id", "design")
	if !ok {
		return
	}

	resp, err := h.designs.BeforeAfter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
