package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"jewelry-studio-backend/internal/models"
)

type GalleryService interface {
	Featured(ctx context.Context) ([]models.DesignSummary, error)
	Recent(ctx context.Context) ([]models.DesignSummary, error)
	Inspiration(ctx context.Context, category string) ([]models.InspirationImage, error)
	Showcase(ctx context.Context, jewelryType string) ([]models.ShowcaseImage, error)
}

type GalleryHandler struct {
	gallery GalleryService
}

func NewGalleryHandler(gallery GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// Featured godoc
// @Summary     Featured designs
// @Tags        gallery
// @Produce     json
// @Success     200 {array} models.DesignSummary
// @Router      /gallery/featured [get]
func (h *GalleryHandler) Featured(c *gin.Context) {
	designs, err := h.gallery.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

// Recent godoc
// @Summary     Recently completed designs
// @Tags        gallery
// @Produce     json
// @Success     200 {array} models.DesignSummary
// @Router      /gallery/recent [get]
func (h *GalleryHandler) Recent(c *gin.Context) {
	designs, err := h.gallery.Recent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

// Inspiration godoc
// @Summary     Inspiration images by category
// @Tags        gallery
// @Produce     json
// @Param       category query string true "Category"
// @Success     200 {array} models.InspirationImage
// @Failure     400 {object} models.ErrorResponse
// @Router      /gallery/inspiration [get]
func (h *GalleryHandler) Inspiration(c *gin.Context) {
	images, err := h.gallery.Inspiration(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// Showcase godoc
// @Summary     Showcase pieces
// @Description Curated sample pieces, filtered by jewelry type when one is given.
// @Tags        gallery
// @Produce     json
// @Param       type query string false "Jewelry type"
// @Success     200 {array} models.ShowcaseImage
// @Router      /gallery/showcase [get]
func (h *GalleryHandler) Showcase(c *gin.Context) {
	images, err := h.gallery.Showcase(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}
