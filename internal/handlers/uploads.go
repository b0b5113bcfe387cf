package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/services"
)

type UploadsHandler struct {
	designs DesignService
}

func NewUploadsHandler(designs DesignService) *UploadsHandler {
	return &UploadsHandler{designs: designs}
}

// Upload godoc
// @Summary     Upload an image
// @Description Stores a reference photo or a rendered text reference and returns its storage id.
// @Description Pass the id as reference_storage_id or text_reference_storage_id when creating a design.
// @Tags        uploads
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Image (max 10MB)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /uploads [post]
func (h *UploadsHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	// One byte over the cap is enough for the size check to reject it.
	data, err := io.ReadAll(io.LimitReader(file, services.MaxReferenceBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.designs.Upload(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
