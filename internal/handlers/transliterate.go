package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"jewelry-studio-backend/internal/models"
)

type Transliterator interface {
	Transliterate(ctx context.Context, name string, lang models.Language) string
}

type TransliterateHandler struct {
	transliterator Transliterator
}

func NewTransliterateHandler(transliterator Transliterator) *TransliterateHandler {
	return &TransliterateHandler{transliterator: transliterator}
}

// Transliterate godoc
// @Summary     Transliterate a name
// @Description Renders a Latin name in Arabic or Chinese script for the engraving preview.
// @Tags        transliterate
// @Produce     json
// @Param       name query string true "Name in Latin script"
// @Param       lang query string true "Target language (en, ar, zh)"
// @Success     200 {object} models.TransliterationResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /transliterate [get]
func (h *TransliterateHandler) Transliterate(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	lang := models.Language(c.Query("lang"))
	if name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}
	if !lang.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "lang must be one of en, ar, zh"})
		return
	}

	c.JSON(http.StatusOK, models.TransliterationResponse{
		Name:     name,
		Language: string(lang),
		Result:   h.transliterator.Transliterate(c.Request.Context(), name, lang),
	})
}
