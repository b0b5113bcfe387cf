package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"jewelry-studio-backend/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]models.SearchResult, error)
}

type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search godoc
// @Summary     Search reference photos
// @Description Finds jewelry product photos to use as a design reference. Results carry the photographer attribution the provider requires.
// @Tags        search
// @Produce     json
// @Param       q        query string true  "Search terms"
// @Param       per_page query int    false "Results to return (default 9, max 30)"
// @Success     200 {array} models.SearchResult
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	perPage := 0
	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "per_page must be a positive number"})
			return
		}
		perPage = n
	}

	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"), perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
