package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"jewelry-studio-backend/internal/models"
)

type PriceSource interface {
	Current(ctx context.Context) (*models.GoldPrice, error)
}

type Quoter interface {
	Quote(ctx context.Context, req models.QuoteRequest) (models.PriceBreakdown, error)
}

type PricesHandler struct {
	prices PriceSource
	quoter Quoter
}

func NewPricesHandler(prices PriceSource, quoter Quoter) *PricesHandler {
	return &PricesHandler{prices: prices, quoter: quoter}
}

// Current godoc
// @Summary     Current gold price
// @Description Returns the newest gold price snapshot in AED with per-karat gram prices.
// @Tags        prices
// @Produce     json
// @Success     200 {object} models.GoldPriceResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /prices/current [get]
func (h *PricesHandler) Current(c *gin.Context) {
	price, err := h.prices.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GoldPriceResponse{
		MetalType:      price.MetalType,
		Currency:       price.Currency,
		PricePerOzTroy: price.PricePerOzTroy,
		PricePerGram:   price.PricePerGram,
		Price24K:       price.Price24K,
		Price22K:       price.Price22K,
		Price21K:       price.Price21K,
		Price18K:       price.Price18K,
		FetchedAt:      price.FetchedAt,
		Source:         price.Source,
	})
}

// Quote godoc
// @Summary     Price a configuration
// @Description Computes the price breakdown at the current gold price without creating an order.
// @Tags        prices
// @Accept      json
// @Produce     json
// @Param       request body models.QuoteRequest true "Configuration"
// @Success     200 {object} models.PriceBreakdown
// @Failure     400 {object} models.ErrorResponse
// @Router      /prices/quote [post]
func (h *PricesHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	breakdown, err := h.quoter.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
