package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/services"
)

type OrderService interface {
	Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, *models.Design, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, *models.Design, error)
	Recent(ctx context.Context) ([]services.OrderWithDesign, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type OrdersHandler struct {
	orders  OrderService
	designs DesignService
}

func NewOrdersHandler(orders OrderService, designs DesignService) *OrdersHandler {
	return &OrdersHandler{orders: orders, designs: designs}
}

// CreateOrder godoc
// @Summary     Place an order
// @Description Prices the design at the current gold price and stores a confirmed order with the breakdown frozen.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Order"
// @Success     201 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	order, design, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.orderResponse(order, design))
}

// GetOrder godoc
// @Summary     Get order details
// @Tags        orders
// @Produce     json
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id", "order")
	if !ok {
		return
	}

	order, design, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(order, design))
}

// ListRecent godoc
// @Summary     Recent orders
// @Description Returns the newest orders with their design summary.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/orders [get]
func (h *OrdersHandler) ListRecent(c *gin.Context) {
	entries, err := h.orders.Recent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderResponse, 0, len(entries))}
	for i := range entries {
		resp.Orders = append(resp.Orders, h.orderResponse(&entries[i].Order, entries[i].Design))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary     Move an order through its lifecycle
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.UpdateOrderStatusRequest true "New status"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "order_id", "order")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	order, design, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(order, design))
}

func (h *OrdersHandler) orderResponse(order *models.Order, design *models.Design) models.OrderResponse {
	resp := models.OrderResponse{
		ID:               order.ID.String(),
		DesignID:         order.DesignID.String(),
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		CustomerEmail:    order.CustomerEmail.String,
		Status:           order.Status,
		PriceBreakdown:   order.PriceBreakdown,
		TotalPrice:       order.TotalPrice,
		Currency:         order.Currency,
		GoldPriceAtOrder: order.GoldPriceAtOrder,
		CreatedAt:        order.CreatedAt,
	}
	if design != nil {
		summary := h.designs.Summary(design)
		resp.Design = &summary
	}
	return resp
}
