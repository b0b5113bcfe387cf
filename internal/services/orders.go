package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/pricing"
)

const RecentOrdersLimit = 10

type OrderService struct {
	orders  OrderStore
	designs DesignStore
	prices  PriceSource
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderService(orders OrderStore, designs DesignStore, prices PriceSource, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orders:  orders,
		designs: designs,
		prices:  prices,
		log:     log.Named("orders"),
		now:     time.Now,
	}
}

// goldPricePerGram returns the current pure gold price, or the default when
// no snapshot can be read.
func (s *OrderService) goldPricePerGram(ctx context.Context) float64 {
	price, err := s.prices.Current(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNoGoldPrice) {
			s.log.Warn("gold price unavailable, using default", zap.Error(err))
		}
		return pricing.DefaultGoldPricePerGram
	}
	if price.PricePerGram <= 0 {
		return pricing.DefaultGoldPricePerGram
	}
	return price.PricePerGram
}

// Quote prices a configuration at the current gold price.
func (s *OrderService) Quote(ctx context.Context, req models.QuoteRequest) (models.PriceBreakdown, error) {
	if !req.Karat.Valid() || !req.Size.Valid() || !req.Style.Valid() {
		return models.PriceBreakdown{}, models.NewValidationError("quote", "Karat, size and style must be valid")
	}
	return pricing.Calculate(pricing.Input{
		Karat:            req.Karat,
		Size:             req.Size,
		Style:            req.Style,
		JewelryType:      req.JewelryType,
		GoldPricePerGram: s.goldPricePerGram(ctx),
	}, s.now()), nil
}

// Create prices the design at the current gold price and freezes the
// breakdown into a new confirmed order.
func (s *OrderService) Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, *models.Design, error) {
	designID, err := uuid.Parse(req.DesignID)
	if err != nil {
		return nil, nil, models.NewValidationError("design_id", "Invalid design ID")
	}
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	if name == "" || phone == "" {
		return nil, nil, models.NewValidationError("customer", "Customer name and phone are required")
	}

	design, err := s.designs.GetDesign(ctx, designID)
	if err != nil {
		return nil, nil, err
	}

	goldPrice := s.goldPricePerGram(ctx)
	breakdown := pricing.Calculate(pricing.Input{
		Karat:            design.Karat,
		Size:             design.Size,
		Style:            design.Style,
		JewelryType:      design.JewelryType,
		GoldPricePerGram: goldPrice,
	}, s.now())

	email := strings.TrimSpace(req.CustomerEmail)
	order, err := s.orders.CreateOrder(ctx, &models.Order{
		DesignID:         design.ID,
		CustomerName:     name,
		CustomerPhone:    phone,
		CustomerEmail:    sql.NullString{String: email, Valid: email != ""},
		Status:           models.OrderConfirmed,
		PriceBreakdown:   breakdown,
		TotalPrice:       breakdown.Total,
		Currency:         breakdown.Currency,
		GoldPriceAtOrder: goldPrice,
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("design_id", design.ID.String()),
		zap.Float64("total", order.TotalPrice),
	)
	return order, design, nil
}

// Get returns the order with its design. A design that cannot be loaded is
// left out rather than failing the read.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, *models.Design, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	design, err := s.designs.GetDesign(ctx, order.DesignID)
	if err != nil {
		s.log.Warn("order design unavailable", zap.String("order_id", id.String()), zap.Error(err))
		return order, nil, nil
	}
	return order, design, nil
}

type OrderWithDesign struct {
	Order  models.Order
	Design *models.Design
}

func (s *OrderService) Recent(ctx context.Context) ([]OrderWithDesign, error) {
	orders, err := s.orders.ListRecentOrders(ctx, RecentOrdersLimit)
	if err != nil {
		return nil, err
	}

	out := make([]OrderWithDesign, 0, len(orders))
	for _, order := range orders {
		entry := OrderWithDesign{Order: order}
		if design, err := s.designs.GetDesign(ctx, order.DesignID); err == nil {
			entry.Design = design
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	if !status.Valid() {
		return models.NewValidationError("status", "Status must be one of confirmed, in_production, ready, delivered, cancelled")
	}
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("order status updated", zap.String("order_id", id.String()), zap.String("status", string(status)))
	return nil
}
