package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/pricing"
	"jewelry-studio-backend/internal/services"
)

func orderRequest(designID uuid.UUID) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		DesignID:      designID.String(),
		CustomerName:  "Amir Haddad",
		CustomerPhone: "+971500000000",
	}
}

func TestOrderCreate_FreezesBreakdown(t *testing.T) {
	store := newMemoryStore()
	prices := &fakePrices{price: &models.GoldPrice{PricePerGram: 300, FetchedAt: time.Now()}}
	svc := services.NewOrderService(store, store, prices, nil)
	design := store.add(amir())

	order, gotDesign, err := svc.Create(context.Background(), orderRequest(design.ID))
	require.NoError(t, err)
	assert.Equal(t, design.ID, gotDesign.ID)
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, 300.0, order.GoldPriceAtOrder)
	assert.Equal(t, pricing.Currency, order.Currency)
	assert.False(t, order.CustomerEmail.Valid)

	want := pricing.Calculate(pricing.Input{
		Karat:            design.Karat,
		Size:             design.Size,
		Style:            design.Style,
		GoldPricePerGram: 300,
	}, time.Now())
	assert.Equal(t, want.Total, order.TotalPrice)
	assert.Equal(t, want.Total, order.PriceBreakdown.Total)
	assert.Equal(t, want.MaterialCost, order.PriceBreakdown.MaterialCost)

	prices.price = &models.GoldPrice{PricePerGram: 400}
	stored, _, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PriceBreakdown, stored.PriceBreakdown)
	assert.Equal(t, 300.0, stored.GoldPriceAtOrder)
}

func TestOrderCreate_DefaultGoldPrice(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewOrderService(store, store, &fakePrices{}, nil)
	design := store.add(amir())

	order, _, err := svc.Create(context.Background(), orderRequest(design.ID))
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultGoldPricePerGram, order.GoldPriceAtOrder)
	assert.Equal(t, pricing.DefaultGoldPricePerGram, order.PriceBreakdown.GoldPricePerGram)
}

func TestOrderCreate_PriceSourceErrorUsesDefault(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewOrderService(store, store, &fakePrices{err: errors.New("db down")}, nil)
	design := store.add(amir())

	order, _, err := svc.Create(context.Background(), orderRequest(design.ID))
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultGoldPricePerGram, order.GoldPriceAtOrder)
}

func TestOrderCreate_Rejects(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewOrderService(store, store, &fakePrices{}, nil)

	_, _, err := svc.Create(context.Background(), models.CreateOrderRequest{DesignID: "nope", CustomerName: "A", CustomerPhone: "1"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req := orderRequest(uuid.New())
	req.CustomerPhone = " "
	_, _, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = svc.Create(context.Background(), orderRequest(uuid.New()))
	assert.ErrorIs(t, err, models.ErrDesignNotFound)
	assert.Empty(t, store.orders)
}

func TestOrderQuote(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewOrderService(store, store, &fakePrices{price: &models.GoldPrice{PricePerGram: 320}}, nil)

	quote, err := svc.Quote(context.Background(), models.QuoteRequest{
		Karat: models.Karat21,
		Size:  models.SizeMedium,
		Style: models.StyleGoldWithStones,
	})
	require.NoError(t, err)
	assert.Equal(t, 320.0, quote.GoldPricePerGram)
	assert.Equal(t, 400.0, quote.StoneCost)

	_, err = svc.Quote(context.Background(), models.QuoteRequest{Karat: "24K", Size: models.SizeMedium, Style: models.StyleGoldOnly})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestOrderRecentAndStatus(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewOrderService(store, store, &fakePrices{}, nil)
	design := store.add(amir())

	first, _, err := svc.Create(context.Background(), orderRequest(design.ID))
	require.NoError(t, err)
	second, _, err := svc.Create(context.Background(), orderRequest(design.ID))
	require.NoError(t, err)

	recent, err := svc.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].Order.ID)
	assert.Equal(t, first.ID, recent[1].Order.ID)
	require.NotNil(t, recent[0].Design)
	assert.Equal(t, design.ID, recent[0].Design.ID)

	require.NoError(t, svc.UpdateStatus(context.Background(), first.ID, models.OrderInProduction))
	got, _, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderInProduction, got.Status)

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), first.ID, "shipped"), models.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), uuid.New(), models.OrderReady), models.ErrOrderNotFound)
}
