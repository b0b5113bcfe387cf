package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderConfirmed    OrderStatus = "confirmed"
	OrderInProduction OrderStatus = "in_production"
	OrderReady        OrderStatus = "ready"
	OrderDelivered    OrderStatus = "delivered"
	OrderCancelled    OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderConfirmed, OrderInProduction, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PriceBreakdown is frozen into an order when it is created.
type PriceBreakdown struct {
	Weight           float64   `json:"weight"`
	MaterialCost     float64   `json:"material_cost"`
	LaborCost        float64   `json:"labor_cost"`
	StoneCost        float64   `json:"stone_cost"`
	Markup           float64   `json:"markup"`
	Total            float64   `json:"total"`
	Currency         string    `json:"currency"`
	GoldPricePerGram float64   `json:"gold_price_per_gram"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Order struct {
	ID               uuid.UUID
	DesignID         uuid.UUID
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    sql.NullString
	Status           OrderStatus
	PriceBreakdown   PriceBreakdown
	TotalPrice       float64
	Currency         string
	GoldPriceAtOrder float64
	CreatedAt        time.Time
}

// GoldPrice is an immutable snapshot of the gold price feed.
type GoldPrice struct {
	ID             uuid.UUID
	MetalType      string
	Currency       string
	PricePerOzTroy float64
	PricePerGram   float64
	Price24K       float64
	Price22K       float64
	Price21K       float64
	Price18K       float64
	FetchedAt      time.Time
	Source         string
}

// ShowcaseImage is a curated sample piece. ImageURL is resolved from the
// stored object when served.
type ShowcaseImage struct {
	ID             string `json:"id"`
	JewelryType    string `json:"jewelry_type"`
	DesignStyle    string `json:"design_style"`
	MetalType      string `json:"metal_type"`
	Featured       bool   `json:"featured"`
	ImageStorageID string `json:"image_storage_id"`
	ImageURL       string `json:"image_url,omitempty"`
}

// SearchResult is one reference photo from the image search, with the
// attribution the provider requires.
type SearchResult struct {
	ImageURL        string `json:"image_url"`
	Thumbnail       string `json:"thumbnail"`
	Title           string `json:"title"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
}

type InspirationImage struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
	Category  string `json:"category"`
}
