package models

import "time"

type ImageResponse struct {
	Variation int    `json:"variation"`
	URL       string `json:"url"`
}

type VideoSlotResponse struct {
	Variation int         `json:"variation"`
	Status    VideoStatus `json:"status"`
	URL       string      `json:"url,omitempty"`
}

// DesignResponse is the polling surface for a design.
type DesignResponse struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Language               Language            `json:"language"`
	Font                   string              `json:"font"`
	Size                   Size                `json:"size"`
	Karat                  Karat               `json:"karat"`
	Style                  DecorationStyle     `json:"style"`
	MetalType              MetalTint           `json:"metal_type"`
	JewelryType            string              `json:"jewelry_type,omitempty"`
	DesignStyle            string              `json:"design_style,omitempty"`
	Status                 DesignStatus        `json:"status"`
	ProgressNote           string              `json:"progress_note,omitempty"`
	Analysis               *Analysis           `json:"analysis,omitempty"`
	Error                  string              `json:"error,omitempty"`
	ReferenceURL           string              `json:"reference_url,omitempty"`
	ProductImages          []ImageResponse     `json:"product_images"`
	OnBodyImages           []ImageResponse     `json:"on_body_images"`
	SelectedVariation      *int                `json:"selected_variation,omitempty"`
	RegenerationsRemaining int                 `json:"regenerations_remaining"`
	Videos                 []VideoSlotResponse `json:"videos"`
	Featured               bool                `json:"featured"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

type BeforeAfterResponse struct {
	DesignID  string `json:"design_id"`
	BeforeURL string `json:"before_url,omitempty"`
	AfterURL  string `json:"after_url,omitempty"`
}

type DesignSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type UploadResponse struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

type GoldPriceResponse struct {
	MetalType      string    `json:"metal_type"`
	Currency       string    `json:"currency"`
	PricePerOzTroy float64   `json:"price_per_oz_troy"`
	PricePerGram   float64   `json:"price_per_gram"`
	Price24K       float64   `json:"price_24k"`
	Price22K       float64   `json:"price_22k"`
	Price21K       float64   `json:"price_21k"`
	Price18K       float64   `json:"price_18k"`
	FetchedAt      time.Time `json:"fetched_at"`
	Source         string    `json:"source"`
}

type OrderResponse struct {
	ID               string         `json:"id"`
	DesignID         string         `json:"design_id"`
	CustomerName     string         `json:"customer_name"`
	CustomerPhone    string         `json:"customer_phone"`
	CustomerEmail    string         `json:"customer_email,omitempty"`
	Status           OrderStatus    `json:"status"`
	PriceBreakdown   PriceBreakdown `json:"price_breakdown"`
	TotalPrice       float64        `json:"total_price"`
	Currency         string         `json:"currency"`
	GoldPriceAtOrder float64        `json:"gold_price_at_order"`
	Design           *DesignSummary `json:"design,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type TransliterationResponse struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Result   string `json:"result"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
