package models

type CreateDesignRequest struct {
	Name        string          `json:"name" binding:"required" example:"Sarah"`
	Language    Language        `json:"language" binding:"required" example:"en"`
	Font        string          `json:"font" binding:"required" example:"script"`
	Size        Size            `json:"size" binding:"required" example:"medium"`
	Karat       Karat           `json:"karat" binding:"required" example:"21K"`
	Style       DecorationStyle `json:"style" binding:"required" example:"gold_only"`
	MetalType   MetalTint       `json:"metal_type" example:"yellow"`
	JewelryType string          `json:"jewelry_type,omitempty" example:"name_pendant"`
	DesignStyle string          `json:"design_style,omitempty" example:"minimalist"`
	// Either an external image URL or a storage id returned by POST /uploads.
	ReferenceURL           string `json:"reference_url,omitempty"`
	ReferenceStorageID     string `json:"reference_storage_id,omitempty"`
	TextReferenceStorageID string `json:"text_reference_storage_id,omitempty"`
}

type SelectVariationRequest struct {
	Index *int `json:"index" binding:"required" example:"1"`
}

type QuoteRequest struct {
	Karat       Karat           `json:"karat" binding:"required" example:"21K"`
	Size        Size            `json:"size" binding:"required" example:"medium"`
	Style       DecorationStyle `json:"style" binding:"required" example:"gold_only"`
	JewelryType string          `json:"jewelry_type,omitempty" example:"pendant"`
}

type CreateOrderRequest struct {
	DesignID      string `json:"design_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required" example:"Amir Haddad"`
	CustomerPhone string `json:"customer_phone" binding:"required" example:"+971500000000"`
	CustomerEmail string `json:"customer_email,omitempty" example:"amir@example.com"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required" example:"in_production"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
