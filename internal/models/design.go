package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageChinese Language = "zh"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type Karat string

const (
	Karat18 Karat = "18K"
	Karat21 Karat = "21K"
	Karat22 Karat = "22K"
)

type DecorationStyle string

const (
	StyleGoldOnly         DecorationStyle = "gold_only"
	StyleGoldWithStones   DecorationStyle = "gold_with_stones"
	StyleGoldWithDiamonds DecorationStyle = "gold_with_diamonds"
)

type MetalTint string

const (
	MetalYellow MetalTint = "yellow"
	MetalRose   MetalTint = "rose"
	MetalWhite  MetalTint = "white"
)

type DesignStatus string

const (
	StatusGenerating DesignStatus = "generating"
	StatusAnalyzing  DesignStatus = "analyzing"
	StatusEngraving  DesignStatus = "engraving"
	StatusCompleted  DesignStatus = "completed"
	StatusFailed     DesignStatus = "failed"
)

type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoGenerating VideoStatus = "generating"
	VideoCompleted  VideoStatus = "completed"
	VideoFailed     VideoStatus = "failed"
)

const (
	// VariationCount is the number of product and on-body output slots.
	VariationCount = 4
	// MaxRegenerations is the regeneration allowance of a new design.
	MaxRegenerations = 3
)

// DesignSpec is the customer's input. It is never changed after creation.
type DesignSpec struct {
	Name                   string          `json:"name"`
	Language               Language        `json:"language"`
	Font                   string          `json:"font"`
	Size                   Size            `json:"size"`
	Karat                  Karat           `json:"karat"`
	Style                  DecorationStyle `json:"style"`
	MetalType              MetalTint       `json:"metal_type"`
	JewelryType            string          `json:"jewelry_type,omitempty"`
	DesignStyle            string          `json:"design_style,omitempty"`
	ReferenceURL           string          `json:"reference_url,omitempty"`
	ReferenceStorageID     string          `json:"reference_storage_id,omitempty"`
	TextReferenceStorageID string          `json:"text_reference_storage_id,omitempty"`
}

// HasReference reports whether the design carries a reference image.
func (s DesignSpec) HasReference() bool {
	return s.ReferenceURL != "" || s.ReferenceStorageID != ""
}

// Analysis is the snapshot shown to the customer while engraving.
type Analysis struct {
	JewelryType string `json:"jewelry_type"`
	Metal       string `json:"metal"`
	BestSpot    string `json:"best_spot"`
}

// StoredImage is one generated image together with the variation preset that
// produced it. List position says nothing about the variation.
type StoredImage struct {
	StorageID string `json:"storage_id"`
	Variation int    `json:"variation"`
}

type VideoSlot struct {
	Status      VideoStatus `json:"status"`
	OperationID string      `json:"operation_id"`
	StorageID   string      `json:"storage_id"`
}

// EmptyVideoSlots returns the initial per-variation video state.
func EmptyVideoSlots() []VideoSlot {
	slots := make([]VideoSlot, VariationCount)
	for i := range slots {
		slots[i] = VideoSlot{Status: VideoPending}
	}
	return slots
}

type Design struct {
	ID uuid.UUID
	DesignSpec

	Status                 DesignStatus
	ProgressNote           sql.NullString
	Analysis               *Analysis
	ErrorMessage           sql.NullString
	ProductImages          []StoredImage
	OnBodyImages           []StoredImage
	SelectedVariation      sql.NullInt32
	RegenerationsRemaining int
	VideoSlots             []VideoSlot
	Generation             int
	Featured               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ProductImage returns the stored product image rendered with the given
// variation preset.
func (d *Design) ProductImage(variation int) (StoredImage, bool) {
	for _, img := range d.ProductImages {
		if img.Variation == variation {
			return img, true
		}
	}
	return StoredImage{}, false
}

// PrimaryImage returns the product image for the selected variation, falling
// back to the first stored product image.
func (d *Design) PrimaryImage() (StoredImage, bool) {
	if d.SelectedVariation.Valid {
		if img, ok := d.ProductImage(int(d.SelectedVariation.Int32)); ok {
			return img, true
		}
	}
	if len(d.ProductImages) == 0 {
		return StoredImage{}, false
	}
	return d.ProductImages[0], true
}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageChinese:
		return true
	}
	return false
}

// NameLimit is the maximum name length in characters for the script.
func (l Language) NameLimit() int {
	switch l {
	case LanguageArabic:
		return 12
	case LanguageChinese:
		return 8
	default:
		return 15
	}
}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (k Karat) Valid() bool {
	switch k {
	case Karat18, Karat21, Karat22:
		return true
	}
	return false
}

func (s DecorationStyle) Valid() bool {
	switch s {
	case StyleGoldOnly, StyleGoldWithStones, StyleGoldWithDiamonds:
		return true
	}
	return false
}

func (m MetalTint) Valid() bool {
	switch m {
	case MetalYellow, MetalRose, MetalWhite:
		return true
	}
	return false
}

// ImageKind names one of the two image lists on a design.
type ImageKind string

const (
	ImageProduct ImageKind = "product"
	ImageOnBody  ImageKind = "on_body"
)
