package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"jewelry-studio-backend/internal/gemini"
	"jewelry-studio-backend/internal/models"
)

// DesignStore is the document store view of design records. Writes that take
// a generation return models.ErrStaleGeneration once a newer run owns the
// design.
type DesignStore interface {
	CreateDesign(ctx context.Context, spec models.DesignSpec) (*models.Design, error)
	GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error)
	UpdateDesignStatus(ctx context.Context, id uuid.UUID, generation int, status models.DesignStatus, note string) error
	SetReferenceStorageID(ctx context.Context, id uuid.UUID, storageID string) error
	StartEngraving(ctx context.Context, id uuid.UUID, generation int, analysis models.Analysis, note string) error
	AppendImage(ctx context.Context, id uuid.UUID, generation int, kind models.ImageKind, img models.StoredImage, note string) error
	CompleteDesign(ctx context.Context, id uuid.UUID, generation int) error
	FailDesign(ctx context.Context, id uuid.UUID, generation int, message string) error
	SetVideoSlot(ctx context.Context, id uuid.UUID, generation, index int, slot models.VideoSlot) error
	Regenerate(ctx context.Context, id uuid.UUID) (int, error)
	SelectVariation(ctx context.Context, id uuid.UUID, variation int) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	ListFeaturedDesigns(ctx context.Context, limit int) ([]models.Design, error)
	ListRecentCompletedDesigns(ctx context.Context, limit int) ([]models.Design, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

// BlobStore holds reference photos, generated images and videos.
type BlobStore interface {
	Put(ctx context.Context, data []byte, mimeType string) (string, error)
	Get(ctx context.Context, storageID string) ([]byte, error)
	URL(storageID string) string
}

// ImageCaller is a retry-wrapped image generation call. A nil result means
// the slot stays empty.
type ImageCaller interface {
	Call(ctx context.Context, prompt string, refs []gemini.Image, label string) *gemini.Image
}

type VideoClient interface {
	StartVideo(ctx context.Context, req gemini.VideoRequest) (string, error)
	VideoStatus(ctx context.Context, operation string) (*gemini.VideoResult, error)
}

// Fetcher downloads a remote reference image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// Scheduler runs background work after a delay.
type Scheduler interface {
	RunAfter(delay time.Duration, name string, fn func(ctx context.Context))
}

// PriceSource serves the current gold price.
type PriceSource interface {
	Current(ctx context.Context) (*models.GoldPrice, error)
}

// CuratedContent serves the hand-picked inspiration and showcase images.
type CuratedContent interface {
	InspirationByCategory(ctx context.Context, category string, limit int) ([]models.InspirationImage, error)
	Showcase(ctx context.Context, jewelryType string) ([]models.ShowcaseImage, error)
}
