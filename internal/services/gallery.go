package services

import (
	"context"
	"strings"

	"jewelry-studio-backend/internal/models"
)

const (
	FeaturedLimit    = 4
	RecentLimit      = 8
	InspirationLimit = 12
)

type GalleryService struct {
	store       DesignStore
	designs     *DesignService
	curated CuratedContent
}

func NewGalleryService(store DesignStore, designs *DesignService, curated CuratedContent) *GalleryService {
	return &GalleryService{store: store, designs: designs, curated: curated}
}

func (s *GalleryService) Featured(ctx context.Context) ([]models.DesignSummary, error) {
	designs, err := s.store.ListFeaturedDesigns(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(designs), nil
}

// Recent lists the newest completed designs that have an image to show.
func (s *GalleryService) Recent(ctx context.Context) ([]models.DesignSummary, error) {
	designs, err := s.store.ListRecentCompletedDesigns(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(designs), nil
}

func (s *GalleryService) summaries(designs []models.Design) []models.DesignSummary {
	out := make([]models.DesignSummary, 0, len(designs))
	for i := range designs {
		summary := s.designs.Summary(&designs[i])
		if summary.ImageURL == "" {
			continue
		}
		out = append(out, summary)
	}
	return out
}

func (s *GalleryService) Inspiration(ctx context.Context, category string) ([]models.InspirationImage, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError("category", "Category is required")
	}
	return s.curated.InspirationByCategory(ctx, category, InspirationLimit)
}

// Showcase lists the showcase pieces of a jewelry type, or all of them when
// jewelryType is blank, with their image URLs resolved.
func (s *GalleryService) Showcase(ctx context.Context, jewelryType string) ([]models.ShowcaseImage, error) {
	images, err := s.curated.Showcase(ctx, strings.ToLower(strings.TrimSpace(jewelryType)))
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].ImageURL = s.designs.blobs.URL(images[i].ImageStorageID)
	}
	return images, nil
}
