package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"jewelry-studio-backend/internal/models"
)

// Client reads curated content through the PostgREST API.
type Client struct {
	Supabase *supabase.Client
}

func NewClient(url, serviceKey string) (*Client, error) {
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{Supabase: client}, nil
}

// InspirationByCategory returns up to limit inspiration images of a category.
func (c *Client) InspirationByCategory(ctx context.Context, category string, limit int) ([]models.InspirationImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var images []models.InspirationImage
	_, err := c.Supabase.From("inspiration_images").
		Select("id,image_url,thumbnail,title,category", "", false).
		Eq("category", category).
		Limit(limit, "").
		ExecuteTo(&images)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspiration images for %s (limit %d): %w", category, limit, err)
	}
	if images == nil {
		images = []models.InspirationImage{}
	}
	return images, nil
}

// Showcase returns the curated showcase pieces of a jewelry type, or every
// piece when jewelryType is empty.
func (c *Client) Showcase(ctx context.Context, jewelryType string) ([]models.ShowcaseImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := c.Supabase.From("showcase_images").
		Select("id,jewelry_type,design_style,metal_type,featured,image_storage_id", "", false)
	if jewelryType != "" {
		query = query.Eq("jewelry_type", jewelryType)
	}

	var images []models.ShowcaseImage
	if _, err := query.ExecuteTo(&images); err != nil {
		return nil, fmt.Errorf("failed to list showcase images (type %q): %w", jewelryType, err)
	}
	if images == nil {
		images = []models.ShowcaseImage{}
	}
	return images, nil
}
