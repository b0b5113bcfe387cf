package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/ratelimit"
)

// DesignService handles the customer actions on designs.
type DesignService struct {
	store      DesignStore
	blobs      BlobStore
	generation *GenerationService
	videos     *VideoService
	tasks      Scheduler
	limiter    ratelimit.Limiter
	log        *zap.Logger
}

func NewDesignService(
	store DesignStore,
	blobs BlobStore,
	generation *GenerationService,
	videos *VideoService,
	tasks Scheduler,
	limiter ratelimit.Limiter,
	log *zap.Logger,
) *DesignService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DesignService{
		store:      store,
		blobs:      blobs,
		generation: generation,
		videos:     videos,
		tasks:      tasks,
		limiter:    limiter,
		log:        log.Named("designs"),
	}
}

// ValidateSpec normalises a create request into a DesignSpec.
func ValidateSpec(req models.CreateDesignRequest) (models.DesignSpec, error) {
	spec := models.DesignSpec{
		Name:                   strings.TrimSpace(req.Name),
		Language:               req.Language,
		Font:                   strings.TrimSpace(req.Font),
		Size:                   req.Size,
		Karat:                  req.Karat,
		Style:                  req.Style,
		MetalType:              req.MetalType,
		JewelryType:            strings.TrimSpace(req.JewelryType),
		DesignStyle:            strings.TrimSpace(req.DesignStyle),
		ReferenceURL:           strings.TrimSpace(req.ReferenceURL),
		ReferenceStorageID:     strings.TrimSpace(req.ReferenceStorageID),
		TextReferenceStorageID: strings.TrimSpace(req.TextReferenceStorageID),
	}
	if spec.MetalType == "" {
		spec.MetalType = models.MetalYellow
	}

	if !spec.Language.Valid() {
		return spec, models.NewValidationError("language", "Language must be one of en, ar, zh")
	}
	length := utf8.RuneCountInString(spec.Name)
	if length == 0 {
		return spec, models.NewValidationError("name", "Name is required")
	}
	if limit := spec.Language.NameLimit(); length > limit {
		return spec, models.NewValidationError("name", fmt.Sprintf("Name must be at most %d characters", limit))
	}
	if spec.Font == "" {
		return spec, models.NewValidationError("font", "Font is required")
	}
	if !spec.Size.Valid() {
		return spec, models.NewValidationError("size", "Size must be one of small, medium, large")
	}
	if !spec.Karat.Valid() {
		return spec, models.NewValidationError("karat", "Karat must be one of 18K, 21K, 22K")
	}
	if !spec.Style.Valid() {
		return spec, models.NewValidationError("style", "Style must be one of gold_only, gold_with_stones, gold_with_diamonds")
	}
	if !spec.MetalType.Valid() {
		return spec, models.NewValidationError("metal_type", "Metal type must be one of yellow, rose, white")
	}
	if spec.ReferenceURL != "" && !strings.HasPrefix(spec.ReferenceURL, "https://") && !strings.HasPrefix(spec.ReferenceURL, "http://") {
		return spec, models.NewValidationError("reference_url", "Reference URL must be http or https")
	}
	return spec, nil
}

// Create validates the request, applies the hourly limit for the client and
// schedules generation for the new design.
func (s *DesignService) Create(ctx context.Context, req models.CreateDesignRequest, clientID string) (*models.Design, error) {
	spec, err := ValidateSpec(req)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, clientID)
		if err != nil {
			s.log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			return nil, models.ErrRateLimited
		}
	}

	design, err := s.store.CreateDesign(ctx, spec)
	if err != nil {
		return nil, err
	}

	s.log.Info("design created",
		zap.String("design_id", design.ID.String()),
		zap.String("karat", string(design.Karat)),
		zap.Bool("has_reference", design.HasReference()),
	)
	s.generation.Schedule(design.ID, design.Generation)
	return design, nil
}

func (s *DesignService) Get(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	return s.store.GetDesign(ctx, id)
}

// Regenerate resets the design and starts a new run. It is rejected without
// any change when no regenerations remain.
func (s *DesignService) Regenerate(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	generation, err := s.store.Regenerate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("design regenerating", zap.String("design_id", id.String()), zap.Int("generation", generation))
	s.generation.Schedule(id, generation)
	return s.store.GetDesign(ctx, id)
}

func (s *DesignService) SelectVariation(ctx context.Context, id uuid.UUID, variation int) (*models.Design, error) {
	design, err := s.store.GetDesign(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := design.ProductImage(variation); !ok {
		return nil, models.NewValidationError("index", fmt.Sprintf("Variation %d is not available", variation))
	}
	if err := s.store.SelectVariation(ctx, id, variation); err != nil {
		return nil, err
	}
	return s.store.GetDesign(ctx, id)
}

func (s *DesignService) SaveToGallery(ctx context.Context, id uuid.UUID) error {
	return s.store.SetFeatured(ctx, id, true)
}

// TriggerVideo checks the variation synchronously and renders its video in
// the background.
func (s *DesignService) TriggerVideo(ctx context.Context, id uuid.UUID, variation int) error {
	design, err := s.store.GetDesign(ctx, id)
	if err != nil {
		return err
	}
	if err := s.videos.Check(design, variation); err != nil {
		return err
	}

	s.tasks.RunAfter(0, fmt.Sprintf("video:%s:%d", id, variation), func(ctx context.Context) {
		_ = s.videos.Generate(ctx, id, variation)
	})
	return nil
}

// BeforeAfter pairs the reference image with the selected product image.
func (s *DesignService) BeforeAfter(ctx context.Context, id uuid.UUID) (*models.BeforeAfterResponse, error) {
	design, err := s.store.GetDesign(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &models.BeforeAfterResponse{DesignID: design.ID.String()}
	switch {
	case design.ReferenceStorageID != "":
		resp.BeforeURL = s.blobs.URL(design.ReferenceStorageID)
	case design.ReferenceURL != "":
		resp.BeforeURL = design.ReferenceURL
	}
	if img, ok := design.PrimaryImage(); ok {
		resp.AfterURL = s.blobs.URL(img.StorageID)
	}
	return resp, nil
}

// Upload stores a client file and returns its storage id and URL.
func (s *DesignService) Upload(ctx context.Context, data []byte, declaredType string) (*models.UploadResponse, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("file", "File is empty")
	}
	if len(data) > MaxReferenceBytes {
		return nil, models.NewValidationError("file", fmt.Sprintf("File must be at most %d MB", MaxReferenceBytes>>20))
	}
	mimeType := DetectMIME(data, declaredType)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, models.NewValidationError("file", "Only image uploads are accepted")
	}

	storageID, err := s.blobs.Put(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return &models.UploadResponse{StorageID: storageID, URL: s.blobs.URL(storageID)}, nil
}

// Response resolves a design into its polling surface.
func (s *DesignService) Response(design *models.Design) models.DesignResponse {
	resp := models.DesignResponse{
		ID:                     design.ID.String(),
		Name:                   design.Name,
		Language:               design.Language,
		Font:                   design.Font,
		Size:                   design.Size,
		Karat:                  design.Karat,
		Style:                  design.Style,
		MetalType:              design.MetalType,
		JewelryType:            design.JewelryType,
		DesignStyle:            design.DesignStyle,
		Status:                 design.Status,
		ProgressNote:           design.ProgressNote.String,
		Analysis:               design.Analysis,
		Error:                  design.ErrorMessage.String,
		ProductImages:          s.imageResponses(design.ProductImages),
		OnBodyImages:           s.imageResponses(design.OnBodyImages),
		RegenerationsRemaining: design.RegenerationsRemaining,
		Videos:                 make([]models.VideoSlotResponse, 0, len(design.VideoSlots)),
		Featured:               design.Featured,
		CreatedAt:              design.CreatedAt,
		UpdatedAt:              design.UpdatedAt,
	}

	switch {
	case design.ReferenceStorageID != "":
		resp.ReferenceURL = s.blobs.URL(design.ReferenceStorageID)
	case design.ReferenceURL != "":
		resp.ReferenceURL = design.ReferenceURL
	}
	if design.SelectedVariation.Valid {
		v := int(design.SelectedVariation.Int32)
		resp.SelectedVariation = &v
	}
	for i, slot := range design.VideoSlots {
		resp.Videos = append(resp.Videos, models.VideoSlotResponse{
			Variation: i,
			Status:    slot.Status,
			URL:       s.blobs.URL(slot.StorageID),
		})
	}
	return resp
}

func (s *DesignService) imageResponses(images []models.StoredImage) []models.ImageResponse {
	out := make([]models.ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, models.ImageResponse{Variation: img.Variation, URL: s.blobs.URL(img.StorageID)})
	}
	return out
}

// Summary is the short form of a design used by galleries and orders.
func (s *DesignService) Summary(design *models.Design) models.DesignSummary {
	summary := models.DesignSummary{ID: design.ID.String(), Name: design.Name}
	if img, ok := design.PrimaryImage(); ok {
		summary.ImageURL = s.blobs.URL(img.StorageID)
	}
	return summary
}
