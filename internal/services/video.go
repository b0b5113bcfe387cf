package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"jewelry-studio-backend/internal/gemini"
	"jewelry-studio-backend/internal/metrics"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/prompts"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxPolls     = 60
)

var errVideoTimeout = errors.New("video generation timed out")

type VideoOptions struct {
	PollInterval time.Duration
	MaxPolls     int
	Sleep        gemini.SleepFunc
}

// VideoService animates one stored product image per call. The operation
// handle is recorded before the first poll and every run ends with the slot
// completed or failed.
type VideoService struct {
	store   DesignStore
	blobs   BlobStore
	client  VideoClient
	log     *zap.Logger
	metrics *metrics.Metrics
	opts    VideoOptions
}

func NewVideoService(store DesignStore, blobs BlobStore, client VideoClient, log *zap.Logger, m *metrics.Metrics, opts VideoOptions) *VideoService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = DefaultMaxPolls
	}
	if opts.Sleep == nil {
		opts.Sleep = gemini.Sleep
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &VideoService{
		store:   store,
		blobs:   blobs,
		client:  client,
		log:     log.Named("video"),
		metrics: m,
		opts:    opts,
	}
}

// Check reports whether a video can be started for the variation.
func (s *VideoService) Check(design *models.Design, variation int) error {
	if variation < 0 || variation >= models.VariationCount {
		return models.NewValidationError("index", fmt.Sprintf("Variation index must be between 0 and %d", models.VariationCount-1))
	}
	if _, ok := design.ProductImage(variation); !ok {
		return models.ErrNoSourceImage
	}
	if variation < len(design.VideoSlots) && design.VideoSlots[variation].Status == models.VideoGenerating {
		return models.ErrVideoInProgress
	}
	return nil
}

// Generate renders the video for one product variation. It fails without
// calling the video API when the variation has no stored product image.
func (s *VideoService) Generate(ctx context.Context, designID uuid.UUID, variation int) error {
	started := time.Now()
	log := s.log.With(zap.String("design_id", designID.String()), zap.Int("variation", variation))

	design, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		return err
	}
	if err := s.Check(design, variation); err != nil {
		log.Warn("video not started", zap.Error(err))
		return err
	}
	log = log.With(zap.Int("generation", design.Generation))

	operation, err := s.render(ctx, design, variation, log)
	switch {
	case err == nil:
		s.metrics.VideoRun("completed", time.Since(started).Seconds())
		return nil
	case errors.Is(err, models.ErrStaleGeneration):
		log.Info("video superseded by a newer run")
		s.metrics.VideoRun("superseded", time.Since(started).Seconds())
		return nil
	default:
		log.Error("video generation failed", zap.Error(err))
		s.metrics.VideoRun("failed", time.Since(started).Seconds())
		s.markFailed(ctx, design, variation, operation, log)
		return err
	}
}

// render returns the operation handle once one exists, also on failure.
func (s *VideoService) render(ctx context.Context, design *models.Design, variation int, log *zap.Logger) (string, error) {
	source, _ := design.ProductImage(variation)
	data, err := s.blobs.Get(ctx, source.StorageID)
	if err != nil {
		return "", fmt.Errorf("failed to load source image: %w", err)
	}

	operation, err := s.client.StartVideo(ctx, gemini.VideoRequest{
		Prompt:         prompts.Video(design.JewelryType, design.MetalType, design.Karat),
		NegativePrompt: prompts.VideoNegative(),
		Source:         gemini.Image{Data: data, MIMEType: DetectMIME(data, "")},
	})
	if err != nil {
		return "", err
	}
	log = log.With(zap.String("operation", operation))
	log.Info("video operation started")

	slot := models.VideoSlot{Status: models.VideoGenerating, OperationID: operation}
	if err := s.store.SetVideoSlot(ctx, design.ID, design.Generation, variation, slot); err != nil {
		return operation, err
	}

	for attempt := 1; attempt <= s.opts.MaxPolls; attempt++ {
		if err := s.opts.Sleep(ctx, s.opts.PollInterval); err != nil {
			return operation, err
		}

		result, err := s.client.VideoStatus(ctx, operation)
		if err != nil {
			return operation, err
		}
		if !result.Done {
			log.Debug("video still rendering", zap.Int("attempt", attempt))
			continue
		}
		if result.Error != "" {
			return operation, fmt.Errorf("video operation failed: %s", result.Error)
		}
		if result.Video == nil || len(result.Video.Data) == 0 {
			return operation, errors.New("video operation finished without a video")
		}

		storageID, err := s.blobs.Put(ctx, result.Video.Data, result.Video.MIMEType)
		if err != nil {
			return operation, fmt.Errorf("failed to store video: %w", err)
		}

		slot.Status = models.VideoCompleted
		slot.StorageID = storageID
		if err := s.store.SetVideoSlot(ctx, design.ID, design.Generation, variation, slot); err != nil {
			return operation, err
		}
		log.Info("video stored", zap.Int("bytes", len(result.Video.Data)), zap.Int("polls", attempt))
		return operation, nil
	}

	return operation, errVideoTimeout
}

func (s *VideoService) markFailed(ctx context.Context, design *models.Design, variation int, operation string, log *zap.Logger) {
	slot := models.VideoSlot{Status: models.VideoFailed, OperationID: operation}
	err := s.store.SetVideoSlot(context.WithoutCancel(ctx), design.ID, design.Generation, variation, slot)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		log.Error("could not record video failure", zap.Error(err))
	}
}
