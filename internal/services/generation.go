package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"jewelry-studio-backend/internal/gemini"
	"jewelry-studio-backend/internal/metrics"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/prompts"
)

const (
	DefaultBatchSize    = 2
	DefaultBatchDelay   = 3 * time.Second
	DefaultVideoStagger = 10 * time.Second

	// One hero, three more product angles and four on-body shots.
	plannedImages = 2 * models.VariationCount

	noteStudying = "Studying your reference..."
)

// Messages stored on failed designs, shown to the customer as is.
var (
	errHeroFailed = errors.New("Hero image generation failed")
	errNoImages   = errors.New("No images generated")
)

// VideoGenerator renders one variation's video.
type VideoGenerator interface {
	Generate(ctx context.Context, designID uuid.UUID, variation int) error
}

type GenerationOptions struct {
	BatchSize    int
	BatchDelay   time.Duration
	VideoStagger time.Duration
	Sleep        gemini.SleepFunc
}

// GenerationService drives one design from generating to completed or
// failed. It is the only writer of a design's images during a run.
type GenerationService struct {
	store   DesignStore
	blobs   BlobStore
	images  ImageCaller
	fetcher Fetcher
	videos  VideoGenerator
	tasks   Scheduler
	log     *zap.Logger
	metrics *metrics.Metrics
	opts    GenerationOptions
}

func NewGenerationService(
	store DesignStore,
	blobs BlobStore,
	images ImageCaller,
	fetcher Fetcher,
	videos VideoGenerator,
	tasks Scheduler,
	log *zap.Logger,
	m *metrics.Metrics,
	opts GenerationOptions,
) *GenerationService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = DefaultBatchDelay
	}
	if opts.VideoStagger <= 0 {
		opts.VideoStagger = DefaultVideoStagger
	}
	if opts.Sleep == nil {
		opts.Sleep = gemini.Sleep
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &GenerationService{
		store:   store,
		blobs:   blobs,
		images:  images,
		fetcher: fetcher,
		videos:  videos,
		tasks:   tasks,
		log:     log.Named("generation"),
		metrics: m,
		opts:    opts,
	}
}

// Schedule queues a run for the given generation of the design in the
// background.
func (s *GenerationService) Schedule(designID uuid.UUID, generation int) {
	s.tasks.RunAfter(0, "generate:"+designID.String(), func(ctx context.Context) {
		_ = s.Run(ctx, designID, generation)
	})
}

// Run executes one generation run for the given generation. A run superseded
// by a regenerate, before or after it starts, stops quietly and returns nil.
func (s *GenerationService) Run(ctx context.Context, designID uuid.UUID, generation int) (err error) {
	started := time.Now()

	design, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		s.log.Error("generation could not load design", zap.String("design_id", designID.String()), zap.Error(err))
		s.metrics.DesignRun("error", time.Since(started).Seconds())
		return err
	}

	run := &designRun{
		svc:        s,
		design:     design,
		generation: generation,
		log: s.log.With(
			zap.String("design_id", designID.String()),
			zap.Int("generation", generation),
		),
	}

	if design.Generation != generation {
		run.log.Info("generation superseded before start", zap.Int("current_generation", design.Generation))
		s.metrics.DesignRun("superseded", time.Since(started).Seconds())
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generation panicked: %v", rec)
			run.log.Error("generation panicked", zap.Any("panic", rec), zap.Stack("stack"))
			run.fail(ctx, err)
			s.metrics.DesignRun("failed", time.Since(started).Seconds())
		}
	}()

	err = run.execute(ctx)
	switch {
	case err == nil:
		s.metrics.DesignRun("completed", time.Since(started).Seconds())
		return nil
	case errors.Is(err, models.ErrStaleGeneration):
		run.log.Info("generation superseded by a newer run")
		s.metrics.DesignRun("superseded", time.Since(started).Seconds())
		return nil
	default:
		run.fail(ctx, err)
		s.metrics.DesignRun("failed", time.Since(started).Seconds())
		return err
	}
}

// ResolveReference loads the reference image for a design. A remote reference
// is persisted to the blob store once so it can be shown again later. Every
// failure here is logged and yields no reference.
func (s *GenerationService) ResolveReference(ctx context.Context, design *models.Design) *gemini.Image {
	log := s.log.With(zap.String("design_id", design.ID.String()))

	if design.ReferenceStorageID != "" {
		data, err := s.blobs.Get(ctx, design.ReferenceStorageID)
		if err != nil {
			log.Warn("stored reference unavailable", zap.Error(err))
			return nil
		}
		return &gemini.Image{Data: data, MIMEType: DetectMIME(data, "")}
	}

	if design.ReferenceURL == "" {
		return nil
	}

	data, mimeType, err := s.fetcher.Fetch(ctx, design.ReferenceURL)
	if err != nil {
		log.Warn("reference download failed", zap.Error(err))
		return nil
	}

	storageID, err := s.blobs.Put(ctx, data, mimeType)
	if err != nil {
		log.Warn("reference persist failed", zap.Error(err))
	} else if err := s.store.SetReferenceStorageID(ctx, design.ID, storageID); err != nil {
		log.Warn("reference id not recorded", zap.Error(err))
	} else {
		design.ReferenceStorageID = storageID
	}

	return &gemini.Image{Data: data, MIMEType: mimeType}
}

func (s *GenerationService) resolveTextReference(ctx context.Context, design *models.Design) *gemini.Image {
	if design.TextReferenceStorageID == "" {
		return nil
	}
	data, err := s.blobs.Get(ctx, design.TextReferenceStorageID)
	if err != nil {
		s.log.Warn("text reference unavailable", zap.String("design_id", design.ID.String()), zap.Error(err))
		return nil
	}
	return &gemini.Image{Data: data, MIMEType: DetectMIME(data, "image/png")}
}

type designRun struct {
	svc        *GenerationService
	design     *models.Design
	generation int
	log        *zap.Logger

	mu       sync.Mutex
	stored   int
	products []int
}

type imageJob struct {
	kind      models.ImageKind
	variation int
	prompt    string
}

func (j imageJob) label() string {
	return fmt.Sprintf("%s-%d", j.kind, j.variation)
}

func (r *designRun) execute(ctx context.Context) error {
	s := r.svc
	id := r.design.ID

	if err := s.store.UpdateDesignStatus(ctx, id, r.generation, models.StatusAnalyzing, noteStudying); err != nil {
		return err
	}

	reference := s.ResolveReference(ctx, r.design)
	textReference := s.resolveTextReference(ctx, r.design)

	analysis := models.Analysis{
		JewelryType: r.design.JewelryType,
		Metal:       fmt.Sprintf("%s Gold", r.design.Karat),
		BestSpot:    "AI visualized",
	}
	if analysis.JewelryType == "" {
		analysis.JewelryType = "Pendant"
	}
	note := fmt.Sprintf("Creating '%s' in %s gold...", r.design.Name, r.design.Karat)
	if err := s.store.StartEngraving(ctx, id, r.generation, analysis, note); err != nil {
		return err
	}

	hero, err := r.generateHero(ctx, reference, textReference)
	if err != nil {
		return err
	}

	anchor := []gemini.Image{*hero}
	if textReference != nil {
		anchor = append(anchor, *textReference)
	}
	if err := r.generateAnchored(ctx, anchor); err != nil {
		return err
	}

	r.mu.Lock()
	products := append([]int(nil), r.products...)
	stored := r.stored
	r.mu.Unlock()

	if len(products) == 0 {
		return errNoImages
	}
	if err := s.store.CompleteDesign(ctx, id, r.generation); err != nil {
		return err
	}
	r.log.Info("generation completed",
		zap.Int("product_images", len(products)),
		zap.Int("stored_images", stored),
	)

	r.scheduleVideos(products)
	return nil
}

// generateHero renders product variation 0. Without it there is nothing to
// anchor the other shots to, so failure ends the run.
func (r *designRun) generateHero(ctx context.Context, reference, textReference *gemini.Image) (*gemini.Image, error) {
	spec := r.design.DesignSpec

	var (
		prompt string
		refs   []gemini.Image
	)
	if reference != nil {
		prompt = prompts.ProductShot(spec, prompts.Shot{Variation: 0, HasReference: true})
		refs = append(refs, *reference)
	} else {
		prompt = prompts.FromScratch(spec, 0)
	}
	if textReference != nil {
		refs = append(refs, *textReference)
	}

	hero := r.svc.images.Call(ctx, prompt, refs, "hero")
	if hero == nil {
		r.svc.metrics.GenerationCall("hero", "empty")
		return nil, errHeroFailed
	}
	r.svc.metrics.GenerationCall("hero", "success")

	if err := r.store(ctx, imageJob{kind: models.ImageProduct, variation: 0}, hero); err != nil {
		if errors.Is(err, models.ErrStaleGeneration) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store hero image: %w", err)
	}
	return hero, nil
}

// generateAnchored renders the remaining product angles and the on-body
// shots in small concurrent batches with a pause between batches.
func (r *designRun) generateAnchored(ctx context.Context, anchor []gemini.Image) error {
	spec := r.design.DesignSpec

	var jobs []imageJob
	for v := 1; v < models.VariationCount; v++ {
		jobs = append(jobs, imageJob{
			kind:      models.ImageProduct,
			variation: v,
			prompt:    prompts.ProductShot(spec, prompts.Shot{Variation: v, HasReference: true, HeroAnchored: true}),
		})
	}
	for v := 0; v < models.VariationCount; v++ {
		jobs = append(jobs, imageJob{
			kind:      models.ImageOnBody,
			variation: v,
			prompt:    prompts.OnBody(spec, prompts.Shot{Variation: v, HasReference: true, HeroAnchored: true}),
		})
	}

	batchSize := r.svc.opts.BatchSize
	for start := 0; start < len(jobs); start += batchSize {
		if start > 0 {
			if err := r.svc.opts.Sleep(ctx, r.svc.opts.BatchDelay); err != nil {
				return err
			}
		}

		end := min(start+batchSize, len(jobs))
		g, gctx := errgroup.WithContext(ctx)
		for _, job := range jobs[start:end] {
			g.Go(func() error {
				return r.runJob(gctx, job, anchor)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// runJob returns an error only when the run has been superseded. Any other
// failure leaves the slot empty.
func (r *designRun) runJob(ctx context.Context, job imageJob, anchor []gemini.Image) error {
	log := r.log.With(zap.String("kind", string(job.kind)), zap.Int("variation", job.variation))

	img := r.svc.images.Call(ctx, job.prompt, anchor, job.label())
	if img == nil {
		r.svc.metrics.GenerationCall(string(job.kind), "empty")
		log.Warn("slot left empty")
		return nil
	}
	r.svc.metrics.GenerationCall(string(job.kind), "success")

	if err := r.store(ctx, job, img); err != nil {
		if errors.Is(err, models.ErrStaleGeneration) {
			return err
		}
		log.Error("failed to store image", zap.Error(err))
	}
	return nil
}

// store persists one image and appends it to the design immediately.
func (r *designRun) store(ctx context.Context, job imageJob, img *gemini.Image) error {
	storageID, err := r.svc.blobs.Put(ctx, img.Data, img.MIMEType)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.stored++
	note := fmt.Sprintf("Generated %d of %d images...", r.stored, plannedImages)
	r.mu.Unlock()

	entry := models.StoredImage{StorageID: storageID, Variation: job.variation}
	if err := r.svc.store.AppendImage(ctx, r.design.ID, r.generation, job.kind, entry, note); err != nil {
		r.mu.Lock()
		r.stored--
		r.mu.Unlock()
		return err
	}

	if job.kind == models.ImageProduct {
		r.mu.Lock()
		r.products = append(r.products, job.variation)
		r.mu.Unlock()
	}
	return nil
}

func (r *designRun) fail(ctx context.Context, cause error) {
	writeCtx := context.WithoutCancel(ctx)
	err := r.svc.store.FailDesign(writeCtx, r.design.ID, r.generation, cause.Error())
	switch {
	case err == nil:
		r.log.Warn("generation failed", zap.Error(cause))
	case errors.Is(err, models.ErrStaleGeneration):
		r.log.Info("failed run already superseded", zap.Error(cause))
	default:
		r.log.Error("could not record generation failure", zap.NamedError("cause", cause), zap.Error(err))
	}
}

func (r *designRun) scheduleVideos(variations []int) {
	if r.svc.videos == nil {
		return
	}
	sort.Ints(variations)

	id := r.design.ID
	for i, variation := range variations {
		delay := time.Duration(i+1) * r.svc.opts.VideoStagger
		name := fmt.Sprintf("video:%s:%d", id, variation)
		r.svc.tasks.RunAfter(delay, name, func(ctx context.Context) {
			if err := r.svc.videos.Generate(ctx, id, variation); err != nil {
				r.log.Warn("video generation ended with error", zap.Int("variation", variation), zap.Error(err))
			}
		})
	}
}
