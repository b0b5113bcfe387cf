package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/services"
)

type designHarness struct {
	store   *memoryStore
	blobs   *memoryBlobs
	tasks   *recordingScheduler
	limiter *fakeLimiter
	client  *fakeVideoClient
	svc     *services.DesignService
}

func newDesignHarness() *designHarness {
	h := &designHarness{
		store:   newMemoryStore(),
		blobs:   newMemoryBlobs(),
		tasks:   &recordingScheduler{},
		limiter: &fakeLimiter{allow: true},
		client:  &fakeVideoClient{doneAfter: 1},
	}
	noSleep := (&sleepLog{}).sleep
	videos := services.NewVideoService(h.store, h.blobs, h.client, nil, nil, services.VideoOptions{Sleep: noSleep})
	generation := services.NewGenerationService(h.store, h.blobs, &scriptedCaller{}, &fakeFetcher{}, videos, h.tasks, nil, nil,
		services.GenerationOptions{Sleep: noSleep})
	h.svc = services.NewDesignService(h.store, h.blobs, generation, videos, h.tasks, h.limiter, nil)
	return h
}

func createRequest() models.CreateDesignRequest {
	return models.CreateDesignRequest{
		Name:     "Amir",
		Language: models.LanguageEnglish,
		Font:     "script",
		Size:     models.SizeSmall,
		Karat:    models.Karat18,
		Style:    models.StyleGoldOnly,
	}
}

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.CreateDesignRequest)
		field   string
		wantErr bool
	}{
		{name: "valid", mutate: func(r *models.CreateDesignRequest) {}},
		{name: "english at limit", mutate: func(r *models.CreateDesignRequest) { r.Name = strings.Repeat("a", 15) }},
		{name: "english over limit", mutate: func(r *models.CreateDesignRequest) { r.Name = strings.Repeat("a", 16) }, field: "name", wantErr: true},
		{name: "arabic at limit", mutate: func(r *models.CreateDesignRequest) {
			r.Language = models.LanguageArabic
			r.Name = strings.Repeat("س", 12)
		}},
		{name: "arabic over limit", mutate: func(r *models.CreateDesignRequest) {
			r.Language = models.LanguageArabic
			r.Name = strings.Repeat("س", 13)
		}, field: "name", wantErr: true},
		{name: "chinese over limit", mutate: func(r *models.CreateDesignRequest) {
			r.Language = models.LanguageChinese
			r.Name = strings.Repeat("金", 9)
		}, field: "name", wantErr: true},
		{name: "blank name", mutate: func(r *models.CreateDesignRequest) { r.Name = "   " }, field: "name", wantErr: true},
		{name: "unknown language", mutate: func(r *models.CreateDesignRequest) { r.Language = "fr" }, field: "language", wantErr: true},
		{name: "missing font", mutate: func(r *models.CreateDesignRequest) { r.Font = "" }, field: "font", wantErr: true},
		{name: "unknown size", mutate: func(r *models.CreateDesignRequest) { r.Size = "huge" }, field: "size", wantErr: true},
		{name: "unknown karat", mutate: func(r *models.CreateDesignRequest) { r.Karat = "24K" }, field: "karat", wantErr: true},
		{name: "unknown style", mutate: func(r *models.CreateDesignRequest) { r.Style = "enamel" }, field: "style", wantErr: true},
		{name: "unknown metal", mutate: func(r *models.CreateDesignRequest) { r.MetalType = "platinum" }, field: "metal_type", wantErr: true},
		{name: "non http reference", mutate: func(r *models.CreateDesignRequest) { r.ReferenceURL = "ftp://example.com/a.jpg" }, field: "reference_url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.mutate(&req)

			_, err := services.ValidateSpec(req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestValidateSpec_NormalisesInput(t *testing.T) {
	req := createRequest()
	req.Name = "  Amir  "
	req.ReferenceURL = " https://example.com/a.jpg "

	spec, err := services.ValidateSpec(req)
	require.NoError(t, err)
	assert.Equal(t, "Amir", spec.Name)
	assert.Equal(t, models.MetalYellow, spec.MetalType)
	assert.Equal(t, "https://example.com/a.jpg", spec.ReferenceURL)
}

func TestDesignCreate_SchedulesGeneration(t *testing.T) {
	h := newDesignHarness()

	design, err := h.svc.Create(context.Background(), createRequest(), "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusGenerating, design.Status)
	assert.Equal(t, models.MaxRegenerations, design.RegenerationsRemaining)
	assert.Equal(t, []string{"10.0.0.1"}, h.limiter.ids)

	tasks := h.tasks.scheduled()
	require.Len(t, tasks, 1)
	assert.Equal(t, "generate:"+design.ID.String(), tasks[0].name)
}

func TestDesignCreate_RateLimited(t *testing.T) {
	h := newDesignHarness()
	h.limiter.allow = false

	_, err := h.svc.Create(context.Background(), createRequest(), "10.0.0.1")
	assert.ErrorIs(t, err, models.ErrRateLimited)
	assert.Empty(t, h.store.designs)
	assert.Empty(t, h.tasks.scheduled())
}

func TestDesignCreate_LimiterErrorAllows(t *testing.T) {
	h := newDesignHarness()
	h.limiter.err = errors.New("redis down")

	_, err := h.svc.Create(context.Background(), createRequest(), "10.0.0.1")
	assert.NoError(t, err)
}

func TestDesignCreate_InvalidRequestSkipsLimiter(t *testing.T) {
	h := newDesignHarness()
	req := createRequest()
	req.Karat = "9K"

	_, err := h.svc.Create(context.Background(), req, "10.0.0.1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, h.limiter.ids)
}

func TestDesignRegenerate(t *testing.T) {
	h := newDesignHarness()
	design := h.store.add(amir())

	got, err := h.svc.Regenerate(context.Background(), design.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxRegenerations-1, got.RegenerationsRemaining)
	assert.Equal(t, 2, got.Generation)
	assert.Equal(t, models.StatusGenerating, got.Status)
	assert.Len(t, h.tasks.scheduled(), 1)
}

func TestDesignRegenerate_BeforeCreateTaskRuns(t *testing.T) {
	h := newDesignHarness()

	design, err := h.svc.Create(context.Background(), createRequest(), "10.0.0.1")
	require.NoError(t, err)
	_, err = h.svc.Regenerate(context.Background(), design.ID)
	require.NoError(t, err)

	tasks := h.tasks.scheduled()
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		task.fn(context.Background())
	}

	got := h.store.snapshot(design.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 2, got.Generation)
	assert.Len(t, got.ProductImages, 4)
	assert.Len(t, got.OnBodyImages, 4)
}

func TestDesignRegenerate_NoneLeftChangesNothing(t *testing.T) {
	h := newDesignHarness()
	design := h.store.add(amir())
	h.store.mu.Lock()
	h.store.designs[design.ID].RegenerationsRemaining = 0
	h.store.mu.Unlock()
	writes := h.store.writeCount()

	_, err := h.svc.Regenerate(context.Background(), design.ID)
	assert.ErrorIs(t, err, models.ErrNoRegenerationsLeft)
	assert.EqualError(t, err, "No regenerations left")

	got := h.store.snapshot(design.ID)
	assert.Equal(t, 0, got.RegenerationsRemaining)
	assert.Equal(t, 1, got.Generation)
	assert.Equal(t, writes, h.store.writeCount())
	assert.Empty(t, h.tasks.scheduled())
}

func TestDesignRegenerate_UnknownDesign(t *testing.T) {
	h := newDesignHarness()

	_, err := h.svc.Regenerate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrDesignNotFound)
}

func addProduct(t *testing.T, h *designHarness, id uuid.UUID, variation int) string {
	t.Helper()
	ctx := context.Background()
	storageID, err := h.blobs.Put(ctx, []byte(fmt.Sprintf("product-%d", variation)), "image/png")
	require.NoError(t, err)
	design := h.store.snapshot(id)
	require.NoError(t, h.store.AppendImage(ctx, id, design.Generation, models.ImageProduct,
		models.StoredImage{StorageID: storageID, Variation: variation}, ""))
	return storageID
}

func TestDesignSelectVariation(t *testing.T) {
	h := newDesignHarness()
	design := h.store.add(amir())
	addProduct(t, h, design.ID, 0)
	addProduct(t, h, design.ID, 2)

	got, err := h.svc.SelectVariation(context.Background(), design.ID, 2)
	require.NoError(t, err)
	assert.True(t, got.SelectedVariation.Valid)
	assert.EqualValues(t, 2, got.SelectedVariation.Int32)

	_, err = h.svc.SelectVariation(context.Background(), design.ID, 1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDesignTriggerVideo(t *testing.T) {
	h := newDesignHarness()
	design := h.store.add(amir())
	addProduct(t, h, design.ID, 0)

	err := h.svc.TriggerVideo(context.Background(), design.ID, 1)
	assert.ErrorIs(t, err, models.ErrNoSourceImage)
	assert.Empty(t, h.tasks.scheduled())

	require.NoError(t, h.svc.TriggerVideo(context.Background(), design.ID, 0))
	tasks := h.tasks.scheduled()
	require.Len(t, tasks, 1)
	assert.Equal(t, fmt.Sprintf("video:%s:0", design.ID), tasks[0].name)

	tasks[0].fn(context.Background())
	assert.Equal(t, models.VideoCompleted, h.store.snapshot(design.ID).VideoSlots[0].Status)
}

func TestDesignBeforeAfter(t *testing.T) {
	h := newDesignHarness()
	spec := amir()
	spec.ReferenceURL = "https://example.com/pendant.jpg"
	design := h.store.add(spec)
	first := addProduct(t, h, design.ID, 0)
	second := addProduct(t, h, design.ID, 1)

	resp, err := h.svc.BeforeAfter(context.Background(), design.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pendant.jpg", resp.BeforeURL)
	assert.Equal(t, h.blobs.URL(first), resp.AfterURL)

	require.NoError(t, h.store.SetReferenceStorageID(context.Background(), design.ID, "ref-1"))
	_, err = h.svc.SelectVariation(context.Background(), design.ID, 1)
	require.NoError(t, err)

	resp, err = h.svc.BeforeAfter(context.Background(), design.ID)
	require.NoError(t, err)
	assert.Equal(t, h.blobs.URL("ref-1"), resp.BeforeURL)
	assert.Equal(t, h.blobs.URL(second), resp.AfterURL)
}

func TestDesignUpload(t *testing.T) {
	h := newDesignHarness()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

	resp, err := h.svc.Upload(context.Background(), png, "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.StorageID)
	assert.Equal(t, h.blobs.URL(resp.StorageID), resp.URL)

	_, err = h.svc.Upload(context.Background(), []byte("plain text"), "text/plain")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = h.svc.Upload(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = h.svc.Upload(context.Background(), make([]byte, services.MaxReferenceBytes+1), "image/png")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDesignResponse(t *testing.T) {
	h := newDesignHarness()
	design := h.store.add(amir())
	storageID := addProduct(t, h, design.ID, 1)

	resp := h.svc.Response(h.store.snapshot(design.ID))
	assert.Equal(t, design.ID.String(), resp.ID)
	assert.Equal(t, []models.ImageResponse{{Variation: 1, URL: h.blobs.URL(storageID)}}, resp.ProductImages)
	assert.NotNil(t, resp.OnBodyImages)
	assert.Empty(t, resp.OnBodyImages)
	assert.Nil(t, resp.SelectedVariation)
	require.Len(t, resp.Videos, models.VariationCount)
	for i, video := range resp.Videos {
		assert.Equal(t, i, video.Variation)
		assert.Equal(t, models.VideoPending, video.Status)
		assert.Empty(t, video.URL)
	}
}
