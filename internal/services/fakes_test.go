package services_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"jewelry-studio-backend/internal/gemini"
	"jewelry-studio-backend/internal/models"
)

// memoryStore mirrors the SQL store, including the run generation guard.
type memoryStore struct {
	mu       sync.Mutex
	designs  map[uuid.UUID]*models.Design
	history  map[uuid.UUID][]models.DesignStatus
	orders   map[uuid.UUID]*models.Order
	ordered  []uuid.UUID
	writes   int
	failNext error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		designs: map[uuid.UUID]*models.Design{},
		history: map[uuid.UUID][]models.DesignStatus{},
		orders:  map[uuid.UUID]*models.Order{},
	}
}

func clone(d *models.Design) *models.Design {
	c := *d
	c.ProductImages = slices.Clone(d.ProductImages)
	c.OnBodyImages = slices.Clone(d.OnBodyImages)
	c.VideoSlots = slices.Clone(d.VideoSlots)
	if d.Analysis != nil {
		a := *d.Analysis
		c.Analysis = &a
	}
	return &c
}

func (m *memoryStore) add(spec models.DesignSpec) *models.Design {
	d, _ := m.CreateDesign(context.Background(), spec)
	return d
}

func (m *memoryStore) snapshot(id uuid.UUID) *models.Design {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.designs[id])
}

func (m *memoryStore) statuses(id uuid.UUID) []models.DesignStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history[id])
}

func (m *memoryStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memoryStore) setStatus(d *models.Design, status models.DesignStatus) {
	d.Status = status
	m.history[d.ID] = append(m.history[d.ID], status)
}

// guarded runs fn against the design if the run generation still matches.
func (m *memoryStore) guarded(id uuid.UUID, generation int, fn func(d *models.Design)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok || d.Generation != generation {
		return models.ErrStaleGeneration
	}
	m.writes++
	fn(d)
	d.UpdatedAt = time.Now()
	return nil
}

func (m *memoryStore) CreateDesign(ctx context.Context, spec models.DesignSpec) (*models.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &models.Design{
		ID:                     uuid.New(),
		DesignSpec:             spec,
		ProductImages:          []models.StoredImage{},
		OnBodyImages:           []models.StoredImage{},
		RegenerationsRemaining: models.MaxRegenerations,
		VideoSlots:             models.EmptyVideoSlots(),
		Generation:             1,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	m.setStatus(d, models.StatusGenerating)
	m.designs[d.ID] = d
	return clone(d), nil
}

func (m *memoryStore) GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok {
		return nil, models.ErrDesignNotFound
	}
	return clone(d), nil
}

func (m *memoryStore) UpdateDesignStatus(ctx context.Context, id uuid.UUID, generation int, status models.DesignStatus, note string) error {
	return m.guarded(id, generation, func(d *models.Design) {
		m.setStatus(d, status)
		d.ProgressNote.String, d.ProgressNote.Valid = note, note != ""
	})
}

func (m *memoryStore) SetReferenceStorageID(ctx context.Context, id uuid.UUID, storageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.designs[id]; ok && d.ReferenceStorageID == "" {
		d.ReferenceStorageID = storageID
	}
	return nil
}

func (m *memoryStore) StartEngraving(ctx context.Context, id uuid.UUID, generation int, analysis models.Analysis, note string) error {
	return m.guarded(id, generation, func(d *models.Design) {
		m.setStatus(d, models.StatusEngraving)
		d.Analysis = &analysis
		d.ProgressNote.String, d.ProgressNote.Valid = note, true
	})
}

func (m *memoryStore) AppendImage(ctx context.Context, id uuid.UUID, generation int, kind models.ImageKind, img models.StoredImage, note string) error {
	return m.guarded(id, generation, func(d *models.Design) {
		if kind == models.ImageProduct {
			d.ProductImages = append(d.ProductImages, img)
		} else {
			d.OnBodyImages = append(d.OnBodyImages, img)
		}
		d.ProgressNote.String, d.ProgressNote.Valid = note, true
	})
}

func (m *memoryStore) CompleteDesign(ctx context.Context, id uuid.UUID, generation int) error {
	return m.guarded(id, generation, func(d *models.Design) {
		m.setStatus(d, models.StatusCompleted)
		d.ProgressNote.Valid = false
	})
}

func (m *memoryStore) FailDesign(ctx context.Context, id uuid.UUID, generation int, message string) error {
	return m.guarded(id, generation, func(d *models.Design) {
		m.setStatus(d, models.StatusFailed)
		d.ErrorMessage.String, d.ErrorMessage.Valid = message, true
	})
}

func (m *memoryStore) SetVideoSlot(ctx context.Context, id uuid.UUID, generation, index int, slot models.VideoSlot) error {
	return m.guarded(id, generation, func(d *models.Design) {
		d.VideoSlots[index] = slot
	})
}

func (m *memoryStore) Regenerate(ctx context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok {
		return 0, models.ErrDesignNotFound
	}
	if d.RegenerationsRemaining <= 0 {
		return 0, models.ErrNoRegenerationsLeft
	}
	m.writes++
	m.setStatus(d, models.StatusGenerating)
	d.ProductImages = []models.StoredImage{}
	d.OnBodyImages = []models.StoredImage{}
	d.VideoSlots = models.EmptyVideoSlots()
	d.SelectedVariation.Valid = false
	d.ErrorMessage.Valid = false
	d.Analysis = nil
	d.RegenerationsRemaining--
	d.Generation++
	return d.Generation, nil
}

func (m *memoryStore) SelectVariation(ctx context.Context, id uuid.UUID, variation int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok {
		return models.ErrDesignNotFound
	}
	d.SelectedVariation.Int32, d.SelectedVariation.Valid = int32(variation), true
	return nil
}

func (m *memoryStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok {
		return models.ErrDesignNotFound
	}
	d.Featured = featured
	return nil
}

func (m *memoryStore) list(limit int, keep func(*models.Design) bool) []models.Design {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Design
	for _, d := range m.designs {
		if keep(d) {
			out = append(out, *clone(d))
		}
	}
	slices.SortFunc(out, func(a, b models.Design) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memoryStore) ListFeaturedDesigns(ctx context.Context, limit int) ([]models.Design, error) {
	return m.list(limit, func(d *models.Design) bool { return d.Featured }), nil
}

func (m *memoryStore) ListRecentCompletedDesigns(ctx context.Context, limit int) ([]models.Design, error) {
	return m.list(limit, func(d *models.Design) bool { return d.Status == models.StatusCompleted }), nil
}

func (m *memoryStore) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	o := *order
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	m.orders[o.ID] = &o
	m.ordered = append([]uuid.UUID{o.ID}, m.ordered...)
	out := o
	return &out, nil
}

func (m *memoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	out := *o
	return &out, nil
}

func (m *memoryStore) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, id := range m.ordered {
		if len(out) == limit {
			break
		}
		out = append(out, *m.orders[id])
	}
	return out, nil
}

func (m *memoryStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
	puts  int
	fail  func(data []byte) bool
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: map[string][]byte{}}
}

func (b *memoryBlobs) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil && b.fail(data) {
		return "", errors.New("storage unavailable")
	}
	b.puts++
	id := fmt.Sprintf("blob-%d", b.puts)
	b.blobs[id] = slices.Clone(data)
	return id, nil
}

func (b *memoryBlobs) Get(ctx context.Context, storageID string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[storageID]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", storageID)
	}
	return data, nil
}

func (b *memoryBlobs) URL(storageID string) string {
	if storageID == "" {
		return ""
	}
	return "https://cdn.test/" + storageID
}

func (b *memoryBlobs) putCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}

type imageCall struct {
	prompt string
	refs   []gemini.Image
	label  string
}

// scriptedCaller returns an image per label unless the label is listed in
// fail. It records calls and the peak number of concurrent calls.
type scriptedCaller struct {
	mu       sync.Mutex
	calls    []imageCall
	fail     map[string]bool
	onCall   func(label string)
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *scriptedCaller) Call(ctx context.Context, prompt string, refs []gemini.Image, label string) *gemini.Image {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.calls = append(c.calls, imageCall{prompt: prompt, refs: refs, label: label})
	hook := c.onCall
	failed := c.fail[label]
	c.mu.Unlock()

	if hook != nil {
		hook(label)
	}
	if failed {
		return nil
	}
	return &gemini.Image{Data: []byte("png:" + label), MIMEType: "image/png"}
}

func (c *scriptedCaller) recorded() []imageCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

func (c *scriptedCaller) call(label string) (imageCall, bool) {
	for _, call := range c.recorded() {
		if call.label == label {
			return call, true
		}
	}
	return imageCall{}, false
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, "image/jpeg", nil
}

type scheduledTask struct {
	delay time.Duration
	name  string
	fn    func(ctx context.Context)
}

// recordingScheduler keeps tasks for the test to inspect or run.
type recordingScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

func (s *recordingScheduler) RunAfter(delay time.Duration, name string, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduledTask{delay: delay, name: name, fn: fn})
}

func (s *recordingScheduler) scheduled() []scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

type videoCall struct {
	designID  uuid.UUID
	variation int
}

type recordingVideos struct {
	mu    sync.Mutex
	calls []videoCall
}

func (v *recordingVideos) Generate(ctx context.Context, designID uuid.UUID, variation int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, videoCall{designID: designID, variation: variation})
	return nil
}

type sleepLog struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepLog) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return ctx.Err()
}

func (s *sleepLog) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sleeps)
}

type fakeVideoClient struct {
	mu         sync.Mutex
	starts     []gemini.VideoRequest
	startErr   error
	doneAfter  int
	opError    string
	polls      int
	beforePoll func()
}

func (f *fakeVideoClient) StartVideo(ctx context.Context, req gemini.VideoRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.starts = append(f.starts, req)
	return "operations/veo-123", nil
}

func (f *fakeVideoClient) VideoStatus(ctx context.Context, operation string) (*gemini.VideoResult, error) {
	if f.beforePoll != nil {
		f.beforePoll()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.doneAfter == 0 || f.polls < f.doneAfter {
		return &gemini.VideoResult{}, nil
	}
	if f.opError != "" {
		return &gemini.VideoResult{Done: true, Error: f.opError}, nil
	}
	return &gemini.VideoResult{Done: true, Video: &gemini.Video{Data: []byte("mp4"), MIMEType: "video/mp4"}}, nil
}

type fakePrices struct {
	price *models.GoldPrice
	err   error
}

func (f *fakePrices) Current(ctx context.Context) (*models.GoldPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.price == nil {
		return nil, models.ErrNoGoldPrice
	}
	return f.price, nil
}

type fakeLimiter struct {
	allow bool
	err   error
	ids   []string
}

func (f *fakeLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	f.ids = append(f.ids, identifier)
	return f.allow, f.err
}
