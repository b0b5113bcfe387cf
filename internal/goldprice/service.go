package goldprice

import (
	"context"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"jewelry-studio-backend/internal/metrics"
	"jewelry-studio-backend/internal/models"
)

const (
	DefaultAPIURL = "https://api.metalpriceapi.com/v1/latest"
	cacheTTL      = time.Minute
)

// Store persists snapshots. Snapshots are append-only.
type Store interface {
	InsertGoldPrice(ctx context.Context, price *models.GoldPrice) error
	LatestGoldPrice(ctx context.Context, metal, currency string) (*models.GoldPrice, error)
}

type Options struct {
	APIURL     string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Service fetches gold prices into the store and serves the current one.
type Service struct {
	store      Store
	apiURL     string
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
	log        *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(store Store, opts Options) *Service {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		store:      store,
		apiURL:     opts.APIURL,
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
		cache:      gocache.New(cacheTTL, 5*time.Minute),
		log:        opts.Logger.Named("goldprice"),
		metrics:    opts.Metrics,
		now:        time.Now,
	}
}

func cacheKey(metal, currency string) string {
	return metal + ":" + currency
}

// Refresh fetches the live price and appends a snapshot. On any failure it
// logs and writes nothing, leaving the previous snapshot current.
func (s *Service) Refresh(ctx context.Context) (*models.GoldPrice, error) {
	rate, err := s.fetchRate(ctx)
	if err != nil {
		s.metrics.GoldFetch("error")
		s.log.Error("gold price fetch failed", zap.Error(err))
		return nil, err
	}

	snapshot := Snapshot(rate, s.now().UTC())
	if err := s.store.InsertGoldPrice(ctx, &snapshot); err != nil {
		s.metrics.GoldFetch("error")
		s.log.Error("gold price store failed", zap.Error(err))
		return nil, err
	}

	s.cache.SetDefault(cacheKey(snapshot.MetalType, snapshot.Currency), &snapshot)
	s.metrics.GoldFetch("success")
	s.log.Info("gold price updated",
		zap.Float64("per_oz", snapshot.PricePerOzTroy),
		zap.Float64("per_gram", snapshot.PricePerGram),
	)
	return &snapshot, nil
}

// Current returns the newest AED gold snapshot, or models.ErrNoGoldPrice.
func (s *Service) Current(ctx context.Context) (*models.GoldPrice, error) {
	key := cacheKey(MetalGold, CurrencyAED)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.GoldPrice), nil
	}

	price, err := s.store.LatestGoldPrice(ctx, MetalGold, CurrencyAED)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, price)
	return price, nil
}
