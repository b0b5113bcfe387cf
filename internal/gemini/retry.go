package gemini

import (
	"context"
	"time"

	"go.uber.org/zap"
	"jewelry-studio-backend/internal/metrics"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoffStep = 15 * time.Second
)

// ImageGenerator is a single-attempt image generation call.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, refs []Image) (*Image, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retrier owns the retry policy for image generation. Rate-limited attempts
// sleep attempt*BackoffStep and try again; anything else gives up at once.
// Call never returns an error.
type Retrier struct {
	gen         ImageGenerator
	maxAttempts int
	backoffStep time.Duration
	sleep       SleepFunc
	log         *zap.Logger
	metrics     *metrics.Metrics
}

type RetrierOption func(*Retrier)

func WithSleep(fn SleepFunc) RetrierOption {
	return func(r *Retrier) { r.sleep = fn }
}

func WithBackoffStep(d time.Duration) RetrierOption {
	return func(r *Retrier) { r.backoffStep = d }
}

func WithMetrics(m *metrics.Metrics) RetrierOption {
	return func(r *Retrier) { r.metrics = m }
}

func NewRetrier(gen ImageGenerator, log *zap.Logger, opts ...RetrierOption) *Retrier {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Retrier{
		gen:         gen,
		maxAttempts: DefaultMaxAttempts,
		backoffStep: DefaultBackoffStep,
		sleep:       Sleep,
		log:         log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call returns the generated image, or nil when the model produced none,
// failed, or stayed rate limited for every attempt.
func (r *Retrier) Call(ctx context.Context, prompt string, refs []Image, label string) *Image {
	log := r.log.With(zap.String("label", label))

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		img, err := r.gen.GenerateImage(ctx, prompt, refs)
		if err == nil {
			if img == nil {
				log.Warn("no image in response", zap.Int("attempt", attempt))
				return nil
			}
			log.Info("image generated", zap.Int("attempt", attempt), zap.Int("bytes", len(img.Data)))
			return img
		}

		if !IsRateLimited(err) {
			log.Error("generation failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil
		}

		if attempt == r.maxAttempts {
			r.metrics.RateLimited("exhausted")
			log.Error("rate limited, retries exhausted", zap.Int("attempts", attempt), zap.Error(err))
			return nil
		}

		wait := time.Duration(attempt) * r.backoffStep
		r.metrics.RateLimited("retry")
		log.Warn("rate limited, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)
		if err := r.sleep(ctx, wait); err != nil {
			log.Warn("backoff interrupted", zap.Error(err))
			return nil
		}
	}

	return nil
}
