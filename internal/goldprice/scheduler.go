package goldprice

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Locker guards the scheduled fetch across replicas.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

const lockKey = "locks:goldprice:refresh"

// Run refreshes the price immediately and then on every tick until ctx is
// done. locker may be nil.
func (s *Service) Run(ctx context.Context, interval time.Duration, locker Locker) {
	s.log.Info("gold price scheduler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.tick(ctx, interval, locker)

		select {
		case <-ctx.Done():
			s.log.Info("gold price scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) tick(ctx context.Context, interval time.Duration, locker Locker) {
	if locker != nil {
		token, ok, err := locker.TryLock(ctx, lockKey, interval/2)
		if err != nil {
			s.log.Warn("gold price lock unavailable, fetching anyway", zap.Error(err))
		} else if !ok {
			s.log.Debug("gold price refresh held by another replica")
			return
		} else {
			defer func() {
				if err := locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
					s.log.Warn("gold price lock release failed", zap.Error(err))
				}
			}()
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, _ = s.Refresh(fetchCtx)
}
