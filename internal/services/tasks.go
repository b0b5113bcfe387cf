package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskRunner runs fire-and-forget background tasks in-process. Shutdown drops
// tasks still waiting on their delay and waits for running ones.
type TaskRunner struct {
	ctx      context.Context
	cancel   context.CancelFunc
	stopping chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
	log      *zap.Logger
}

func NewTaskRunner(log *zap.Logger) *TaskRunner {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskRunner{
		ctx:      ctx,
		cancel:   cancel,
		stopping: make(chan struct{}),
		log:      log.Named("tasks"),
	}
}

func (r *TaskRunner) RunAfter(delay time.Duration, name string, fn func(ctx context.Context)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("task dropped, runner is shutting down", zap.String("task", name))
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-r.stopping:
				r.log.Info("delayed task dropped at shutdown", zap.String("task", name))
				return
			}
		}

		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("task panicked", zap.String("task", name), zap.Any("panic", rec), zap.Stack("stack"))
			}
		}()

		fn(r.ctx)
	}()
}

// Shutdown stops accepting tasks and waits for running ones. When ctx ends
// first, running tasks are cancelled.
func (r *TaskRunner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.stopping)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return errors.Join(fmt.Errorf("background tasks cancelled"), ctx.Err())
	}
}
