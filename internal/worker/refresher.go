package worker

import (
	"context"
	"sync"
	"time"

	"github.com/orion-ad/guardian/internal/pkg/logger"
)

// DefaultRefreshInterval is the polling period used when none is configured
const DefaultRefreshInterval = 5 * time.Second

// Refreshable is anything that can run a refresh cycle
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher periodically refreshes the dashboard state
type Refresher struct {
	target   Refreshable
	interval time.Duration
	logger   *logger.Logger
	wg       sync.WaitGroup
}

// NewRefresher creates a new refresh worker
func NewRefresher(target Refreshable, interval time.Duration, log *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{
		target:   target,
		interval: interval,
		logger:   log.Component("refresher"),
	}
}

// Start refreshes immediately and then on every tick until ctx is done.
// Each refresh runs in its own goroutine so a slow cycle never delays the
// next tick; ordering between overlapping cycles is the target's concern.
// In-flight cycles share ctx and are cancelled with it.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.WithFields(map[string]interface{}{
		"interval": r.interval.String(),
	}).Info("Starting refresh worker")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.trigger(ctx)

	for {
		select {
		case <-ticker.C:
			r.trigger(ctx)
		case <-ctx.Done():
			r.logger.Info("Refresh worker stopped")
			return
		}
	}
}

// Wait blocks until every cycle started by the worker has returned
func (r *Refresher) Wait() {
	r.wg.Wait()
}

func (r *Refresher) trigger(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.target.Refresh(ctx); err != nil && ctx.Err() == nil {
			r.logger.Debugf("Scheduled refresh failed: %v", err)
		}
	}()
}
