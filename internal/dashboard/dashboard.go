package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/metrics"
	"github.com/orion-ad/guardian/pkg/client"
)

// Dashboard owns the canonical alert, statistics and config state. It is
// the only writer of that state; every reader gets a Snapshot.
//
// Refresh cycles may overlap. Each cycle takes a sequence number when it
// starts and its result is applied only if no newer cycle has been applied
// already, so arrival order never matters.
type Dashboard struct {
	backend Backend
	logger  *logger.Logger
	now     func() time.Time

	mu         sync.RWMutex
	issued     uint64
	applied    uint64
	errSeq     uint64
	inflight   int
	alerts     []client.Alert
	total      int
	stats      *client.Statistics
	config     *client.BackendConfig
	filter     alert.Filter
	errMsg     string
	lastAction *ActionOutcome
	updatedAt  time.Time

	subMu  sync.Mutex
	subs   map[uint64]chan Snapshot
	nextID uint64
}

// Option configures a Dashboard
type Option func(*Dashboard)

// WithFilter sets the initial filter
func WithFilter(f alert.Filter) Option {
	return func(d *Dashboard) { d.filter = f }
}

// WithClock overrides the clock used for update timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// New creates a dashboard reading from backend
func New(backend Backend, log *logger.Logger, opts ...Option) *Dashboard {
	if log == nil {
		log = logger.Nop()
	}
	d := &Dashboard{
		backend: backend,
		logger:  log.Component("dashboard"),
		now:     time.Now,
		filter:  alert.DefaultFilter(),
		subs:    make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type cycleResult struct {
	alerts *client.AlertList
	stats  *client.Statistics
	config *client.BackendConfig
}

// Refresh runs one refresh cycle: alerts, statistics and config are fetched
// concurrently and applied together. If any fetch fails the previous data is
// kept and the error is recorded.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	filter := d.filter
	d.inflight++
	d.mu.Unlock()
	d.publish()

	start := time.Now()
	res, err := d.fetch(ctx, filter)
	duration := time.Since(start)

	d.mu.Lock()
	d.inflight--
	stale := false
	if err != nil {
		if seq > d.applied && seq > d.errSeq {
			d.errSeq = seq
			d.errMsg = ErrorMessage(err)
		}
	} else if seq > d.applied {
		d.applied = seq
		d.alerts = res.alerts.Alerts
		d.total = res.alerts.Total
		d.stats = res.stats
		d.config = res.config
		d.updatedAt = d.now()
		if seq > d.errSeq {
			d.errMsg = ""
		}
	} else {
		stale = true
	}
	held := countBySeverity(d.alerts)
	d.mu.Unlock()

	switch {
	case err != nil:
		metrics.RecordRefresh(metrics.OutcomeError, duration)
		d.logger.WithFields(map[string]interface{}{
			"seq":         seq,
			"duration_ms": duration.Milliseconds(),
		}).ErrorWithErr(err, "Refresh cycle failed")
	case stale:
		metrics.RecordRefresh(metrics.OutcomeSuccess, duration)
		metrics.RecordStaleRefresh()
		d.logger.WithFields(map[string]interface{}{
			"seq": seq,
		}).Debug("Discarded stale refresh result")
	default:
		metrics.RecordRefresh(metrics.OutcomeSuccess, duration)
		metrics.SetAlertsHeld(held)
		d.logger.WithFields(map[string]interface{}{
			"seq":    seq,
			"alerts": len(res.alerts.Alerts),
		}).Debug("Refresh cycle applied")
	}

	d.publish()
	if err != nil {
		return fmt.Errorf("refresh cycle %d: %w", seq, err)
	}
	return nil
}

func (d *Dashboard) fetch(ctx context.Context, filter alert.Filter) (*cycleResult, error) {
	var res cycleResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := d.backend.ListAlerts(gctx, filter.ListOptions())
		if err != nil {
			return fmt.Errorf("fetch alerts: %w", err)
		}
		res.alerts = list
		return nil
	})
	g.Go(func() error {
		stats, err := d.backend.Statistics(gctx)
		if err != nil {
			return fmt.Errorf("fetch statistics: %w", err)
		}
		res.stats = stats
		return nil
	})
	g.Go(func() error {
		cfg, err := d.backend.Config(gctx)
		if err != nil {
			return fmt.Errorf("fetch config: %w", err)
		}
		res.config = cfg
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if res.alerts == nil {
		res.alerts = &client.AlertList{Alerts: []client.Alert{}}
	}
	return &res, nil
}

// SetFilter replaces the active filter and refreshes immediately.
func (d *Dashboard) SetFilter(ctx context.Context, f alert.Filter) error {
	d.mu.Lock()
	d.filter = f
	d.mu.Unlock()

	d.logger.WithFields(map[string]interface{}{
		"severity": f.Severity,
		"status":   f.Status,
		"limit":    f.Limit,
	}).Info("Filter changed")

	return d.Refresh(ctx)
}

// Filter returns the active filter
func (d *Dashboard) Filter() alert.Filter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filter
}

// MarkRead marks the alert as read on the backend, then refreshes.
func (d *Dashboard) MarkRead(ctx context.Context, id string) (*client.ActionResult, error) {
	return d.dispatch(ctx, ActionMarkRead, id, d.backend.MarkRead)
}

// Remediate triggers remediation on the backend, then refreshes. The
// result carries the actions the backend reports as taken.
func (d *Dashboard) Remediate(ctx context.Context, id string) (*client.ActionResult, error) {
	return d.dispatch(ctx, ActionRemediate, id, d.backend.Remediate)
}

// dispatch sends the action and refreshes whatever the outcome. There is no
// optimistic update: the next applied cycle is the only source of truth.
func (d *Dashboard) dispatch(
	ctx context.Context,
	action, id string,
	call func(context.Context, string) (*client.ActionResult, error),
) (*client.ActionResult, error) {
	result, err := call(ctx, id)
	metrics.RecordAction(action, err)

	outcome := &ActionOutcome{
		Action:  action,
		AlertID: id,
		At:      d.now(),
	}
	log := d.logger.WithFields(map[string]interface{}{
		"action":   action,
		"alert_id": id,
	})
	if err != nil {
		outcome.Error = ErrorMessage(err)
		log.ErrorWithErr(err, "Alert action failed")
	} else {
		outcome.Message = result.Message
		outcome.ActionsTaken = result.ActionsTaken()
		log.Info("Alert action dispatched")
	}

	d.mu.Lock()
	d.lastAction = outcome
	d.mu.Unlock()

	// The refresh outcome is recorded in the state; the caller only
	// sees the action error.
	_ = d.Refresh(ctx)

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", action, id, err)
	}
	return result, nil
}

// Snapshot returns a copy of the current state
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	alerts := make([]client.Alert, len(d.alerts))
	copy(alerts, d.alerts)

	var last *ActionOutcome
	if d.lastAction != nil {
		a := *d.lastAction
		a.ActionsTaken = append([]string(nil), d.lastAction.ActionsTaken...)
		last = &a
	}

	return Snapshot{
		Status:     d.statusLocked(),
		Loading:    d.inflight > 0,
		Alerts:     alerts,
		Total:      d.total,
		Statistics: d.stats,
		Config:     d.config,
		Filter:     d.filter,
		Error:      d.errMsg,
		LastAction: last,
		Seq:        d.applied,
		UpdatedAt:  d.updatedAt,
	}
}

func (d *Dashboard) statusLocked() Status {
	switch {
	case d.inflight > 0:
		return StatusLoading
	case d.errMsg != "":
		return StatusError
	case d.applied > 0:
		return StatusReady
	default:
		return StatusIdle
	}
}

// Ready reports whether at least one cycle has been applied
func (d *Dashboard) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.applied > 0
}

// Subscribe returns a channel that receives a snapshot after every state
// change. The channel holds only the latest snapshot: a slow reader skips
// intermediate states but never blocks the dashboard. Call cancel to stop.
func (d *Dashboard) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = ch
	d.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (d *Dashboard) publish() {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	// Taken under subMu so subscribers never see snapshots out of order.
	snap := d.Snapshot()
	for _, ch := range d.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func countBySeverity(alerts []client.Alert) map[string]int {
	counts := make(map[string]int, len(alert.Severities))
	for _, s := range alert.Severities {
		counts[s] = 0
	}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	return counts
}
