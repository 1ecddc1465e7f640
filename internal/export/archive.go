package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/orion-ad/guardian/internal/pkg/logger"
)

// Archiver runs a scheduled export and stores the result in a sink
type Archiver struct {
	exporter *Exporter
	sink     Downloader
	request  Request
	timeout  time.Duration
	logger   *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
	entry     cron.EntryID
}

// NewArchiver creates an archiver exporting req into sink
func NewArchiver(exporter *Exporter, sink Downloader, req Request, log *logger.Logger) *Archiver {
	if log == nil {
		log = logger.Nop()
	}
	return &Archiver{
		exporter: exporter,
		sink:     sink,
		request:  req,
		timeout:  2 * time.Minute,
		logger:   log.Component("archiver"),
	}
}

// Start schedules the archive job with a standard 5-field cron spec or a
// descriptor such as @hourly.
func (a *Archiver) Start(schedule string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return fmt.Errorf("archiver is already running")
	}

	scheduler := cron.New()
	entry, err := scheduler.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if _, err := a.RunOnce(ctx); err != nil {
			a.logger.With("schedule", schedule).ErrorWithErr(err, "Scheduled export failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	a.scheduler = scheduler
	a.entry = entry

	a.logger.WithFields(map[string]interface{}{
		"schedule": schedule,
		"format":   a.request.Format,
	}).Info("Export archive scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running export to finish
func (a *Archiver) Stop() {
	a.mu.Lock()
	scheduler := a.scheduler
	a.scheduler = nil
	a.mu.Unlock()

	if scheduler == nil {
		return
	}
	<-scheduler.Stop().Done()
	a.logger.Info("Export archive stopped")
}

// Next returns the next scheduled run, or the zero time when stopped
func (a *Archiver) Next() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scheduler == nil {
		return time.Time{}
	}
	return a.scheduler.Entry(a.entry).Next
}

// RunOnce performs one archive export and returns the stored filename
func (a *Archiver) RunOnce(ctx context.Context) (string, error) {
	res, err := a.exporter.Export(ctx, a.request, a.sink)
	if err != nil {
		return "", err
	}
	if res.Downloaded {
		return res.Filename, nil
	}
	return a.exporter.DownloadJSON(ctx, res.Content, a.sink)
}
