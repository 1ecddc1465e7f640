package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/view"
	"github.com/orion-ad/guardian/internal/worker"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration
	var severity, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the backend and print a line per refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = refreshInterval()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logger.New(logger.Config{Level: "warn", Format: "console", Output: cmd.ErrOrStderr()})
			dash := dashboard.New(dashboard.FromClient(apiClient), log,
				dashboard.WithFilter(alert.Filter{Severity: severity, Status: status, Limit: limit}))

			return watch(ctx, cmd.OutOrStdout(), dash, worker.NewRefresher(dash, interval, log))
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", worker.DefaultRefreshInterval, "refresh interval")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().IntVar(&limit, "limit", alert.DefaultLimit, "maximum number of alerts")

	return cmd
}

// watch prints every applied cycle and every new error until ctx is done
func watch(ctx context.Context, out io.Writer, dash *dashboard.Dashboard, refresher *worker.Refresher) error {
	updates, cancel := dash.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(done)
	}()

	var lastSeq uint64
	var lastErr string
	for {
		select {
		case <-ctx.Done():
			<-done
			refresher.Wait()
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if snap.Loading {
				continue
			}
			if snap.Error != "" && snap.Error != lastErr {
				fmt.Fprintf(out, "%s  ERROR %s\n", view.FormatTime(time.Now()), snap.Error)
			}
			lastErr = snap.Error
			if snap.Seq != lastSeq {
				lastSeq = snap.Seq
				fmt.Fprintln(out, summaryLine(snap))
			}
		}
	}
}

func summaryLine(snap dashboard.Snapshot) string {
	counts := make(map[string]int)
	unread := 0
	for _, a := range snap.Alerts {
		counts[a.Severity]++
		if alert.IsUnread(a) {
			unread++
		}
	}

	parts := make([]string, 0, len(alert.Severities))
	for _, s := range alert.Severities {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}

	return fmt.Sprintf("%s  cycle %d  %d alerts (%d unread)  %s",
		view.FormatTime(snap.UpdatedAt), snap.Seq, len(snap.Alerts), unread, strings.Join(parts, " "))
}
