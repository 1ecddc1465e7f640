package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/view"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show alert statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiClient.Statistics(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get statistics: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, stats)
			}

			renderStatistics(out, view.BuildStatistics(stats))
			return nil
		},
	}
}

const barCells = 30

func renderStatistics(out io.Writer, v view.StatisticsView) {
	if !v.Available {
		fmt.Fprintln(out, v.EmptyMessage)
		return
	}

	fmt.Fprintf(out, "Total alerts:     %s\n", view.FormatCount(v.TotalAlerts))
	fmt.Fprintf(out, "Recent activity:  %d\n", v.RecentCount)
	fmt.Fprintf(out, "Event types:      %d\n", v.EventTypeCount)
	fmt.Fprintf(out, "Active users:     %d\n", v.ActiveUsers)

	fmt.Fprintln(out, "\nAlerts by severity")
	for _, bar := range v.Severity {
		cells := int(bar.Width / 100 * barCells)
		fmt.Fprintf(out, "  %-9s %-*s %d\n", bar.Severity, barCells, strings.Repeat("#", cells), bar.Count)
	}

	sections := []struct {
		title string
		rows  []view.NamedCount
	}{
		{"Event types", v.EventTypes},
		{"Top users", v.TopUsers},
		{"Top source IPs", v.TopIPs},
	}
	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", s.title)
		t := NewTable(out, "#", "NAME", "COUNT")
		for _, r := range s.rows {
			t.AddRow(strconv.Itoa(r.Rank), r.Name, strconv.Itoa(r.Count))
		}
		t.Render()
	}

	if len(v.Recent) > 0 {
		fmt.Fprintln(out, "\nRecent activity")
		t := NewTable(out, "TIME", "SEVERITY", "USER", "SOURCE IP", "TITLE")
		for _, a := range v.Recent {
			t.AddRow(a.Time, formatSeverity(a.Severity), a.User, a.SourceIP, truncate(a.Title, 50))
		}
		t.Render()
	}
}
