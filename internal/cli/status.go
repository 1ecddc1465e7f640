package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/view"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := apiClient.Health(context.Background())
			if err != nil {
				return fmt.Errorf("backend unreachable at %s: %w", apiClient.BaseURL(), err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, health)
			}

			fmt.Fprintln(out, view.ProductName)
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Backend:   %s\n", apiClient.BaseURL())
			fmt.Fprintf(out, "  Status:    %s\n", formatStatus(health.Status))
			if health.Version != "" {
				fmt.Fprintf(out, "  Version:   %s\n", health.Version)
			}
			fmt.Fprintf(out, "  Mode:      %s\n", view.ModeLabel(health.ProductionMode))
			fmt.Fprintf(out, "  Alerts:    %s\n", view.FormatCount(health.AlertsCount))
			fmt.Fprintf(out, "  Events:    %s\n", view.FormatCount(health.EventsCount))
			fmt.Fprintf(out, "  Checked:   %s\n", view.FormatEpoch(health.Timestamp))
			return nil
		},
	}
}
