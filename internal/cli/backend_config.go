package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/view"
)

func newBackendConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backend-config",
		Short: "Show the backend runtime configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := apiClient.Config(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get backend config: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, cfg)
			}

			renderConfig(out, view.BuildConfig(cfg))
			return nil
		},
	}
}

func renderConfig(out io.Writer, v view.ConfigView) {
	if !v.Available {
		fmt.Fprintln(out, v.EmptyMessage)
		return
	}

	fmt.Fprintf(out, "Version:          %s\n", v.Version)
	fmt.Fprintf(out, "Mode:             %s\n", v.ModeLabel)
	fmt.Fprintf(out, "Max alerts:       %s\n", v.MaxAlerts)
	fmt.Fprintf(out, "Alert retention:  %d days\n", v.RetentionDays)
	fmt.Fprintf(out, "Allowed origins:  %s\n", strings.Join(v.AllowedOrigins, ", "))
	for _, kv := range v.Extra {
		fmt.Fprintf(out, "%-17s %s\n", kv.Key+":", kv.Value)
	}

	if v.Warning != "" {
		fmt.Fprintf(out, "\nWARNING: %s\n", v.Warning)
	}
	fmt.Fprintln(out, "\nSecurity recommendations")
	for _, r := range v.Recommendations {
		fmt.Fprintf(out, "  - %s\n", r)
	}
}
