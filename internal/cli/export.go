package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/export"
	"github.com/orion-ad/guardian/pkg/client"
)

func newExportCmd() *cobra.Command {
	var format, severity, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alerts as JSON or CSV",
		Long: `Exports alerts from the backend. CSV exports are saved to --dir under the
filename chosen by the backend. JSON exports are printed, or saved as
alerts_export_<unix-ms>.json when --dir is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			sink := export.DirDownloader{Dir: dir}

			exporter := export.NewExporter(apiClient, nil)
			res, err := exporter.Export(ctx, export.Request{Format: format, Severity: severity}, sink)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if res.Downloaded {
				fmt.Fprintf(out, "Saved %s\n", filepath.Join(dir, filepath.Base(res.Filename)))
				return nil
			}

			if !cmd.Flags().Changed("dir") {
				fmt.Fprintln(out, res.Content)
				return nil
			}

			name, err := exporter.DownloadJSON(ctx, res.Content, sink)
			if err != nil {
				return fmt.Errorf("failed to save export: %w", err)
			}
			fmt.Fprintf(out, "Saved %s\n", filepath.Join(dir, name))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", client.FormatJSON, "export format: json or csv")
	cmd.Flags().StringVar(&severity, "severity", "", "only export alerts of this severity")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to save exports in")

	return cmd
}
