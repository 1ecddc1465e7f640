package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/view"
	"github.com/orion-ad/guardian/pkg/client"
)

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"alert"},
		Short:   "List and triage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertMarkReadCmd())
	cmd.AddCommand(newAlertRemediateCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := alert.Filter{Severity: severity, Status: status, Limit: limit}
			if f.Limit < 0 {
				f.Limit = 0
			}

			list, err := apiClient.Alerts().List(context.Background(), f.ListOptions())
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, list)
			}

			lv := view.BuildAlertList(list.Alerts, f)
			if lv.Empty {
				fmt.Fprintln(out, lv.EmptyMessage)
				return nil
			}

			t := NewTable(out, "ID", "SEVERITY", "STATUS", "USER", "SOURCE IP", "TIME", "TITLE")
			for _, item := range lv.Items {
				t.AddRow(
					item.AlertID,
					formatSeverity(item.Severity),
					formatStatus(item.Status),
					item.User,
					item.SourceIP,
					item.Time,
					truncate(item.Title, 50),
				)
			}
			t.Render()
			fmt.Fprintf(out, "\n%d of %d alerts\n", len(lv.Items), list.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (critical, high, medium, low)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (new, read, remediated)")
	cmd.Flags().IntVar(&limit, "limit", alert.DefaultLimit, "maximum number of alerts")

	return cmd
}

func newAlertMarkReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := apiClient.Alerts().MarkRead(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to mark alert %s as read: %w", args[0], err)
			}
			return printActionResult(cmd.OutOrStdout(), args[0], res)
		},
	}
}

func newAlertRemediateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remediate <id>",
		Short: "Trigger remediation for an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := apiClient.Alerts().Remediate(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to remediate alert %s: %w", args[0], err)
			}
			return printActionResult(cmd.OutOrStdout(), args[0], res)
		},
	}
}

func printActionResult(out io.Writer, id string, res *client.ActionResult) error {
	if getOutputFormat() != "table" {
		return printOutput(out, map[string]interface{}{
			"alert_id":      id,
			"message":       res.Message,
			"actions_taken": res.ActionsTaken(),
		})
	}

	msg := res.Message
	if msg == "" {
		msg = "done"
	}
	fmt.Fprintf(out, "%s: %s\n", id, msg)
	if taken := res.ActionsTaken(); len(taken) > 0 {
		fmt.Fprintf(out, "Actions taken: %s\n", strings.Join(taken, ", "))
	}
	return nil
}
