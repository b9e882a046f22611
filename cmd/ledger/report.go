package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/services"
)

func reportCmd(a *app) *cobra.Command {
	var export bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare flagged spending against the category budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ok, err := a.confirm(cmd, "Generate the budget report?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Operation canceled."))
				return nil
			}

			report, total := a.svc.Report(ctx)
			fmt.Fprintln(out, cli.RenderReport(report, total))

			if !export {
				return nil
			}
			res, err := a.svc.ExportReport(ctx)
			switch {
			case errors.Is(err, services.ErrNothingFlagged):
				fmt.Fprintln(out, cli.FormatWarning("Nothing to export."))
				return nil
			case err != nil:
				return fmt.Errorf("export report: %w", err)
			}
			msg := fmt.Sprintf("Report %s sent to %s", res.ID, res.Destination)
			if res.Ref != "" {
				msg += " (" + res.Ref + ")"
			}
			fmt.Fprintln(out, cli.FormatSuccess(msg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "also export the report to the configured broker or sheet")
	return cmd
}

func totalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the sum of flagged expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Total flagged: %d\n", a.svc.TotalFlagged(cmd.Context()))
			return nil
		},
	}
}
