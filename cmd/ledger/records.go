package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/core"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}

func addCmd(a *app) *cobra.Command {
	var d core.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Long: `Record a new expense. The amount is an integer in the smallest currency
unit; non-digit characters are ignored, so "90.000" is read as 90000.`,
		Example: `  ledger add -d "Bus ticket" -c transport -a 1250
  ledger add -d Clinic -c Health -a 90000 --date 2024-01-03`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if d.Date == "" {
				d.Date = a.now().Format(core.DateLayout)
			}
			rec, err := a.svc.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added expense %d", rec.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "what the money was spent on")
	cmd.Flags().StringVarP(&d.Category, "category", "c", "", "HEALTH, COMMON, TRANSPORT or PERSONAL")
	cmd.Flags().StringVarP(&d.Amount, "amount", "a", "", "amount in the smallest currency unit")
	cmd.Flags().StringVar(&d.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var desc, cat, amount, date string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing expense",
		Long:  "Change fields of an existing expense. Only the given flags are replaced; the flag mark is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p core.Patch
			flags := cmd.Flags()
			if flags.Changed("description") {
				p.Description = &desc
			}
			if flags.Changed("category") {
				p.Category = &cat
			}
			if flags.Changed("amount") {
				p.Amount = &amount
			}
			if flags.Changed("date") {
				p.Date = &date
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change: pass at least one of --description, --category, --amount, --date")
			}

			rec, err := a.svc.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated expense %d", rec.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&cat, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	return cmd
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			rec, err := a.svc.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.RenderRecords([]core.Record{rec}))

			ok, err := a.confirm(cmd, fmt.Sprintf("Delete expense %d?", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Operation canceled."))
				return nil
			}

			if err := a.svc.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted expense %d", id)))
			return nil
		},
	}
}

func flagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flag <id>",
		Short: "Toggle whether an expense counts towards the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rec, err := a.svc.ToggleFlag(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "unflagged"
			if rec.Flagged {
				state = "flagged"
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense %d %s", rec.ID, state)))
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all expenses in insertion order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRecords(a.svc.List(cmd.Context())))
			return nil
		},
	}
}
