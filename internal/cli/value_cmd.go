package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/contract"
	"github.com/spf13/cobra"
)

func newValueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "value",
		Aliases: []string{"val"},
		Short:   "Record what a category is worth",
	}

	cmd.AddCommand(
		newValueAddCmd(app),
		newValueRemoveCmd(app),
		newValueBulkCmd(app),
	)

	return cmd
}

func newValueAddCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "add CATEGORY AMOUNT",
		Short: "Record a valuation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catID, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			amount, err := parseValue(args[1])
			if err != nil {
				return err
			}
			when, err := parseWhen(at)
			if err != nil {
				return err
			}

			v, err := app.Records.RecordValuation(ctx, contract.RecordValuationRequest{
				CategoryID: catID,
				Value:      amount,
				At:         when,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s %s\n",
				app.Money.Format(v.CurrentValue), formatter.Day(v.RecordedAt), formatter.TruncID(v.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Date (YYYY-MM-DD or RFC 3339, default now)")

	return cmd
}

func newValueRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a valuation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Records.DeleteValuation(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted valuation %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newValueBulkCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "bulk [CATEGORY=AMOUNT...]",
		Short: "Record several valuations at one timestamp, all or nothing",
		Long: "Record several valuations at one timestamp, all or nothing.\n\n" +
			"Without arguments on a terminal, a form walks the valuation targets in order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			when, err := parseWhen(at)
			if err != nil {
				return err
			}

			req := contract.BulkValuationRequest{At: when}
			if len(args) == 0 {
				if req.Entries, err = promptBulkEntries(ctx, app); err != nil {
					return err
				}
				if len(req.Entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to record.")
					return nil
				}
			}
			for _, arg := range args {
				name, raw, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected CATEGORY=AMOUNT, got %q", arg)
				}
				catID, err := resolveCategoryID(ctx, app, name)
				if err != nil {
					return err
				}
				amount, err := parseValue(raw)
				if err != nil {
					return err
				}
				req.Entries = append(req.Entries, contract.BulkValuationEntry{CategoryID: catID, Value: amount})
			}

			vals, err := app.Records.BulkRecordValuations(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d valuations\n", len(vals))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Date for every entry (default now)")

	return cmd
}

// promptBulkEntries collects one balance per valuation target through the
// interactive form.
func promptBulkEntries(ctx context.Context, app *App) ([]contract.BulkValuationEntry, error) {
	if app.IsInteractive == nil || !app.IsInteractive() {
		return nil, fmt.Errorf("no entries given: pass CATEGORY=AMOUNT pairs or run on a terminal")
	}
	targets, err := app.Categories.ValuationTargets(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no valuation targets: mark categories with 'category edit --target'")
	}
	inputs, err := promptBulkValues(ctx, targets, app.Money)
	if err != nil {
		return nil, err
	}
	return bulkEntriesFromInputs(targets, inputs)
}
