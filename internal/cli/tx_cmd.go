package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/contract"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/spf13/cobra"
)

func newTxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record deposits and withdrawals",
	}

	cmd.AddCommand(
		newTxAddCmd(app),
		newTxEditCmd(app),
		newTxRemoveCmd(app),
	)

	return cmd
}

func newTxAddCmd(app *App) *cobra.Command {
	var at, memo, gain, resulting string

	cmd := &cobra.Command{
		Use:   "add CATEGORY deposit|withdraw|valuation AMOUNT",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catID, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			typ := domain.TransactionType(strings.ToUpper(args[1]))
			if !typ.Valid() {
				return fmt.Errorf("invalid transaction type %q (want deposit, withdraw or valuation)", args[1])
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			req := contract.NewRecordTransactionRequest(catID, typ, amount)
			req.Memo = memo
			if req.At, err = parseWhen(at); err != nil {
				return err
			}
			if req.RealizedGain, err = parseSignedOptional(gain); err != nil {
				return err
			}
			if req.ResultingValue, err = parseSignedOptional(resulting); err != nil {
				return err
			}

			res, err := app.Records.RecordTransaction(ctx, req)
			if err != nil {
				return err
			}
			out := fmt.Sprintf("Recorded %s of %s on %s %s",
				strings.ToLower(string(res.Transaction.Type)),
				app.Money.Format(res.Transaction.Amount),
				formatter.Day(res.Transaction.TransactedAt),
				formatter.TruncID(res.Transaction.ID))
			if res.Valuation != nil {
				out += fmt.Sprintf(", balance %s", app.Money.Format(res.Valuation.CurrentValue))
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Date (YYYY-MM-DD or RFC 3339, default now)")
	cmd.Flags().StringVar(&memo, "memo", "", "Free-text note")
	cmd.Flags().StringVar(&gain, "gain", "", "Realized gain (withdrawals only, may be negative)")
	cmd.Flags().StringVar(&resulting, "balance", "", "Category value right after the transaction")

	return cmd
}

func newTxEditCmd(app *App) *cobra.Command {
	var at, memo, gain, resulting, amount string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a transaction; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.UpdateTransactionRequest{ID: args[0]}
			var err error
			if req.Amount, err = parseOptionalAmount(amount); err != nil {
				return err
			}
			if req.At, err = parseWhen(at); err != nil {
				return err
			}
			if req.RealizedGain, err = parseSignedOptional(gain); err != nil {
				return err
			}
			if req.ResultingValue, err = parseSignedOptional(resulting); err != nil {
				return err
			}
			if cmd.Flags().Changed("memo") {
				req.Memo = &memo
			}

			res, err := app.Records.UpdateTransaction(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", formatter.TruncID(res.Transaction.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "New amount")
	cmd.Flags().StringVar(&at, "at", "", "New date; a paired valuation moves with it")
	cmd.Flags().StringVar(&memo, "memo", "", "New note")
	cmd.Flags().StringVar(&gain, "gain", "", "New realized gain")
	cmd.Flags().StringVar(&resulting, "balance", "", "New value right after the transaction")

	return cmd
}

func newTxRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a transaction and its paired valuation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Records.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}
