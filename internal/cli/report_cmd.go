package cli

import (
	"fmt"

	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"ls"},
		Short:   "Show the category tree with consolidated values and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Portfolio.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(summary, app.Money))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show CATEGORY",
		Short: "Show a category's figures, merged history and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			detail, err := app.Portfolio.CategoryDetail(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategoryDetail(detail, app.Money, limit))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 15, "Maximum history and activity rows (0 for all)")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the whole-portfolio series with per-tag totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := app.Portfolio.GlobalHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGlobalHistory(points, app.Money, limit))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "Maximum rows (0 for all)")

	return cmd
}
