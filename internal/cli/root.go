package cli

import (
	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Portfolio  service.PortfolioService
	Records    service.RecordService
	Categories service.CategoryService
	Import     service.ImportService

	// Money formats every amount shown.
	Money formatter.Money

	// IsInteractive reports whether forms can be shown. Nil means never.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "holdings" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "holdings",
		Short:         "Personal asset valuation and cost-basis tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCategoryCmd(app),
		newValueCmd(app),
		newTxCmd(app),
		newSummaryCmd(app),
		newShowCmd(app),
		newHistoryCmd(app),
		newImportCmd(app),
	)

	return root
}
