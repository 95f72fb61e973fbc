package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/contract"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryListCmd(app),
		newCategoryEditCmd(app),
		newCategoryRemoveCmd(app),
		newCategoryTargetsCmd(app),
	)

	return cmd
}

// categoryFlags are shared by add and edit.
type categoryFlags struct {
	name, color, parent, tag string
	order, targetOrder       int
	cash, liability, target  bool
}

func (f *categoryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Category name")
	fs.StringVar(&f.color, "color", "", "Display color")
	fs.StringVar(&f.parent, "parent", "", "Parent category (ID, prefix or name; \"none\" for a root)")
	fs.StringVar(&f.tag, "tag", "", "Tag used for grouping in the global history")
	fs.IntVar(&f.order, "order", 0, "Sort order among siblings")
	fs.BoolVar(&f.cash, "cash", false, "Cost basis always equals the latest value")
	fs.BoolVar(&f.liability, "liability", false, "Subtract from net worth")
	fs.BoolVar(&f.target, "target", false, "Offer in bulk valuation entry")
	fs.IntVar(&f.targetOrder, "target-order", 0, "Order in bulk valuation entry")
}

// apply copies every flag the user set onto req.
func (f *categoryFlags) apply(ctx context.Context, app *App, fs *pflag.FlagSet, req *contract.CategoryRequest) error {
	if fs.Changed("name") {
		req.Name = f.name
	}
	if fs.Changed("color") {
		req.Color = f.color
	}
	if fs.Changed("parent") {
		if f.parent == "" || f.parent == "none" {
			req.ParentID = nil
		} else {
			id, err := resolveCategoryID(ctx, app, f.parent)
			if err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			req.ParentID = &id
		}
	}
	if fs.Changed("tag") {
		req.Tag = f.tag
	}
	if fs.Changed("order") {
		req.Order = f.order
	}
	if fs.Changed("cash") {
		req.IsCash = f.cash
	}
	if fs.Changed("liability") {
		req.IsLiability = f.liability
	}
	if fs.Changed("target") {
		req.IsValuationTarget = f.target
	}
	if fs.Changed("target-order") {
		req.ValuationOrder = f.targetOrder
	}
	return nil
}

func requestFromCategory(c *domain.Category) contract.CategoryRequest {
	return contract.CategoryRequest{
		Name:              c.Name,
		Color:             c.Color,
		Order:             c.Order,
		ParentID:          c.ParentID,
		Tag:               c.Tag,
		IsCash:            c.IsCash,
		IsLiability:       c.IsLiability,
		ValuationOrder:    c.ValuationOrder,
		IsValuationTarget: c.IsValuationTarget,
	}
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var req contract.CategoryRequest
			if err := flags.apply(ctx, app, cmd.Flags(), &req); err != nil {
				return err
			}
			c, err := app.Categories.Create(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %s %s\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCategoryEditCmd(app *App) *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "edit CATEGORY",
		Short: "Update a category; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			existing, err := app.Categories.Resolve(ctx, id)
			if err != nil {
				return err
			}
			req := requestFromCategory(existing)
			if err := flags.apply(ctx, app, cmd.Flags(), &req); err != nil {
				return err
			}
			c, err := app.Categories.Update(ctx, id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", c.Name)
			return nil
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := app.Categories.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategoryList(cats))
			return nil
		},
	}
}

func newCategoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm CATEGORY",
		Aliases: []string{"remove"},
		Short:   "Delete a category with its records; children become roots",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Categories.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newCategoryTargetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List categories offered for bulk valuation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := app.Categories.ValuationTargets(cmd.Context())
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No valuation targets. Mark one with 'category edit --target'.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategoryList(cats))
			return nil
		},
	}
}
