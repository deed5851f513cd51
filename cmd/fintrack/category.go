package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/spf13/cobra"
)

var (
	flagCatName  string
	flagCatIcon  string
	flagCatColor string
	flagCatKind  string
	flagCatMonth string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "List and edit categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their use in one month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		month, err := parseMonthFlag(flagCatMonth, nowFunc())
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.LoadPage(cmd.Context(), month); err != nil {
				return err
			}
			writeCategoryCards(os.Stdout, finance.CategoryCards(a.store.Transactions(), a.store.Categories()))
			return nil
		})
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		draft, err := buildCategoryDraft(model.CategoryDraft{Color: "#F47A60", Kind: model.KindExpense}, categoryFlagValues(cmd))
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			created, err := a.store.AddCategory(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Added category %s: %s\n", created.ID, created.Name)
			return nil
		})
	},
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			current, ok := a.store.Category(args[0])
			if !ok {
				return fmt.Errorf("no category %s", args[0])
			}
			draft, err := buildCategoryDraft(current.Draft(), categoryFlagValues(cmd))
			if err != nil {
				return err
			}
			updated, err := a.store.UpdateCategory(cmd.Context(), draft.WithID(current.ID))
			if err != nil {
				return err
			}
			fmt.Printf("Updated category %s: %s\n", updated.ID, updated.Name)
			return nil
		})
	},
}

var categoryRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a user category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted category %s.\n", args[0])
			return nil
		})
	},
}

type categoryFlags struct {
	name, icon, color, kind *string
}

func categoryFlagValues(cmd *cobra.Command) categoryFlags {
	var f categoryFlags
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.name = &flagCatName
	}
	if flags.Changed("icon") {
		f.icon = &flagCatIcon
	}
	if flags.Changed("color") {
		f.color = &flagCatColor
	}
	if flags.Changed("type") {
		f.kind = &flagCatKind
	}
	return f
}

func buildCategoryDraft(base model.CategoryDraft, f categoryFlags) (model.CategoryDraft, error) {
	d := base
	if f.name != nil {
		d.Name = *f.name
	}
	if f.icon != nil {
		d.Icon = *f.icon
	}
	if f.color != nil {
		d.Color = *f.color
	}
	if f.kind != nil {
		kind, err := parseCategoryKind(*f.kind)
		if err != nil {
			return d, err
		}
		d.Kind = kind
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// parseCategoryKind accepts both on top of the transaction kinds.
func parseCategoryKind(raw string) (model.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(raw), string(model.KindBoth)) {
		return model.KindBoth, nil
	}
	return model.ParseKind(raw)
}

func init() {
	categoryListCmd.Flags().StringVar(&flagCatMonth, "month", "", "Month as YYYY-MM (default current)")
	for _, c := range []*cobra.Command{categoryAddCmd, categoryEditCmd} {
		c.Flags().StringVar(&flagCatName, "name", "", "Category name")
		c.Flags().StringVar(&flagCatIcon, "icon", "", "Icon, usually an emoji")
		c.Flags().StringVar(&flagCatColor, "color", "", "Colour as #rrggbb")
		c.Flags().StringVar(&flagCatKind, "type", "", "income, expense or both")
	}

	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryEditCmd, categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}
