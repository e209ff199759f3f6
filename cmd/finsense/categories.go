package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/finsense/internal/catalog"
	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category registry",
		Long:  `List, add, import and retire the categories transactions can be filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(importCategoriesCmd())
	cmd.AddCommand(removeCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all active categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories found. Use 'finsense categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Impact"),
				headerStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 28),
				strings.Repeat("-", 7),
				strings.Repeat("-", 6),
				strings.Repeat("-", 40))

			for _, cat := range categories {
				impact := ""
				if cat.HighImpact {
					impact = cli.WarningStyle.Render("high")
				}
				desc := cat.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render("■")
				fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", swatch, cat.Name, cat.Type, impact, desc)
			}

			return w.Flush()
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		description string
		categoryTyp string
		color       string
		highImpact  bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.GetCategoryByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to check existing category: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("category %q already exists", args[0])
			}

			created, err := store.CreateCategory(ctx, model.Category{
				Name:        args[0],
				Description: description,
				Type:        model.CategoryType(categoryTyp),
				Color:       color,
				HighImpact:  highImpact,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q", created.Name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Category description")
	cmd.Flags().StringVarP(&categoryTyp, "type", "t", string(model.CategoryTypeExpense), "Category type (expense, revenue, cogs)")
	cmd.Flags().StringVar(&color, "color", "", "Display color (hex)")
	cmd.Flags().BoolVar(&highImpact, "high-impact", false, "Always send transactions in this category to manual review")

	return cmd
}

func importCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or update categories from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cats, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.ImportCategories(ctx, cats)
			if err != nil {
				return fmt.Errorf("failed to import categories: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d categories (%d new, %d updated)", len(cats), created, len(cats)-created)))
			return nil
		},
	}
}

func removeCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Retire a category",
		Long: `Retire a category so no new decision can use it. Transactions already
filed under it keep their category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateCategory(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Retired category %q", args[0])))
			return nil
		},
	}
}
