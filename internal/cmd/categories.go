package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// CategoriesCmd returns the `linkly categories` command group.
func CategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesEditCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			cats, err := client.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(cats) == 0 {
				fmt.Fprintln(out, "no categories found")
				return nil
			}
			for _, c := range cats {
				if c.Description != "" {
					fmt.Fprintf(out, "  %d  %s  - %s\n", c.ID, c.Name, c.Description)
				} else {
					fmt.Fprintf(out, "  %d  %s\n", c.ID, c.Name)
				}
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			created, err := client.CreateCategory(cmd.Context(), api.CategoryInput{Name: args[0], Description: description})
			if err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %d created: %s\n", created.ID, created.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	return cmd
}

func categoriesEditCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a category or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") {
				return fmt.Errorf("nothing to change: pass --name or --description")
			}
			if flags.Changed("name") && strings.TrimSpace(name) == "" {
				return fmt.Errorf("name cannot be empty")
			}
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}

			current, err := client.GetCategory(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get category: %w", err)
			}
			input := api.CategoryInput{Name: current.Name, Description: current.Description}
			if flags.Changed("name") {
				input.Name = strings.TrimSpace(name)
			}
			if flags.Changed("description") {
				input.Description = strings.TrimSpace(description)
			}
			updated, err := client.UpdateCategory(cmd.Context(), id, input)
			if err != nil {
				return fmt.Errorf("update category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %d updated: %s\n", updated.ID, updated.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("delete category %d?", id)) {
				fmt.Fprintln(out, "cancelled")
				return nil
			}
			if err := client.DeleteCategory(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete category: %w", err)
			}
			fmt.Fprintln(out, "category deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
