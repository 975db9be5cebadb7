package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/importer"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// BookmarksCmd returns the `linkly bookmarks` command group.
func BookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarks",
	}
	cmd.AddCommand(bookmarksListCmd())
	cmd.AddCommand(bookmarksSearchCmd())
	cmd.AddCommand(bookmarksAddCmd())
	cmd.AddCommand(bookmarksDeleteCmd())
	cmd.AddCommand(bookmarksImportCmd())
	return cmd
}

func printBookmarks(out io.Writer, items []api.Bookmark) {
	if len(items) == 0 {
		fmt.Fprintln(out, "no bookmarks found")
		return
	}
	for _, b := range items {
		line := fmt.Sprintf("  %d  %s  %s", b.ID, b.Title, b.URL)
		if b.CategoryName != "" {
			line += fmt.Sprintf("  [%s]", b.CategoryName)
		}
		if len(b.Tags) > 0 {
			line += "  #" + strings.Join(b.Tags, " #")
		}
		fmt.Fprintln(out, line)
	}
}

func bookmarksListCmd() *cobra.Command {
	var category int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bookmarks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			items, err := client.ListBookmarks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list bookmarks: %w", err)
			}
			if category > 0 {
				filtered := items[:0]
				for _, b := range items {
					if b.HasCategory(category) {
						filtered = append(filtered, b)
					}
				}
				items = filtered
			}
			printBookmarks(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&category, "category", "c", 0, "only show bookmarks in this category id")
	return cmd
}

func bookmarksSearchCmd() *cobra.Command {
	var category int64
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search bookmarks by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.TrimSpace(strings.Join(args, " "))
			if keyword == "" {
				return fmt.Errorf("keyword is required")
			}
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			items, err := client.SearchBookmarks(cmd.Context(), keyword, optionalID(category))
			if err != nil {
				return fmt.Errorf("search bookmarks: %w", err)
			}
			printBookmarks(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&category, "category", "c", 0, "restrict to this category id")
	return cmd
}

func bookmarksAddCmd() *cobra.Command {
	var title, description, tags string
	var category int64
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark, filling title and description from the page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !workspace.IsValidURL(args[0]) {
				return fmt.Errorf("invalid url %q", args[0])
			}

			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			ws := workspace.New(client)
			defer ws.Close()

			if category <= 0 {
				// Without categories the suggestion has nothing to resolve
				// against and the bookmark is saved uncategorised.
				_, _ = ws.LoadCategories(ctx)
			}
			form := ws.NewBookmark()
			defer form.Close()
			if category > 0 {
				id := category
				form.SelectCategory(&id)
			}
			form.SetTitle(title)
			form.SetDescription(description)
			form.SetTags(tags)
			form.SetURL(args[0])
			form.Fill(ctx)

			created, err := form.Submit(ctx, client)
			if err != nil {
				var verr *workspace.ValidationError
				if errors.As(err, &verr) {
					return err
				}
				return fmt.Errorf("add bookmark: %w", err)
			}
			out := cmd.OutOrStdout()
			if label := form.SuggestionLabel(); label != "" {
				fmt.Fprintf(out, "category suggested: %s\n", label)
			}
			fmt.Fprintf(out, "bookmark %d added: %s\n", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title (fetched from the page when empty)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().Int64VarP(&category, "category", "c", 0, "category id")
	return cmd
}

func bookmarksDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bookmark",
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
			ws := workspace.New(client)
			defer ws.Close()

			out := cmd.OutOrStdout()
			deleted, err := ws.List.DeleteBookmark(cmd.Context(), id, func() bool {
				return yes || confirm(cmd.InOrStdin(), out, fmt.Sprintf("delete bookmark %d?", id))
			})
			if err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			if !deleted {
				fmt.Fprintln(out, "cancelled")
				return nil
			}
			fmt.Fprintln(out, "bookmark deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func bookmarksImportCmd() *cobra.Command {
	var opts importer.Options
	cmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import a browser bookmark export (Netscape HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			entries, err := importer.ParseHTML(f)
			if err != nil {
				return fmt.Errorf("parse export: %w", err)
			}

			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			res, err := importer.Import(cmd.Context(), client, entries, opts)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			out := cmd.OutOrStdout()
			verb := "imported"
			if opts.DryRun {
				verb = "would import"
			}
			fmt.Fprintf(out, "%s %d of %d bookmarks (%d skipped, %d failed)\n",
				verb, res.Created, len(entries), res.Skipped, len(res.Failures))
			if len(res.CategoriesCreated) > 0 {
				fmt.Fprintf(out, "categories: %s\n", strings.Join(res.CategoriesCreated, ", "))
			}
			for _, fail := range res.Failures {
				fmt.Fprintf(out, "  failed %s: %s\n", fail.Entry.URL, api.Message(fail.Err))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.CreateCategories, "create-categories", false, "create a category for each folder")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would be imported")
	return cmd
}
