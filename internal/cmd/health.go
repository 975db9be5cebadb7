package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// HealthCmd returns the `linkly health` command. Without arguments it shows
// the server status and the latest link check of every bookmark.
func HealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show server and link health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			status, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server health: %w", err)
			}
			fmt.Fprintf(out, "server: %s\n", status)

			results, err := client.LatestHealth(cmd.Context())
			if err != nil {
				return fmt.Errorf("link health: %w", err)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "no link checks yet")
				return nil
			}
			for _, r := range results {
				printHealth(out, r)
			}
			return nil
		},
	}
	cmd.AddCommand(healthCheckCmd())
	return cmd
}

func healthCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <bookmark-id>",
		Short: "Check one bookmark's link now",
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
			tracker := workspace.NewTracker(client)
			result, err := tracker.CheckNow(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("check link: %w", err)
			}
			printHealth(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printHealth(out io.Writer, r api.HealthResult) {
	line := fmt.Sprintf("  %d  %-9s", r.BookmarkID, workspace.StatusLabel(r.Status))
	if r.HTTPStatus != nil {
		line += fmt.Sprintf("  HTTP %d", *r.HTTPStatus)
	}
	if r.ResponseTimeMS > 0 {
		line += fmt.Sprintf("  %dms", r.ResponseTimeMS)
	}
	if r.BookmarkURL != "" {
		line += "  " + r.BookmarkURL
	}
	fmt.Fprintln(out, line)
}
