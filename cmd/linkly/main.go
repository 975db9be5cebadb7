package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/cmd"
	"github.com/linkly-app/linkly-cli/internal/config"
	"github.com/linkly-app/linkly-cli/internal/logging"
	"github.com/linkly-app/linkly-cli/internal/session"
	"github.com/linkly-app/linkly-cli/internal/ui"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

func main() {
	var debug bool
	root := &cobra.Command{
		Use:   "linkly",
		Short: "Linkly - bookmarks with link health",
		Long:  "Linkly CLI: save and search bookmarks, organise categories, and keep an eye on dead links.",
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			// The TUI sets up its own file logger.
			if c.Root() == c {
				return
			}
			if debug {
				logging.Setup(os.Stderr, "debug", "console")
				return
			}
			logging.Setup(os.Stderr, "warn", "console")
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(debug)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.SignupCmd())
	root.AddCommand(cmd.LogoutCmd())
	root.AddCommand(cmd.WithdrawCmd())
	root.AddCommand(cmd.BookmarksCmd())
	root.AddCommand(cmd.CategoriesCmd())
	root.AddCommand(cmd.UsersCmd())
	root.AddCommand(cmd.HealthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
			fmt.Println("not logged in. run 'linkly login' first.")
			return err
		}
		if err := cmd.RunInteractiveLogin(context.Background(), os.Stdin, os.Stdout); err != nil {
			return err
		}
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	closer, err := logging.SetupFile(cfg.LogPath(), level)
	if err != nil {
		logging.Discard()
		closer = io.NopCloser(nil)
	}
	defer closer.Close()

	sess := session.FromConfig(cfg)
	client := api.NewClient(cfg.BaseURLOrDefault(api.DefaultBaseURL), sess)
	ws := workspace.New(client)
	defer ws.Close()

	zlog.Info().Str("base_url", client.BaseURL()).Int64("user_id", sess.UserID()).Msg("tui starting")

	p := tea.NewProgram(ui.NewApp(client, sess, ws), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
