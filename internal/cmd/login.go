package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/config"
	"github.com/linkly-app/linkly-cli/internal/session"
)

// RunInteractiveLogin prompts for credentials, logs in and persists the
// session to config.
func RunInteractiveLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	email := prompt(reader, out, "email")
	if email == "" {
		return fmt.Errorf("email is required")
	}
	password := prompt(reader, out, "password")
	if password == "" {
		return fmt.Errorf("password is required")
	}

	client, cfg := anonymousClient()
	resp, err := client.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := session.FromLogin(resp)
	if sess.User().Role == "" {
		// The login response does not always carry the role.
		authed := api.NewClient(client.BaseURL(), sess)
		if user, err := authed.GetUser(ctx, sess.UserID()); err == nil {
			sess.SetRole(user.Role)
		} else {
			zlog.Debug().Err(err).Msg("could not resolve user role")
		}
	}

	sess.Persist(cfg)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", resp.Email)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `linkly login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a linkly server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveLogin(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// SignupCmd returns the `linkly signup` command.
func SignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a linkly account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())

			email := prompt(reader, out, "email")
			name := prompt(reader, out, "name")
			password := prompt(reader, out, "password")
			if email == "" || name == "" || password == "" {
				return fmt.Errorf("email, name and password are required")
			}

			client, _ := anonymousClient()
			user, err := client.Signup(cmd.Context(), api.SignupInput{Email: email, Password: password, Name: name})
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			fmt.Fprintf(out, "account created for %s\n", user.Email)
			fmt.Fprintln(out, "run 'linkly login' to sign in")
			return nil
		},
	}
}

// LogoutCmd returns the `linkly logout` command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			session.FromConfig(cfg).Clear()
			cfg.ClearCredentials()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

// WithdrawCmd returns the `linkly withdraw` command.
func WithdrawCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Delete your account and all of its bookmarks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, sess, cfg, err := loggedInClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, "permanently delete "+sess.User().Email+"?") {
				fmt.Fprintln(out, "cancelled")
				return nil
			}
			if err := client.Withdraw(cmd.Context()); err != nil {
				return fmt.Errorf("withdraw: %w", err)
			}
			sess.Clear()
			cfg.ClearCredentials()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(out, "account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
