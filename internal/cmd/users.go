package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// UsersCmd returns the admin-only `linkly users` command group.
func UsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts (admin only)",
	}
	cmd.AddCommand(usersListCmd())
	cmd.AddCommand(usersAddCmd())
	cmd.AddCommand(usersEditCmd())
	cmd.AddCommand(usersDeleteCmd())
	cmd.AddCommand(usersRoleCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			var users []api.User
			if email != "" {
				u, err := client.FindUserByEmail(cmd.Context(), email)
				if err != nil {
					return fmt.Errorf("find user: %w", err)
				}
				users = []api.User{*u}
			} else if users, err = client.ListUsers(cmd.Context()); err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "no users found")
				return nil
			}
			for _, u := range users {
				fmt.Fprintf(out, "  %d  %s  %s  (%s)\n", u.ID, u.Email, u.Name, strings.ToLower(u.Role))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "look up a single account by email")
	return cmd
}

func usersAddCmd() *cobra.Command {
	var name string
	var admin bool
	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create an account; the password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(name) == "" {
				name = prompt(reader, out, "name")
			}
			password := prompt(reader, out, "password")
			if email == "" || strings.TrimSpace(name) == "" || password == "" {
				return fmt.Errorf("email, name and password are required")
			}

			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			u, err := client.CreateUser(cmd.Context(), api.CreateUserInput{Email: email, Password: password, Name: strings.TrimSpace(name)})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			if admin {
				if u, err = client.UpdateUserRole(cmd.Context(), u.ID, api.RoleAdmin); err != nil {
					return fmt.Errorf("user created but promotion failed: %w", err)
				}
			}
			fmt.Fprintf(out, "user %d created: %s (%s)\n", u.ID, u.Email, strings.ToLower(u.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (prompted when empty)")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	return cmd
}

func usersEditCmd() *cobra.Command {
	var name string
	var password bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an account's name or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input := api.UpdateUserInput{Name: strings.TrimSpace(name)}
			out := cmd.OutOrStdout()
			if password {
				input.Password = prompt(bufio.NewReader(cmd.InOrStdin()), out, "new password")
				if input.Password == "" {
					return fmt.Errorf("password cannot be empty")
				}
			}
			if input.Name == "" && input.Password == "" {
				return fmt.Errorf("nothing to change: pass --name or --password")
			}

			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			u, err := client.UpdateUser(cmd.Context(), id, input)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			fmt.Fprintf(out, "user %d updated: %s  %s\n", u.ID, u.Email, u.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new display name")
	cmd.Flags().BoolVarP(&password, "password", "p", false, "prompt for a new password")
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
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
			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("delete user %d?", id)) {
				fmt.Fprintln(out, "cancelled")
				return nil
			}
			if err := client.DeleteUser(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintln(out, "user deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func usersRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <id> <USER|ADMIN>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			role := strings.ToUpper(strings.TrimSpace(args[1]))
			if role != api.RoleUser && role != api.RoleAdmin {
				return fmt.Errorf("role must be %s or %s", api.RoleUser, api.RoleAdmin)
			}
			client, _, _, err := loggedInClient()
			if err != nil {
				return err
			}
			u, err := client.UpdateUserRole(cmd.Context(), id, role)
			if err != nil {
				return fmt.Errorf("update role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, strings.ToLower(u.Role))
			return nil
		},
	}
}
