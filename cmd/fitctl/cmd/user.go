package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	cmd.AddCommand(userCreateCmd(), userDeleteCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a verified account",
		Long: `Create an account that can sign in immediately, skipping the
verification email. Useful for seeding local databases.

Example:
  fitctl user create --email sam@example.com --password 'long enough' --name Sam`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			user, outcome, err := a.AuthService.Register(cmd.Context(), service.RegisterInput{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				if errors.Is(err, service.ErrEmailAlreadyExists) {
					return fmt.Errorf("%s already has an account", email)
				}
				return err
			}

			err = a.AuthService.MarkVerified(cmd.Context(), user)
			if err != nil {
				return err
			}

			if outcome == service.RegisterPasswordAdded {
				color.Yellow("added a password to existing account %s", user.Email)
			} else {
				color.Green("created %s", user.Email)
			}
			fmt.Println(color.New(color.Faint).Sprint(user.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email's local part)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an account and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			user, err := a.UserService.ByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", args[0], err)
			}

			err = a.UserService.Delete(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			color.Green("deleted %s", user.Email)
			return nil
		},
	}
}
