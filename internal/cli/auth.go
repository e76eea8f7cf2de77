package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/taskmaster/internal/client"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

func registerCmd(a *App) *cobra.Command {
	var form validation.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.Auth.Guard(ctx, client.ViewRegister) != client.ViewRegister {
				fmt.Fprintln(a.Out, "Already logged in. Run `taskmaster logout` to switch accounts.")
				return nil
			}
			u, err := a.Auth.Register(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Account created for %s. You can now log in with %s.\n", u.Username, u.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&form.Username, "username", "u", "", "username (at least 3 characters)")
	f.StringVarP(&form.Email, "email", "e", "", "email address")
	f.StringVarP(&form.Password, "password", "p", "", "password")
	f.StringVar(&form.ConfirmPassword, "confirm", "", "password again")
	return cmd
}

func loginCmd(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.Auth.Guard(ctx, client.ViewLogin) != client.ViewLogin {
				fmt.Fprintf(a.Out, "Already logged in as %s.\n", a.Auth.CurrentUser(ctx).Username)
				return nil
			}
			fmt.Fprintln(a.Out, "Signing in...")
			if err := a.sleep(ctx, a.Config.LoginDelay); err != nil {
				return err
			}
			s, err := a.Auth.Login(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Welcome, %s!\n", s.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func logoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(a *App) *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !a.Auth.IsAuthenticated(ctx) {
				return ErrNotLoggedIn
			}
			u := a.Auth.CurrentUser(ctx)
			if verify {
				checked, err := a.Auth.Verify(ctx)
				if err != nil {
					return err
				}
				u = checked
			}
			fmt.Fprintf(a.Out, "%s <%s>\n", u.Username, u.Email)
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check the stored token against the API")
	return cmd
}
