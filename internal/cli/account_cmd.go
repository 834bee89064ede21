package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

var errNotLoggedIn = errors.New("not logged in: run `stratako login` or pass --token")

// user resolves the acting user from --token, $STRATAKO_TOKEN or the
// stored login, in that order.
func (a *App) user(cmd *cobra.Command) (*domain.User, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("STRATAKO_TOKEN")
	}
	if token == "" && a.TokenPath != "" {
		data, err := os.ReadFile(a.TokenPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return nil, errNotLoggedIn
	}
	u, err := a.Accounts.Authenticate(cmd.Context(), token)
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, errNotLoggedIn
	}
	return u, err
}

func (a *App) storeToken(token string) error {
	if a.TokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.TokenPath), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(a.TokenPath, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

func newSignupCmd(a *App) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.Accounts.Signup(ctx, service.Signup{Email: email, Name: name, Password: password})
			if err != nil {
				return err
			}
			token, err := a.Accounts.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := a.storeToken(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	var email, password string
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.Accounts.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			if err := a.storeToken(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", domain.NormalizeEmail(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the token instead of storing it")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.TokenPath == "" {
				return nil
			}
			if err := os.Remove(a.TokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
}

func newSettingsCmd(a *App) *cobra.Command {
	var grouping string
	var showDone bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change project list settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			var in service.ProjectSettings
			if cmd.Flags().Changed("grouping") {
				g := domain.ProjectGrouping(grouping)
				in.DefaultProjectGrouping = &g
			}
			if cmd.Flags().Changed("show-done") {
				in.ShowDoneProjects = &showDone
			}
			if in.DefaultProjectGrouping != nil || in.ShowDoneProjects != nil {
				if u, err = a.Accounts.UpdateSettings(cmd.Context(), u.ID, in); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grouping   %s\nshow done  %t\n", u.DefaultProjectGrouping, u.ShowDoneProjects)
			return nil
		},
	}

	cmd.Flags().StringVar(&grouping, "grouping", "", "Project grouping: none, category or status")
	cmd.Flags().BoolVar(&showDone, "show-done", true, "List completed and abandoned projects")
	return cmd
}
