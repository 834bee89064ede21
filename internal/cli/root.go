package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/app"
)

// App holds what the commands need beyond the use cases themselves.
type App struct {
	*app.App

	// TokenPath is where login stores the access token.
	TokenPath string
	// Serve runs the HTTP API until ctx is done. Nil hides the serve command.
	Serve func(ctx context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "stratako" command and registers all
// subcommands against a.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "stratako",
		Short:         "Slots, operations, projects and goals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("token", "", "Access token (defaults to $STRATAKO_TOKEN, then the stored login)")

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSettingsCmd(a),
		newSlotCmd(a),
		newOperationCmd(a),
		newTaskCmd(a),
		newProjectCmd(a),
		newGoalCmd(a),
	)
	if a.Serve != nil {
		root.AddCommand(newServeCmd(a))
	}
	return root
}

func newServeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Serve(cmd.Context())
		},
	}
}
