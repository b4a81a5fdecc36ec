package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/navigation"
)

func newWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow session changes made by other clients until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			current, err := app.sessions.Read(ctx)
			if err != nil {
				return err
			}
			if current.Authenticated() {
				if err := app.nav.Goto(ctx, navigation.DashboardFor(current.Role)); err != nil {
					return err
				}
			}
			fmt.Fprintf(app.out, "Watching session on %s\n", app.nav.Current())
			return app.nav.Watch(ctx, func(path string) {
				fmt.Fprintf(app.out, "Session changed, now on %s\n", path)
			})
		},
	}
}
