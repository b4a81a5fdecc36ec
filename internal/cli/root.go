package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/navigation"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// NewRootCommand builds the educonnect command tree on top of app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "educonnect",
		Short:         "EduConnect course enrollment client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&app.opts.Page, "page", 1, "page of the list to show, starting at 1")
	flags.IntVar(&app.opts.PageSize, "page-size", 0, "rows per page (defaults to PAGE_SIZE)")
	flags.StringVar(&app.opts.Search, "search", "", "only show rows containing this text")
	flags.BoolVarP(&app.opts.Yes, "yes", "y", false, "answer yes to every confirmation")

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newRegisterCommand(app),
		newForgotPasswordCommand(app),
		newCoursesCommand(app),
		newCatalogCommand(app),
		newEnrollmentsCommand(app),
		newProfileCommand(app),
		newWatchCommand(app),
	)
	return root
}

// Execute runs one command line and releases the App afterwards.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetIn(app.deps.In)
	root.SetOut(app.out)
	root.SetErr(app.out)

	err := root.ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// enter opens a screen through the navigator and turns a forced redirect
// into an error the user can act on.
func (a *App) enter(ctx context.Context, path string) error {
	resolved, err := a.nav.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if resolved == path {
		return nil
	}
	if resolved == navigation.PathLogin {
		return appErrors.Clone(appErrors.ErrUnauthenticated, "please log in first")
	}
	return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s is not available to your role, your dashboard is %s", path, resolved))
}
