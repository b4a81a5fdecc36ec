package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/service"
	"github.com/noah-isme/educonnect/pkg/export"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

var (
	catalogHeaders    = []string{"ID", "COURSE", "CATEGORY", "LEVEL"}
	enrollmentHeaders = []string{"ENROLLMENT", "COURSE", "CATEGORY", "LEVEL"}
)

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and join courses (student)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the courses you are not enrolled in",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.loadCatalog(cmd.Context()); err != nil {
					return err
				}
				list := app.catalog.Courses()
				size := app.pageSize()
				items := list.Page(app.page(), size)
				return renderTable(app.out, catalogHeaders, courseRows(items, false), list.Pagination(size))
			},
		},
		&cobra.Command{
			Use:   "enroll <course-id>",
			Short: "Enroll in a course after confirmation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if err := app.loadCatalog(ctx); err != nil {
					return err
				}
				course, ok := app.catalog.Find(models.ID(args[0]))
				if !ok {
					return appErrors.Clone(appErrors.ErrNotFound, "course "+args[0]+" is not available for enrollment")
				}
				message, err := app.catalog.Enroll(ctx, course)
				if errors.Is(err, appErrors.ErrCancelled) {
					fmt.Fprintln(app.out, "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, message)
				return nil
			},
		},
	)
	return cmd
}

func (a *App) loadCatalog(ctx context.Context) error {
	if err := a.enter(ctx, navigation.PathRegisterCourse); err != nil {
		return err
	}
	if err := a.catalog.Load(ctx); err != nil {
		return err
	}
	if a.opts.Search != "" {
		a.catalog.Courses().Search(a.opts.Search)
	}
	return nil
}

func newEnrollmentsCommand(app *App) *cobra.Command {
	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the (searched) enrollment list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, err.Error())
			}
			if err := app.loadEnrollments(cmd.Context()); err != nil {
				return err
			}
			data := service.EnrollmentsDataset("My courses", app.opts.Search, app.enrollments.Enrollments().Items())
			return app.writeExport("enrollments", f, data)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "csv, pdf or xlsx")

	cmd := &cobra.Command{
		Use:   "enrollments",
		Short: "Your enrolled courses (student)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your enrolled courses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.loadEnrollments(cmd.Context()); err != nil {
					return err
				}
				list := app.enrollments.Enrollments()
				size := app.pageSize()
				items := list.Page(app.page(), size)
				return renderTable(app.out, enrollmentHeaders, enrollmentRows(items), list.Pagination(size))
			},
		},
		&cobra.Command{
			Use:   "unenroll <enrollment-id>",
			Short: "Leave a course after confirmation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if err := app.loadEnrollments(ctx); err != nil {
					return err
				}
				enrollment, ok := app.enrollments.Find(models.ID(args[0]))
				if !ok {
					return appErrors.Clone(appErrors.ErrNotFound, "enrollment "+args[0]+" not found")
				}
				err := app.enrollments.Unenroll(ctx, enrollment)
				if errors.Is(err, appErrors.ErrCancelled) {
					fmt.Fprintln(app.out, "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(app.out, "Unenrolled from %s.\n", enrollment.Name)
				return nil
			},
		},
		exportCmd,
	)
	return cmd
}

func (a *App) loadEnrollments(ctx context.Context) error {
	if err := a.enter(ctx, navigation.PathUserDashboard); err != nil {
		return err
	}
	if err := a.enrollments.Load(ctx); err != nil {
		return err
	}
	if a.opts.Search != "" {
		a.enrollments.Enrollments().Search(a.opts.Search)
	}
	return nil
}
