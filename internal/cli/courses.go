package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/service"
	"github.com/noah-isme/educonnect/pkg/export"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

var adminCourseHeaders = []string{"ID", "COURSE", "CATEGORY", "LEVEL", "POPULARITY"}

func newCoursesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Manage the course catalog (admin)",
	}
	cmd.AddCommand(
		newCoursesListCommand(app),
		newCoursesAddCommand(app),
		newCoursesEditCommand(app),
		newCoursesDeleteCommand(app),
		newCoursesExportCommand(app),
	)
	return cmd
}

// loadAdminCourses opens the admin dashboard and applies --search.
func (a *App) loadAdminCourses(ctx context.Context) error {
	if err := a.enter(ctx, navigation.PathAdminDashboard); err != nil {
		return err
	}
	if err := a.courses.Load(ctx); err != nil {
		return err
	}
	if a.opts.Search != "" {
		a.courses.Courses().Search(a.opts.Search)
	}
	return nil
}

func newCoursesListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.loadAdminCourses(cmd.Context()); err != nil {
				return err
			}
			if admin := app.courses.Admin(); admin != nil {
				fmt.Fprintf(app.out, "Signed in as %s (%s)\n", admin.Name, admin.Email)
			}
			list := app.courses.Courses()
			size := app.pageSize()
			items := list.Page(app.page(), size)
			return renderTable(app.out, adminCourseHeaders, courseRows(items, true), list.Pagination(size))
		},
	}
}

// courseFlags binds the add/edit form fields.
type courseFlags struct {
	name     string
	category string
	level    int
}

func (f *courseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "course name")
	cmd.Flags().StringVar(&f.category, "category", "", "one of History, Economics, Mathematics, Science, Literature")
	cmd.Flags().IntVar(&f.level, "level", 0, "course level, 1 to 4")
}

// parseCategory matches raw against the fixed categories ignoring case.
// Unknown values pass through so validation reports them.
func parseCategory(raw string) models.Category {
	raw = strings.TrimSpace(raw)
	for _, c := range models.Categories {
		if strings.EqualFold(raw, string(c)) {
			return c
		}
	}
	return models.Category(raw)
}

func newCoursesAddCommand(app *App) *cobra.Command {
	var f courseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.enter(ctx, navigation.PathAddCourse); err != nil {
				return err
			}
			_, err := app.courses.Add(ctx, models.CourseInput{
				Name:     f.name,
				Category: parseCategory(f.category),
				Level:    f.level,
			})
			return err
		},
	}
	f.bind(cmd)
	return cmd
}

func newCoursesEditCommand(app *App) *cobra.Command {
	var f courseFlags
	cmd := &cobra.Command{
		Use:   "edit <course-id>",
		Short: "Edit a course; omitted fields keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadAdminCourses(ctx); err != nil {
				return err
			}
			course, ok := app.courses.Find(models.ID(args[0]))
			if !ok {
				return appErrors.Clone(appErrors.ErrNotFound, "course "+args[0]+" not found")
			}
			if err := app.enter(ctx, navigation.PathEditCourse); err != nil {
				return err
			}

			in := models.CourseInput{
				ID:         course.ID,
				Name:       course.Name,
				Category:   course.Category,
				Level:      int(course.Level),
				Popularity: int(course.Popularity),
			}
			if cmd.Flags().Changed("name") {
				in.Name = f.name
			}
			if cmd.Flags().Changed("category") {
				in.Category = parseCategory(f.category)
			}
			if cmd.Flags().Changed("level") {
				in.Level = f.level
			}
			_, err := app.courses.Edit(ctx, course, in)
			return err
		},
	}
	f.bind(cmd)
	return cmd
}

func newCoursesDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadAdminCourses(ctx); err != nil {
				return err
			}
			course, ok := app.courses.Find(models.ID(args[0]))
			if !ok {
				return appErrors.Clone(appErrors.ErrNotFound, "course "+args[0]+" not found")
			}
			err := app.courses.Delete(ctx, course)
			if errors.Is(err, appErrors.ErrCancelled) {
				fmt.Fprintln(app.out, "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Deleted %s.\n", course.Name)
			return nil
		},
	}
}

func newCoursesExportCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the (searched) course list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, err.Error())
			}
			if err := app.loadAdminCourses(cmd.Context()); err != nil {
				return err
			}
			data := service.CoursesDataset("Courses", app.opts.Search, app.courses.Courses().Items())
			return app.writeExport("courses", f, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "csv, pdf or xlsx")
	return cmd
}

func (a *App) writeExport(prefix string, format export.Format, data export.Dataset) error {
	exporter, err := a.exporter()
	if err != nil {
		return err
	}
	res, err := exporter.Export(prefix, format, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d rows to %s\n", res.Rows, res.Path)
	return nil
}
