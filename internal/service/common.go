package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/models"
)

type navigator interface {
	Goto(ctx context.Context, path string) error
	AfterLogin(ctx context.Context, role models.Role) (string, error)
	Logout(ctx context.Context) (string, error)
}

// FormConfig tunes the redirect that follows a successful form submission.
type FormConfig struct {
	RedirectDelay time.Duration
	// Sleep replaces the real wait, mainly for tests.
	Sleep func(ctx context.Context, d time.Duration) error
	// Notify receives the confirmation message as soon as a submission succeeds.
	Notify func(message string)
}

func formOptions(nav navigator, cfg FormConfig, logger *zap.Logger) form.Options {
	opts := form.Options{RedirectDelay: cfg.RedirectDelay, Sleep: cfg.Sleep, Logger: logger}
	if cfg.Notify != nil {
		opts.OnSuccess = func(o form.Outcome) { cfg.Notify(o.Message) }
	}
	if nav != nil {
		opts.Navigate = nav.Goto
	}
	return opts
}

// AdminCourseFields are searched on the admin dashboard: every column.
func AdminCourseFields(c models.Course) []string {
	return []string{c.ID.String(), c.Name, string(c.Category), c.Level.String(), c.Popularity.String()}
}

// CatalogCourseFields are searched when a student browses courses.
func CatalogCourseFields(c models.Course) []string {
	return []string{c.Name, string(c.Category)}
}

// EnrollmentFields are searched on the student dashboard.
func EnrollmentFields(e models.Enrollment) []string {
	return []string{e.Name, string(e.Category)}
}
