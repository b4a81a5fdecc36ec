package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/apiclient"
	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/service"
	"github.com/noah-isme/educonnect/internal/session"
	"github.com/noah-isme/educonnect/pkg/cache"
	"github.com/noah-isme/educonnect/pkg/config"
	"github.com/noah-isme/educonnect/pkg/storage"
)

// Deps overrides the collaborators the App would otherwise build from config.
type Deps struct {
	Store      session.Store
	HTTPClient *http.Client
	In         io.Reader
	Out        io.Writer
	Logger     *zap.Logger
}

// Options are the global flags.
type Options struct {
	Page     int
	PageSize int
	Search   string
	Yes      bool
}

// App owns every long-lived component of one CLI invocation.
type App struct {
	cfg    *config.Config
	deps   Deps
	logger *zap.Logger
	out    io.Writer
	prompt *Prompter
	opts   Options

	ready       bool
	store       session.Store
	metrics     *metrics.MetricsService
	sessions    *session.Manager
	nav         *navigation.Navigator
	client      *apiclient.Client
	validator   *form.Validator
	auth        *service.AuthService
	courses     *service.CourseAdminService
	catalog     *service.CatalogService
	enrollments *service.EnrollmentService
	profile     *service.ProfileService
	exports     *service.ExportService
}

// NewApp prepares an App. Nothing is opened until the first command runs.
func NewApp(cfg *config.Config, deps Deps) *App {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{cfg: cfg, deps: deps, logger: logger, out: deps.Out}
	app.prompt = NewPrompter(deps.In, deps.Out, func() bool { return app.opts.Yes })
	return app
}

func (a *App) open(ctx context.Context) error {
	if a.ready {
		return nil
	}

	store := a.deps.Store
	if store == nil {
		var err error
		store, err = openStore(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
	}
	a.store = store

	a.metrics = metrics.NewMetricsService()
	a.sessions = session.NewManager(store, a.logger)
	a.nav = navigation.NewNavigator(a.sessions, a.metrics, a.logger)
	a.client = apiclient.New(apiclient.Config{BaseURL: a.cfg.API.BaseURL, Timeout: a.cfg.API.Timeout}, a.deps.HTTPClient, a.sessions, a.metrics, a.logger)
	a.validator = form.NewValidator()

	formCfg := service.FormConfig{
		RedirectDelay: a.cfg.UI.RedirectDelay,
		Notify:        func(message string) { fmt.Fprintln(a.out, message) },
	}
	a.auth = service.NewAuthService(a.client, a.sessions, a.nav, a.validator, service.AuthConfig{OTPMode: a.cfg.OTP.Mode, Form: formCfg}, a.logger)
	a.courses = service.NewCourseAdminService(a.client, a.nav, a.prompt, a.validator, formCfg, a.logger)
	a.catalog = service.NewCatalogService(a.client, a.prompt, a.logger)
	a.enrollments = service.NewEnrollmentService(a.client, a.prompt, a.logger)
	a.profile = service.NewProfileService(a.client, a.validator, a.logger)
	a.exports = nil

	a.ready = true
	return nil
}

// exporter creates the export directory on first use.
func (a *App) exporter() (*service.ExportService, error) {
	if a.exports != nil {
		return a.exports, nil
	}
	files, err := storage.NewLocalStorage(a.cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("prepare export directory: %w", err)
	}
	a.exports = service.NewExportService(files, a.logger)
	return a.exports, nil
}

// Close flushes the metrics snapshot and releases the session store when the
// App opened it.
func (a *App) Close() error {
	if !a.ready {
		return nil
	}
	a.ready = false
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
		a.logger.Warn("metrics snapshot not written", zap.Error(err))
	}
	if a.deps.Store != nil {
		return nil
	}
	return a.store.Close()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	case config.SessionStoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.Session.Channel, logger), nil
	default:
		return session.NewFileStore(cfg.Session.File, []byte(cfg.Session.HashKey), []byte(cfg.Session.BlockKey), logger)
	}
}

// page converts the 1-based --page flag to a controller index.
func (a *App) page() int {
	if a.opts.Page < 1 {
		return 0
	}
	return a.opts.Page - 1
}

func (a *App) pageSize() int {
	if a.opts.PageSize > 0 {
		return a.opts.PageSize
	}
	if a.cfg.UI.PageSize > 0 {
		return a.cfg.UI.PageSize
	}
	return 5
}
