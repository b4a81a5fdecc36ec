package navigation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/session"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// Screen paths.
const (
	PathLogin          = session.EntryPath
	PathRegister       = "/register"
	PathForgotPassword = "/forgot-password"
	PathAdminDashboard = "/admin-dashboard"
	PathAddCourse      = "/add-course"
	PathEditCourse     = "/edit-course"
	PathUserDashboard  = "/user-dashboard"
	PathRegisterCourse = "/register-course"
	PathUserProfile    = "/user-profile"
)

var screenRoles = map[string]models.Role{
	PathLogin:          "",
	PathRegister:       "",
	PathForgotPassword: "",
	PathAdminDashboard: models.RoleAdmin,
	PathAddCourse:      models.RoleAdmin,
	PathEditCourse:     models.RoleAdmin,
	PathUserDashboard:  models.RoleStudent,
	PathRegisterCourse: models.RoleStudent,
	PathUserProfile:    models.RoleStudent,
}

// DashboardFor is the landing screen of role.
func DashboardFor(role models.Role) string {
	if role == models.RoleAdmin {
		return PathAdminDashboard
	}
	return PathUserDashboard
}

// Navigator tracks the current screen and applies the session guard to every
// move between screens.
type Navigator struct {
	sessions *session.Manager
	guard    *session.Guard
	metrics  *metrics.MetricsService
	logger   *zap.Logger

	mu      sync.RWMutex
	current string
}

// NewNavigator starts on the login screen.
func NewNavigator(sessions *session.Manager, metricsSvc *metrics.MetricsService, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		sessions: sessions,
		guard:    session.NewGuard(sessions, logger, PathRegister, PathForgotPassword),
		metrics:  metricsSvc,
		logger:   logger,
		current:  PathLogin,
	}
}

// Current is the screen last navigated to.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Navigate resolves path to the screen actually shown. Without a session every
// gated path resolves to the login screen; a screen of the other role
// resolves to the caller's own dashboard.
func (n *Navigator) Navigate(ctx context.Context, path string) (string, error) {
	owner, known := screenRoles[path]
	if !known {
		return n.Current(), appErrors.Clone(appErrors.ErrNotFound, "unknown screen "+path)
	}

	decision, err := n.guard.Check(ctx, path)
	if err != nil {
		return n.Current(), err
	}
	if decision.Redirect != "" {
		n.metrics.RecordSessionEvent("redirect")
		return n.set(decision.Redirect), nil
	}

	if owner != "" {
		s, err := n.sessions.Read(ctx)
		if err != nil {
			return n.Current(), err
		}
		if s.Role.Valid() && s.Role != owner {
			n.logger.Debug("role mismatch", zap.String("path", path), zap.String("role", string(s.Role)))
			return n.set(DashboardFor(s.Role)), nil
		}
	}
	return n.set(path), nil
}

// Goto navigates and discards the resolved path.
func (n *Navigator) Goto(ctx context.Context, path string) error {
	_, err := n.Navigate(ctx, path)
	return err
}

// AfterLogin sends the caller to the dashboard of role.
func (n *Navigator) AfterLogin(ctx context.Context, role models.Role) (string, error) {
	n.metrics.RecordSessionEvent("login")
	return n.Navigate(ctx, DashboardFor(role))
}

// Logout destroys the session and returns to the login screen.
func (n *Navigator) Logout(ctx context.Context) (string, error) {
	if err := n.sessions.Clear(ctx); err != nil {
		return n.Current(), err
	}
	n.metrics.RecordSessionEvent("logout")
	return n.set(PathLogin), nil
}

// Watch re-applies the guard whenever the session store changes and reports
// every forced move. It blocks until ctx is done.
func (n *Navigator) Watch(ctx context.Context, onRedirect func(path string)) error {
	return n.guard.Watch(ctx, n.Current, func(d session.Decision) {
		if d.Redirect == "" || d.Redirect == n.Current() {
			return
		}
		n.metrics.RecordSessionEvent("redirect")
		n.set(d.Redirect)
		if onRedirect != nil {
			onRedirect(d.Redirect)
		}
	})
}

func (n *Navigator) set(path string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	return path
}
