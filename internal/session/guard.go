package session

import (
	"context"

	"go.uber.org/zap"
)

// EntryPath is where unauthenticated callers are sent.
const EntryPath = "/"

// Decision is the outcome of a guard check.
type Decision struct {
	Path     string
	Allowed  bool
	Redirect string
}

// Guard gates screens on the presence of a session token. It never contacts the
// backend: an expired but present token passes and is caught by the next API call.
type Guard struct {
	sessions *Manager
	public   map[string]struct{}
	logger   *zap.Logger
}

// NewGuard builds a guard; publicPaths are reachable without a token.
func NewGuard(sessions *Manager, logger *zap.Logger, publicPaths ...string) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	public := map[string]struct{}{EntryPath: {}}
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return &Guard{sessions: sessions, public: public, logger: logger}
}

// Public reports whether path is reachable without a session.
func (g *Guard) Public(path string) bool {
	_, ok := g.public[path]
	return ok
}

// Check decides whether path may be shown.
func (g *Guard) Check(ctx context.Context, path string) (Decision, error) {
	if g.Public(path) {
		return Decision{Path: path, Allowed: true}, nil
	}
	token, err := g.sessions.Token(ctx)
	if err != nil {
		return Decision{}, err
	}
	if token == "" {
		g.logger.Debug("no session, redirecting", zap.String("path", path))
		return Decision{Path: path, Redirect: EntryPath}, nil
	}
	return Decision{Path: path, Allowed: true}, nil
}

// Watch re-checks the current path every time the session store changes and
// hands each decision to onChange. It blocks until ctx is done.
func (g *Guard) Watch(ctx context.Context, current func() string, onChange func(Decision)) error {
	changes, err := g.sessions.Changes(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			d, err := g.Check(ctx, current())
			if err != nil {
				g.logger.Warn("session re-check failed", zap.Error(err))
				continue
			}
			onChange(d)
		}
	}
}
