package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/models"
)

// ErrOpaqueToken is returned by Claims when the token is not a JWT.
var ErrOpaqueToken = errors.New("session token is not a JWT")

// Manager is the single read/write/clear API over the persisted session. Every
// gated component receives a Manager; nothing else touches the Store.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager wraps a store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// Read loads the current session from the store.
func (m *Manager) Read(ctx context.Context) (models.Session, error) {
	token, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("read session token: %w", err)
	}
	role, err := m.store.Get(ctx, KeyRole)
	if err != nil {
		return models.Session{}, fmt.Errorf("read session role: %w", err)
	}
	return models.Session{Token: token, Role: models.Role(role)}, nil
}

// Token returns the bearer token as stored right now.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return token, nil
}

// Write persists a freshly issued session.
func (m *Manager) Write(ctx context.Context, s models.Session) error {
	if s.Token == "" {
		return errors.New("refusing to store an empty session token")
	}
	if err := m.store.Set(ctx, map[string]string{KeyToken: s.Token, KeyRole: string(s.Role)}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	m.logger.Debug("session stored", zap.String("role", string(s.Role)))
	return nil
}

// Clear destroys the session.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, KeyToken, KeyRole); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.logger.Debug("session cleared")
	return nil
}

// Changes forwards the store's change notifications.
func (m *Manager) Changes(ctx context.Context) (<-chan struct{}, error) {
	return m.store.Watch(ctx)
}

// Claims decodes the token without verifying its signature. The result is for
// display only; the backend remains the authority on validity.
func (m *Manager) Claims(ctx context.Context) (*models.TokenClaims, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return ParseClaims(token)
}

// ParseClaims reads the common claims from a JWT string.
func ParseClaims(token string) (*models.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	out := &models.TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		out.ExpiresAt = &t
	}
	return out, nil
}

// Expired reports whether the claims carry an expiry in the past.
func Expired(c *models.TokenClaims, now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
