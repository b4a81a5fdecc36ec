package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/session"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

func newNavigator(t *testing.T) (*Navigator, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore(), nil)
	return NewNavigator(sessions, metrics.NewMetricsService(), nil), sessions
}

func TestGatedPathsRedirectWithoutSession(t *testing.T) {
	nav, _ := newNavigator(t)
	ctx := context.Background()

	for _, path := range []string{PathAdminDashboard, PathAddCourse, PathEditCourse, PathUserDashboard, PathRegisterCourse, PathUserProfile} {
		got, err := nav.Navigate(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, PathLogin, got, path)
	}
	for _, path := range []string{PathLogin, PathRegister, PathForgotPassword} {
		got, err := nav.Navigate(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	}
}

func TestTokenPresentAllowsOwnScreens(t *testing.T) {
	nav, sessions := newNavigator(t)
	ctx := context.Background()
	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleStudent}))

	got, err := nav.Navigate(ctx, PathRegisterCourse)
	require.NoError(t, err)
	assert.Equal(t, PathRegisterCourse, got)
	assert.Equal(t, PathRegisterCourse, nav.Current())
}

func TestRoleMismatchGoesToOwnDashboard(t *testing.T) {
	nav, sessions := newNavigator(t)
	ctx := context.Background()

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleStudent}))
	got, err := nav.Navigate(ctx, PathAddCourse)
	require.NoError(t, err)
	assert.Equal(t, PathUserDashboard, got)

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleAdmin}))
	got, err = nav.Navigate(ctx, PathUserProfile)
	require.NoError(t, err)
	assert.Equal(t, PathAdminDashboard, got)
}

func TestAfterLoginAndLogout(t *testing.T) {
	nav, sessions := newNavigator(t)
	ctx := context.Background()

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleAdmin}))
	got, err := nav.AfterLogin(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, PathAdminDashboard, got)

	got, err = nav.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, PathLogin, got)

	s, err := sessions.Read(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestUnknownScreen(t *testing.T) {
	nav, _ := newNavigator(t)
	_, err := nav.Navigate(context.Background(), "/nowhere")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, PathLogin, nav.Current())
}

func TestWatchRedirectsWhenLoggedOutElsewhere(t *testing.T) {
	nav, sessions := newNavigator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleStudent}))
	_, err := nav.Navigate(ctx, PathUserDashboard)
	require.NoError(t, err)

	redirects := make(chan string, 1)
	go func() { _ = nav.Watch(ctx, func(path string) { redirects <- path }) }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, sessions.Clear(context.Background()))

	select {
	case path := <-redirects:
		assert.Equal(t, PathLogin, path)
		assert.Equal(t, PathLogin, nav.Current())
	case <-time.After(2 * time.Second):
		t.Fatal("expected redirect after logout")
	}
}
