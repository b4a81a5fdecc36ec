package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/educonnect/internal/metrics"
)

func newRouter(tokens *Tokens, m *metrics.MetricsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/admin", JWT(tokens), RequireRoles("admin"), func(c *gin.Context) {
		claims, _ := CurrentUser(c)
		c.String(http.StatusOK, claims.Email)
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestJWTAndRoles(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	r := newRouter(tokens, nil)

	rec := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", message(t, rec))

	rec = call(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	student, err := tokens.Issue("ada@example.com", "student")
	require.NoError(t, err)
	rec = call(r, student)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := tokens.Issue("root@example.com", "admin")
	require.NoError(t, err)
	rec = call(r, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root@example.com", rec.Body.String())
}

func TestTokensRejectForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokens("one", time.Hour)
	token, err := issuer.Issue("a@b.co", "admin")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).Validate(token)
	assert.Error(t, err)

	expired := NewTokens("one", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("a@b.co", "admin")
	require.NoError(t, err)
	_, err = issuer.Validate(old)
	assert.Error(t, err)
}

func TestMetricsMiddlewareRecords(t *testing.T) {
	m := metrics.NewMetricsService()
	r := newRouter(NewTokens("secret", time.Hour), m)
	call(r, "")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/admin",status="401"} 1`)
}

func TestMetricsMiddlewareCollapsesUnknownPaths(t *testing.T) {
	m := metrics.NewMetricsService()
	r := newRouter(NewTokens("secret", time.Hour), m)
	for _, path := range []string{"/nope", "/also/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 2`)
	assert.NotContains(t, body, "/also/nope")
}
