package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/session"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
	"github.com/noah-isme/educonnect/pkg/middleware/requestid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Manager, *metrics.MetricsService) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions := session.NewManager(session.NewMemoryStore(), nil)
	m := metrics.NewMetricsService()
	return New(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, nil, sessions, m, nil), sessions, m
}

func TestLoginOmitsBearerAndDecodesToken(t *testing.T) {
	client, sessions, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(requestid.HeaderKey))

		var body models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body.Email)
		assert.Equal(t, models.RoleStudent, body.Role)

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	require.NoError(t, sessions.Write(context.Background(), models.Session{Token: "stale", Role: models.RoleStudent}))

	resp, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "x", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
}

func TestBearerIsReadFreshOnEveryCall(t *testing.T) {
	var seen []string
	client, sessions, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"courses": []interface{}{}})
	})
	ctx := context.Background()

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "first", Role: models.RoleStudent}))
	_, err := client.UnenrolledCourses(ctx)
	require.NoError(t, err)

	require.NoError(t, sessions.Write(ctx, models.Session{Token: "second", Role: models.RoleStudent}))
	_, err = client.UnenrolledCourses(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestAuthenticatedCallWithoutTokenNeverLeavesTheClient(t *testing.T) {
	called := false
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.AdminCourses(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
	assert.False(t, called)
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"Email already registered"}`, code: appErrors.ErrValidation.Code, message: "Email already registered"},
		{name: "error field", status: http.StatusConflict, body: `{"error":"Already enrolled"}`, code: appErrors.ErrConflict.Code, message: "Already enrolled"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, code: appErrors.ErrUnauthenticated.Code, message: appErrors.ErrUnauthenticated.Message},
		{name: "forbidden", status: http.StatusForbidden, body: `not json`, code: appErrors.ErrForbidden.Code, message: appErrors.ErrForbidden.Message},
		{name: "server error", status: http.StatusInternalServerError, body: ``, code: appErrors.ErrBackend.Code, message: appErrors.ErrBackend.Message},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			err := client.ResetPassword(context.Background(), models.ResetPasswordRequest{Email: "a@b.co", NewPassword: "Abcdefg1"})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestTransportFailureIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := metrics.NewMetricsService()
	client := New(Config{BaseURL: url, Timeout: time.Second}, nil, nil, m, nil)
	_, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "x", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
	assert.Equal(t, metrics.Snapshot{APICalls: 1, APIErrors: 1}, m.Snapshot())
}

func TestRegisterSendsMultipart(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ada", r.FormValue("name"))
		assert.Equal(t, "ada@example.com", r.FormValue("email"))
		assert.Equal(t, "Abcdefg1", r.FormValue("password"))
		assert.Equal(t, "2", r.FormValue("semester"))
		assert.Equal(t, "vt-1", r.FormValue("verificationToken"))

		file, header, err := r.FormFile("profilePic")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Registered"})
	})

	resp, err := client.Register(context.Background(), models.RegisterRequest{
		Name:              "Ada",
		Email:             "ada@example.com",
		Password:          "Abcdefg1",
		Semester:          2,
		ProfilePic:        &models.Attachment{FileName: "me.png", Content: strings.NewReader("png-bytes")},
		VerificationToken: "vt-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Registered", resp.Message)
}

func TestUpdateProfileWithoutImage(t *testing.T) {
	client, sessions, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Grace", r.FormValue("name"))
		assert.Equal(t, "3", r.FormValue("semester"))
		_, _, err := r.FormFile("image")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, sessions.Write(context.Background(), models.Session{Token: "tok", Role: models.RoleStudent}))

	err := client.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "Grace", Email: "g@h.io", Semester: 3})
	require.NoError(t, err)
}

func TestCourseEndpointsUseIDInPath(t *testing.T) {
	var calls []string
	client, sessions, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/admin/courses":
			_, _ = io.WriteString(w, `{"courses":[{"courseid":7,"coursename":"Algebra","category":"Mathematics","level":"2","popularity":10}],"userDetails":{"name":"Root","email":"root@x.io"}}`)
		case "/user/enrolled-courses":
			_, _ = io.WriteString(w, `[{"enrollid":3,"coursename":"Algebra","category":"Mathematics","level":2}]`)
		case "/appbar-userdetails":
			_, _ = io.WriteString(w, `{"data":{"name":"Ada","email":"ada@example.com","semester":"1","profile_picture_url":"http://x/p.png"}}`)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	ctx := context.Background()
	require.NoError(t, sessions.Write(ctx, models.Session{Token: "tok", Role: models.RoleAdmin}))

	courses, err := client.AdminCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses.Courses, 1)
	assert.Equal(t, models.ID("7"), courses.Courses[0].ID)
	assert.Equal(t, models.Number(2), courses.Courses[0].Level)
	assert.Equal(t, "Root", courses.UserDetails.Name)

	require.NoError(t, client.EditCourse(ctx, "7", models.CourseInput{Name: "Algebra II", Category: models.CategoryMathematics, Level: 3}))
	require.NoError(t, client.DeleteCourse(ctx, "7"))
	require.NoError(t, client.Unenroll(ctx, "3"))

	enrolled, err := client.EnrolledCourses(ctx)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, models.ID("3"), enrolled[0].ID)

	profile, err := client.UserDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Number(1), profile.Semester)

	assert.Equal(t, []string{
		"GET /admin/courses",
		"PUT /admin/edit-courses/7",
		"DELETE /admin/delete-courses/7",
		"DELETE /user/unenroll-course/3",
		"GET /user/enrolled-courses",
		"GET /appbar-userdetails",
	}, calls)
}
