package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/noah-isme/educonnect/internal/listing"
	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// fakeAPI is an in-memory backend satisfying every service's API interface.
type fakeAPI struct {
	mu sync.Mutex

	courses     []models.Course
	enrollments []models.Enrollment
	profile     models.UserProfile
	otp         string
	token       string

	added      []models.CourseInput
	edited     map[models.ID]models.CourseInput
	deleted    []models.ID
	enrolled   []models.EnrollRequest
	unenrolled []models.ID
	registered []models.RegisterRequest
	resets     []models.ResetPasswordRequest
	updates    []models.ProfileUpdate
	logins     []models.LoginRequest

	failWith error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		courses: []models.Course{
			{ID: "1", Name: "Ancient Rome", Category: models.CategoryHistory, Level: 1, Popularity: 4},
			{ID: "2", Name: "Microeconomics", Category: models.CategoryEconomics, Level: 2, Popularity: 9},
			{ID: "3", Name: "Data Science", Category: models.CategoryScience, Level: 3, Popularity: 12},
		},
		enrollments: []models.Enrollment{
			{ID: "10", CourseID: "9", Name: "Poetry", Category: models.CategoryLiterature, Level: 1},
		},
		profile: models.UserProfile{Name: "Ada", Email: "ada@example.com", Semester: 2},
		otp:     "1234",
		token:   "tok-1",
		edited:  map[models.ID]models.CourseInput{},
	}
}

func (f *fakeAPI) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, req)
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &models.LoginResponse{Token: f.token}, nil
}

func (f *fakeAPI) SendRegistrationOTP(context.Context, string) (*models.OTPResponse, error) {
	return &models.OTPResponse{OTP: f.otp}, nil
}

func (f *fakeAPI) SendPasswordResetOTP(context.Context, string) (*models.OTPResponse, error) {
	return &models.OTPResponse{OTP: f.otp}, nil
}

func (f *fakeAPI) VerifyOTP(_ context.Context, req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
	if req.OTP != f.otp {
		return &models.VerifyOTPResponse{Verified: false}, nil
	}
	return &models.VerifyOTPResponse{Verified: true, VerificationToken: "vt"}, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.registered = append(f.registered, req)
	return &models.MessageResponse{Message: "ok"}, nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, req models.ResetPasswordRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, req)
	return nil
}

func (f *fakeAPI) AdminCourses(context.Context) (*models.AdminCoursesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.AdminCoursesResponse{
		Courses:     append([]models.Course(nil), f.courses...),
		UserDetails: &models.AdminDetails{Name: "Root", Email: "root@example.com"},
	}, nil
}

func (f *fakeAPI) AddCourse(_ context.Context, in models.CourseInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.added = append(f.added, in)
	f.courses = append(f.courses, models.Course{
		ID:       models.ID(strconv.Itoa(100 + len(f.added))),
		Name:     in.Name,
		Category: in.Category,
		Level:    models.Number(in.Level),
	})
	return nil
}

func (f *fakeAPI) EditCourse(_ context.Context, id models.ID, in models.CourseInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited[id] = in
	return nil
}

func (f *fakeAPI) DeleteCourse(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.deleted = append(f.deleted, id)
	f.courses = removeCourse(f.courses, id)
	return nil
}

func (f *fakeAPI) UnenrolledCourses(context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Course(nil), f.courses...), nil
}

func (f *fakeAPI) EnrollCourse(_ context.Context, req models.EnrollRequest) (*models.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.enrolled = append(f.enrolled, req)
	f.courses = removeCourse(f.courses, req.CourseID)
	return &models.MessageResponse{Message: "Enrolled in " + req.CourseName}, nil
}

func (f *fakeAPI) EnrolledCourses(context.Context) ([]models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Enrollment(nil), f.enrollments...), nil
}

func (f *fakeAPI) Unenroll(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unenrolled = append(f.unenrolled, id)
	kept := f.enrollments[:0]
	for _, e := range f.enrollments {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.enrollments = kept
	return nil
}

func (f *fakeAPI) UserDetails(context.Context) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	return &p, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, in models.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	f.profile.Name = in.Name
	f.profile.Semester = models.Number(in.Semester)
	return nil
}

func removeCourse(courses []models.Course, id models.ID) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// fakeNav records navigation instead of guarding it.
type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNav) Goto(_ context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return nil
}

func (n *fakeNav) AfterLogin(ctx context.Context, role models.Role) (string, error) {
	path := "/user-dashboard"
	if role == models.RoleAdmin {
		path = "/admin-dashboard"
	}
	return path, n.Goto(ctx, path)
}

func (n *fakeNav) Logout(ctx context.Context) (string, error) {
	return "/", n.Goto(ctx, "/")
}

func (n *fakeNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// scriptedConfirmer answers prompts in order and records them.
type scriptedConfirmer struct {
	answers []bool
	prompts []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

var _ listing.Confirmer = (*scriptedConfirmer)(nil)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

func (s *sleepRecorder) config(d time.Duration) FormConfig {
	return FormConfig{RedirectDelay: d, Sleep: s.sleep}
}

var errBoom = appErrors.FromStatus(500, "database unavailable")
