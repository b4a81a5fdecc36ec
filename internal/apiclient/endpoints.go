package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/educonnect/internal/models"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/login", endpoint: "/login", json: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRegistrationOTP asks the backend to mail a registration code.
func (c *Client) SendRegistrationOTP(ctx context.Context, email string) (*models.OTPResponse, error) {
	return c.sendOTP(ctx, "/send-otp", email)
}

// SendPasswordResetOTP asks the backend to mail a password reset code.
func (c *Client) SendPasswordResetOTP(ctx context.Context, email string) (*models.OTPResponse, error) {
	return c.sendOTP(ctx, "/new-password-send-otp", email)
}

func (c *Client) sendOTP(ctx context.Context, path, email string) (*models.OTPResponse, error) {
	var out models.OTPResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: path, endpoint: path, json: models.OTPRequest{Email: email}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP checks a code server-side and returns a verification token on success.
func (c *Client) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
	var out models.VerifyOTPResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/verify-otp", endpoint: "/verify-otp", json: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a student account. The profile picture travels as a multipart file.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	body := &multipartBody{
		fields: []formField{
			{name: "name", value: req.Name},
			{name: "email", value: req.Email},
			{name: "password", value: req.Password},
			{name: "semester", value: strconv.Itoa(req.Semester)},
		},
		files: map[string]*models.Attachment{"profilePic": req.ProfilePic},
	}
	if req.VerificationToken != "" {
		body.fields = append(body.fields, formField{name: "verificationToken", value: req.VerificationToken})
	}
	var out models.MessageResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/register", endpoint: "/register", form: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password after the OTP gate has passed.
func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/reset-password", endpoint: "/reset-password", json: req}, nil)
}

// AdminCourses lists every course together with the administrator's details.
func (c *Client) AdminCourses(ctx context.Context) (*models.AdminCoursesResponse, error) {
	var out models.AdminCoursesResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/courses", endpoint: "/admin/courses", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCourse creates a course.
func (c *Client) AddCourse(ctx context.Context, in models.CourseInput) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/admin/add-courses", endpoint: "/admin/add-courses", auth: true, json: in}, nil)
}

// EditCourse replaces a course's fields.
func (c *Client) EditCourse(ctx context.Context, id models.ID, in models.CourseInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/admin/edit-courses/" + url.PathEscape(id.String()),
		endpoint: "/admin/edit-courses/:id",
		auth:     true,
		json:     in,
	}, nil)
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/admin/delete-courses/" + url.PathEscape(id.String()),
		endpoint: "/admin/delete-courses/:id",
		auth:     true,
	}, nil)
}

// UnenrolledCourses lists the catalog courses the student has not joined.
func (c *Client) UnenrolledCourses(ctx context.Context) ([]models.Course, error) {
	var out models.CourseListResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/user/get-unenrolled-courses", endpoint: "/user/get-unenrolled-courses", auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// EnrollCourse enrolls the student in a course.
func (c *Client) EnrollCourse(ctx context.Context, req models.EnrollRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/user/enroll-course", endpoint: "/user/enroll-course", auth: true, json: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrolledCourses lists the student's enrollments.
func (c *Client) EnrolledCourses(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := c.do(ctx, call{method: http.MethodGet, path: "/user/enrolled-courses", endpoint: "/user/enrolled-courses", auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unenroll removes an enrollment.
func (c *Client) Unenroll(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/user/unenroll-course/" + url.PathEscape(id.String()),
		endpoint: "/user/unenroll-course/:id",
		auth:     true,
	}, nil)
}

// UserDetails fetches the profile shown in the app bar and profile screen.
func (c *Client) UserDetails(ctx context.Context) (*models.UserProfile, error) {
	var out models.ProfileResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/appbar-userdetails", endpoint: "/appbar-userdetails", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateProfile sends the editable profile fields, plus a new image when attached.
func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) error {
	body := &multipartBody{
		fields: []formField{
			{name: "name", value: in.Name},
			{name: "email", value: in.Email},
			{name: "semester", value: strconv.Itoa(in.Semester)},
		},
	}
	if in.Image != nil {
		body.files = map[string]*models.Attachment{"image": in.Image}
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/user/update-profile", endpoint: "/user/update-profile", auth: true, form: body}, nil)
}
