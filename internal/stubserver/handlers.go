package stubserver

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/middleware"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/pkg/config"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
	"github.com/noah-isme/educonnect/pkg/response"
)

const maxUpload = 5 << 20

func badRequest(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badRequest("invalid login payload"))
		return
	}
	acct, err := s.store.authenticate(req.Email, req.Password, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	token, err := s.tokens.Issue(acct.Email, string(acct.Role))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token"))
		return
	}
	response.JSON(c, http.StatusOK, models.LoginResponse{Token: token, Message: "Login successful"})
}

func (s *Server) sendOTP(purpose models.OTPPurpose) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, badRequest("invalid payload"))
			return
		}
		if err := s.validator.Struct(req); err != nil {
			response.Error(c, badRequest("Email is not valid."))
			return
		}
		_, exists := s.store.account(req.Email)
		if purpose == models.OTPPurposeRegister && exists {
			response.Error(c, appErrors.Clone(appErrors.ErrConflict, "Email already exists."))
			return
		}
		if purpose == models.OTPPurposeResetPassword && !exists {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "User not found"))
			return
		}

		code := s.store.issueOTP(req.Email, purpose)
		s.logger.Info("otp issued", zap.String("email", req.Email), zap.String("purpose", string(purpose)), zap.String("otp", code))

		out := models.OTPResponse{Message: "OTP sent to your email"}
		if s.cfg.OTPMode == config.OTPModeLegacy {
			out.OTP = code
		}
		response.JSON(c, http.StatusOK, out)
	}
}

func (s *Server) verifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badRequest("invalid payload"))
		return
	}
	token, ok := s.store.verifyOTP(req.Email, req.Purpose, strings.TrimSpace(req.OTP))
	if !ok {
		response.JSON(c, http.StatusOK, models.VerifyOTPResponse{Verified: false, Message: "Invalid or expired OTP"})
		return
	}
	response.JSON(c, http.StatusOK, models.VerifyOTPResponse{Verified: true, VerificationToken: token})
}

// verified checks the proof token unless the server runs in legacy mode.
func (s *Server) verified(token, email string, purpose models.OTPPurpose) bool {
	if s.cfg.OTPMode == config.OTPModeLegacy {
		return true
	}
	return s.store.consumeVerification(token, email, purpose)
}

func (s *Server) register(c *gin.Context) {
	semester, _ := strconv.Atoi(c.PostForm("semester"))
	req := models.RegisterRequest{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
		Semester: semester,
	}
	picture, err := readUpload(c, "profilePic")
	if err != nil {
		response.Error(c, err)
		return
	}
	if picture == nil {
		response.Error(c, badRequest("Please upload a profile picture."))
		return
	}
	req.ProfilePic = &models.Attachment{FileName: picture.Name}
	if err := s.validator.Struct(req); err != nil {
		response.Error(c, err)
		return
	}
	if !s.verified(c.PostForm("verificationToken"), req.Email, models.OTPPurposeRegister) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Email has not been verified"))
		return
	}

	key := s.store.saveUpload(picture.Name, picture.Content)
	err = s.store.createAccount(account{
		Name:     req.Name,
		Email:    req.Email,
		Role:     models.RoleStudent,
		Semester: req.Semester,
		Picture:  "/uploads/" + key,
	}, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "User registered successfully")
}

func (s *Server) resetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badRequest("invalid payload"))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		response.Error(c, err)
		return
	}
	if !s.verified(req.VerificationToken, req.Email, models.OTPPurposeResetPassword) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Email has not been verified"))
		return
	}
	if err := s.store.setPassword(req.Email, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password reset successfully")
}

func (s *Server) userDetails(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	acct, ok := s.store.account(claims.Email)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "User not found"))
		return
	}
	response.JSON(c, http.StatusOK, models.ProfileResponse{Data: profileOf(acct)})
}

func profileOf(a account) models.UserProfile {
	return models.UserProfile{
		Name:              a.Name,
		Email:             a.Email,
		Semester:          models.Number(a.Semester),
		ProfilePictureURL: a.Picture,
	}
}

func (s *Server) updateProfile(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	semester, _ := strconv.Atoi(c.PostForm("semester"))
	in := models.ProfileUpdate{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Semester: semester,
	}
	if err := s.validator.Struct(in); err != nil {
		response.Error(c, err)
		return
	}
	if normalizeEmail(in.Email) != normalizeEmail(claims.Email) {
		response.Error(c, badRequest("Email cannot be changed"))
		return
	}
	image, err := readUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	var picture string
	if image != nil {
		picture = "/uploads/" + s.store.saveUpload(image.Name, image.Content)
	}
	err = s.store.updateAccount(claims.Email, func(a *account) {
		a.Name = in.Name
		a.Semester = in.Semester
		if picture != "" {
			a.Picture = picture
		}
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Profile updated successfully")
}

func (s *Server) serveUpload(c *gin.Context) {
	u, ok := s.store.upload(c.Param("key"))
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(u.Content), u.Content)
}

func readUpload(c *gin.Context, field string) (*upload, error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("invalid " + field + " upload")
	}
	if header.Size > maxUpload {
		return nil, badRequest(field + " is too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, badRequest("invalid " + field + " upload")
	}
	defer f.Close() //nolint:errcheck
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, badRequest("invalid " + field + " upload")
	}
	return &upload{Name: header.Filename, Content: content}, nil
}

func (s *Server) adminCourses(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	details := &models.AdminDetails{Email: claims.Email}
	if acct, ok := s.store.account(claims.Email); ok {
		details.Name = acct.Name
	}
	response.JSON(c, http.StatusOK, models.AdminCoursesResponse{Courses: s.store.listCourses(), UserDetails: details})
}

func (s *Server) bindCourse(c *gin.Context) (models.CourseInput, bool) {
	var in models.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, badRequest("invalid course payload"))
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		response.Error(c, appErrors.Clone(appErrors.FromError(err), "Please fill in all fields."))
		return in, false
	}
	return in, true
}

func (s *Server) addCourse(c *gin.Context) {
	in, ok := s.bindCourse(c)
	if !ok {
		return
	}
	course := s.store.addCourse(in)
	response.JSON(c, http.StatusCreated, gin.H{"message": "Course added successfully", "course": course})
}

func (s *Server) editCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := s.bindCourse(c)
	if !ok {
		return
	}
	if err := s.store.editCourse(id, in); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course updated successfully")
}

func (s *Server) deleteCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.deleteCourse(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course deleted successfully")
}

func (s *Server) unenrolledCourses(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	response.JSON(c, http.StatusOK, models.CourseListResponse{Courses: s.store.unenrolledCourses(claims.Email)})
}

func (s *Server) enrollCourse(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badRequest("invalid enroll payload"))
		return
	}
	id, err := strconv.Atoi(req.CourseID.String())
	if err != nil {
		response.Error(c, badRequest("invalid course id"))
		return
	}
	course, err := s.store.enroll(claims.Email, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully enrolled in "+course.Name)
}

func (s *Server) enrolledCourses(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	response.JSON(c, http.StatusOK, s.store.enrolledCourses(claims.Email))
}

func (s *Server) unenroll(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.unenroll(claims.Email, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully unenrolled from the course")
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, badRequest("invalid id"))
		return 0, false
	}
	return id, true
}
