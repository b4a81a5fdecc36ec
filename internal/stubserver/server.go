// Package stubserver is an in-memory implementation of the EduConnect backend
// contract for local runs and tests. It is not a production backend.
package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/middleware"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/pkg/config"
	"github.com/noah-isme/educonnect/pkg/logger"
	"github.com/noah-isme/educonnect/pkg/middleware/cors"
	"github.com/noah-isme/educonnect/pkg/middleware/requestid"
)

// Config tunes the stub backend.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
	// OTPMode legacy returns codes from the send endpoints and does not demand
	// a verification token on register/reset.
	OTPMode string
	// AllowedOrigins may call the stub from a browser; empty allows any.
	AllowedOrigins []string
}

// Server wires handlers onto a gin engine.
type Server struct {
	cfg       Config
	store     *memoryStore
	tokens    *middleware.Tokens
	validator *form.Validator
	metrics   *metrics.MetricsService
	logger    *zap.Logger
	engine    *gin.Engine
}

// New builds the server and its routes.
func New(cfg Config, metricsSvc *metrics.MetricsService, logr *zap.Logger) *Server {
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.OTPMode != config.OTPModeLegacy {
		cfg.OTPMode = config.OTPModeServer
	}
	s := &Server{
		cfg:       cfg,
		store:     newMemoryStore(cfg.OTPTTL),
		tokens:    middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		validator: form.NewValidator(),
		metrics:   metricsSvc,
		logger:    logr,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(s.logger))
	r.Use(cors.New(s.cfg.AllowedOrigins))
	r.Use(middleware.Metrics(s.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.GET("/uploads/:key", s.serveUpload)

	r.POST("/login", s.login)
	r.POST("/send-otp", s.sendOTP(models.OTPPurposeRegister))
	r.POST("/new-password-send-otp", s.sendOTP(models.OTPPurposeResetPassword))
	r.POST("/verify-otp", s.verifyOTP)
	r.POST("/register", s.register)
	r.POST("/reset-password", s.resetPassword)

	authed := r.Group("/")
	authed.Use(middleware.JWT(s.tokens))
	authed.GET("/appbar-userdetails", s.userDetails)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(string(models.RoleAdmin)))
	admin.GET("/courses", s.adminCourses)
	admin.POST("/add-courses", s.addCourse)
	admin.PUT("/edit-courses/:id", s.editCourse)
	admin.DELETE("/delete-courses/:id", s.deleteCourse)

	user := authed.Group("/user")
	user.Use(middleware.RequireRoles(string(models.RoleStudent)))
	user.GET("/get-unenrolled-courses", s.unenrolledCourses)
	user.POST("/enroll-course", s.enrollCourse)
	user.GET("/enrolled-courses", s.enrolledCourses)
	user.DELETE("/unenroll-course/:id", s.unenroll)
	user.POST("/update-profile", s.updateProfile)

	return r
}

// SeedAdmin creates an administrator account.
func (s *Server) SeedAdmin(name, email, password string) error {
	return s.store.createAccount(account{Name: name, Email: email, Role: models.RoleAdmin}, password)
}

// SeedStudent creates a student account without going through OTP.
func (s *Server) SeedStudent(name, email, password string, semester int) error {
	return s.store.createAccount(account{Name: name, Email: email, Role: models.RoleStudent, Semester: semester}, password)
}

// SeedCourse adds a course directly.
func (s *Server) SeedCourse(in models.CourseInput) models.Course {
	return s.store.addCourse(in)
}

// PendingOTP returns the outstanding code for email, standing in for the
// mailbox the real backend would deliver to.
func (s *Server) PendingOTP(email string, purpose models.OTPPurpose) (string, bool) {
	return s.store.pendingOTP(email, purpose)
}

// SeedDemo loads a small catalog and two accounts for local runs.
func (s *Server) SeedDemo() error {
	if err := s.SeedAdmin("Admin", "admin@educonnect.dev", "Admin123"); err != nil {
		return err
	}
	if err := s.SeedStudent("Student", "student@educonnect.dev", "Student123", 1); err != nil {
		return err
	}
	for _, c := range []models.CourseInput{
		{Name: "World History", Category: models.CategoryHistory, Level: 1},
		{Name: "Macroeconomics", Category: models.CategoryEconomics, Level: 2},
		{Name: "Linear Algebra", Category: models.CategoryMathematics, Level: 2},
		{Name: "Algorithms", Category: models.CategoryScience, Level: 3},
		{Name: "Modern Poetry", Category: models.CategoryLiterature, Level: 1},
		{Name: "Calculus", Category: models.CategoryMathematics, Level: 1},
	} {
		s.SeedCourse(c)
	}
	return nil
}
