package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/listing"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type courseAdminAPI interface {
	AdminCourses(ctx context.Context) (*models.AdminCoursesResponse, error)
	AddCourse(ctx context.Context, in models.CourseInput) error
	EditCourse(ctx context.Context, id models.ID, in models.CourseInput) error
	DeleteCourse(ctx context.Context, id models.ID) error
}

// CourseAdminService backs the admin dashboard and the add/edit course screens.
type CourseAdminService struct {
	api       courseAdminAPI
	nav       navigator
	validator *form.Validator
	cfg       FormConfig
	logger    *zap.Logger
	list      *listing.Controller[models.Course]

	mu    sync.RWMutex
	admin *models.AdminDetails
}

// NewCourseAdminService constructs the service.
func NewCourseAdminService(api courseAdminAPI, nav navigator, confirmer listing.Confirmer, validate *form.Validator, cfg FormConfig, logger *zap.Logger) *CourseAdminService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CourseAdminService{api: api, nav: nav, validator: validate, cfg: cfg, logger: logger}
	svc.list = listing.New(svc.fetch, AdminCourseFields, confirmer, logger)
	return svc
}

func (s *CourseAdminService) fetch(ctx context.Context) ([]models.Course, error) {
	resp, err := s.api.AdminCourses(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.admin = resp.UserDetails
	s.mu.Unlock()
	return resp.Courses, nil
}

// Courses is the dashboard list.
func (s *CourseAdminService) Courses() *listing.Controller[models.Course] {
	return s.list
}

// Load fetches every course.
func (s *CourseAdminService) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Admin returns the administrator details delivered with the last load.
func (s *CourseAdminService) Admin() *models.AdminDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// Find looks a course up in the last loaded collection.
func (s *CourseAdminService) Find(id models.ID) (models.Course, bool) {
	for _, c := range s.list.All() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

// AddForm builds the add-course form. New courses always start with zero popularity.
func (s *CourseAdminService) AddForm() *form.Controller[models.CourseInput] {
	submit := func(ctx context.Context, in models.CourseInput) (form.Outcome, error) {
		in.ID = ""
		in.Name = strings.TrimSpace(in.Name)
		in.Popularity = 0
		if err := s.api.AddCourse(ctx, in); err != nil {
			return form.Outcome{}, err
		}
		s.logger.Info("course added", zap.String("name", in.Name))
		return form.Outcome{Message: "Course successfully added!", Next: navigation.PathAdminDashboard}, nil
	}
	return form.NewController("add-course", s.validator, submit, formOptions(s.nav, s.cfg, s.logger))
}

// EditForm builds the edit-course form prefilled with course.
func (s *CourseAdminService) EditForm(course models.Course) *form.Controller[models.CourseInput] {
	submit := func(ctx context.Context, in models.CourseInput) (form.Outcome, error) {
		in.ID = course.ID
		in.Name = strings.TrimSpace(in.Name)
		if err := s.api.EditCourse(ctx, course.ID, in); err != nil {
			return form.Outcome{}, err
		}
		s.logger.Info("course updated", zap.String("id", course.ID.String()))
		return form.Outcome{Message: "Course successfully updated!", Next: navigation.PathAdminDashboard}, nil
	}
	f := form.NewController("edit-course", s.validator, submit, formOptions(s.nav, s.cfg, s.logger))
	_ = f.Edit(models.CourseInput{
		ID:         course.ID,
		Name:       course.Name,
		Category:   course.Category,
		Level:      int(course.Level),
		Popularity: int(course.Popularity),
	})
	return f
}

// Add submits a new course.
func (s *CourseAdminService) Add(ctx context.Context, in models.CourseInput) (form.Outcome, error) {
	f := s.AddForm()
	if err := f.Edit(in); err != nil {
		return form.Outcome{}, err
	}
	return f.Submit(ctx)
}

// Edit updates course with the values in in.
func (s *CourseAdminService) Edit(ctx context.Context, course models.Course, in models.CourseInput) (form.Outcome, error) {
	f := s.EditForm(course)
	if err := f.Edit(in); err != nil {
		return form.Outcome{}, err
	}
	return f.Submit(ctx)
}

// Delete removes course after confirmation and reloads the list.
func (s *CourseAdminService) Delete(ctx context.Context, course models.Course) error {
	if course.ID == "" {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	prompt := fmt.Sprintf("Are you sure you want to delete the course: %s?", course.Name)
	return s.list.Mutate(ctx, prompt, func(ctx context.Context) error {
		return s.api.DeleteCourse(ctx, course.ID)
	})
}
