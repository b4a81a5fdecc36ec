package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/listing"
	"github.com/noah-isme/educonnect/internal/models"
)

type catalogAPI interface {
	UnenrolledCourses(ctx context.Context) ([]models.Course, error)
	EnrollCourse(ctx context.Context, req models.EnrollRequest) (*models.MessageResponse, error)
}

// CatalogService backs the register-course screen: the courses a student can still join.
type CatalogService struct {
	api    catalogAPI
	list   *listing.Controller[models.Course]
	logger *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(api catalogAPI, confirmer listing.Confirmer, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		api:    api,
		list:   listing.New(api.UnenrolledCourses, CatalogCourseFields, confirmer, logger),
		logger: logger,
	}
}

// Courses is the catalog list.
func (s *CatalogService) Courses() *listing.Controller[models.Course] {
	return s.list
}

// Load fetches the unenrolled courses.
func (s *CatalogService) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Find looks a course up in the last loaded catalog.
func (s *CatalogService) Find(id models.ID) (models.Course, bool) {
	for _, c := range s.list.All() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

// Enroll asks for confirmation, enrolls and reloads the catalog. It returns
// the backend's acknowledgement.
func (s *CatalogService) Enroll(ctx context.Context, course models.Course) (string, error) {
	var message string
	prompt := fmt.Sprintf("Are you sure you want to enroll in %s?", course.Name)
	err := s.list.Mutate(ctx, prompt, func(ctx context.Context) error {
		resp, err := s.api.EnrollCourse(ctx, models.EnrollRequest{CourseID: course.ID, CourseName: course.Name})
		if err != nil {
			return err
		}
		if resp != nil {
			message = resp.Message
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "Successfully enrolled in " + course.Name
	}
	s.logger.Info("enrolled", zap.String("course_id", course.ID.String()))
	return message, nil
}
