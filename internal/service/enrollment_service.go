package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/listing"
	"github.com/noah-isme/educonnect/internal/models"
)

type enrollmentAPI interface {
	EnrolledCourses(ctx context.Context) ([]models.Enrollment, error)
	Unenroll(ctx context.Context, id models.ID) error
}

// EnrollmentService backs the student dashboard.
type EnrollmentService struct {
	api    enrollmentAPI
	list   *listing.Controller[models.Enrollment]
	logger *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(api enrollmentAPI, confirmer listing.Confirmer, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		api:    api,
		list:   listing.New(api.EnrolledCourses, EnrollmentFields, confirmer, logger),
		logger: logger,
	}
}

// Enrollments is the dashboard list.
func (s *EnrollmentService) Enrollments() *listing.Controller[models.Enrollment] {
	return s.list
}

// Load fetches the student's enrollments.
func (s *EnrollmentService) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Find looks an enrollment up in the last loaded list.
func (s *EnrollmentService) Find(id models.ID) (models.Enrollment, bool) {
	for _, e := range s.list.All() {
		if e.ID == id {
			return e, true
		}
	}
	return models.Enrollment{}, false
}

// Unenroll asks for confirmation, removes the enrollment and reloads.
func (s *EnrollmentService) Unenroll(ctx context.Context, enrollment models.Enrollment) error {
	err := s.list.Mutate(ctx, "Are you sure you want to unenroll from this course?", func(ctx context.Context) error {
		return s.api.Unenroll(ctx, enrollment.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("unenrolled", zap.String("enroll_id", enrollment.ID.String()))
	return nil
}
