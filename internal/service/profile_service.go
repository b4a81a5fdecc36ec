package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type profileAPI interface {
	UserDetails(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, in models.ProfileUpdate) error
}

// ProfileService backs the user-profile screen.
type ProfileService struct {
	api       profileAPI
	validator *form.Validator
	logger    *zap.Logger

	mu      sync.RWMutex
	profile *models.UserProfile
}

// NewProfileService constructs the service.
func NewProfileService(api profileAPI, validate *form.Validator, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{api: api, validator: validate, logger: logger}
}

// Load fetches the current profile.
func (s *ProfileService) Load(ctx context.Context) (*models.UserProfile, error) {
	profile, err := s.api.UserDetails(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	out := *profile
	return &out, nil
}

// ProfileEdit holds the editable fields. Email is not among them.
type ProfileEdit struct {
	Name     string
	Semester int
	Image    *models.Attachment
}

// UpdateForm builds the profile form. The email of the loaded profile is
// always sent back unchanged.
func (s *ProfileService) UpdateForm() (*form.Controller[models.ProfileUpdate], error) {
	s.mu.RLock()
	profile := s.profile
	s.mu.RUnlock()
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "load the profile before editing it")
	}
	email := profile.Email

	submit := func(ctx context.Context, in models.ProfileUpdate) (form.Outcome, error) {
		in.Email = email
		in.Name = strings.TrimSpace(in.Name)
		if err := s.api.UpdateProfile(ctx, in); err != nil {
			return form.Outcome{}, err
		}
		if _, err := s.Load(ctx); err != nil {
			s.logger.Warn("profile reload failed", zap.Error(err))
		}
		return form.Outcome{Message: "Profile updated successfully"}, nil
	}
	f := form.NewController("user-profile", s.validator, submit, form.Options{Logger: s.logger})
	_ = f.Edit(models.ProfileUpdate{Name: profile.Name, Email: email, Semester: int(profile.Semester)})
	return f, nil
}

// Update applies edit to the loaded profile.
func (s *ProfileService) Update(ctx context.Context, edit ProfileEdit) (form.Outcome, error) {
	f, err := s.UpdateForm()
	if err != nil {
		return form.Outcome{}, err
	}
	current := f.Values()
	if edit.Name != "" {
		current.Name = edit.Name
	}
	if edit.Semester != 0 {
		current.Semester = edit.Semester
	}
	current.Image = edit.Image
	if err := f.Edit(current); err != nil {
		return form.Outcome{}, err
	}
	return f.Submit(ctx)
}
