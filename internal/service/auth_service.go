package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/form"
	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/session"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type authAPI interface {
	form.OTPBackend
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

// AuthConfig tunes authentication flows.
type AuthConfig struct {
	OTPMode string
	Form    FormConfig
}

// AuthService handles login, logout, registration and password reset.
type AuthService struct {
	api       authAPI
	sessions  *session.Manager
	nav       navigator
	validator *form.Validator
	cfg       AuthConfig
	logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(api authAPI, sessions *session.Manager, nav navigator, validate *form.Validator, cfg AuthConfig, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{api: api, sessions: sessions, nav: nav, validator: validate, cfg: cfg, logger: logger}
}

// Login validates credentials locally, exchanges them for a token, stores
// the session and returns the dashboard the caller lands on.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", req.Email), zap.Error(err))
		return "", err
	}
	if resp.Token == "" {
		return "", appErrors.Clone(appErrors.ErrBackend, "login failed: the server did not issue a token")
	}

	if err := s.sessions.Write(ctx, models.Session{Token: resp.Token, Role: req.Role}); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	s.logger.Info("logged in", zap.String("role", string(req.Role)))

	if s.nav == nil {
		return navigation.DashboardFor(req.Role), nil
	}
	return s.nav.AfterLogin(ctx, req.Role)
}

// Logout clears the session.
func (s *AuthService) Logout(ctx context.Context) (string, error) {
	if s.nav == nil {
		if err := s.sessions.Clear(ctx); err != nil {
			return "", err
		}
		return navigation.PathLogin, nil
	}
	return s.nav.Logout(ctx)
}

// Session returns the stored session and, when the token is a JWT, its claims.
func (s *AuthService) Session(ctx context.Context) (models.Session, *models.TokenClaims, error) {
	current, err := s.sessions.Read(ctx)
	if err != nil {
		return models.Session{}, nil, err
	}
	if !current.Authenticated() {
		return current, nil, nil
	}
	claims, err := session.ParseClaims(current.Token)
	if err != nil {
		return current, nil, nil
	}
	return current, claims, nil
}

// Registration is one pass through the sign-up screen.
type Registration struct {
	otp  *form.OTPFlow
	form *form.Controller[models.RegisterRequest]
}

// NewRegistration starts a sign-up with a fresh OTP gate.
func (s *AuthService) NewRegistration() *Registration {
	flow := form.NewOTPFlow(s.api, s.cfg.OTPMode, models.OTPPurposeRegister, s.logger)
	submit := func(ctx context.Context, req models.RegisterRequest) (form.Outcome, error) {
		if !flow.Verified(req.Email) {
			return form.Outcome{}, appErrors.Validation("please verify your email first", map[string]string{"otp": "Verify the OTP sent to this email first"})
		}
		req.VerificationToken = flow.VerificationToken()
		if _, err := s.api.Register(ctx, req); err != nil {
			return form.Outcome{}, err
		}
		s.logger.Info("registered", zap.String("email", req.Email))
		return form.Outcome{Message: "Registration successful. Redirecting to login.", Next: navigation.PathLogin}, nil
	}
	return &Registration{
		otp:  flow,
		form: form.NewController("register", s.validator, submit, formOptions(s.nav, s.cfg.Form, s.logger)),
	}
}

// RequestCode sends a registration OTP to email.
func (r *Registration) RequestCode(ctx context.Context, email string) (*models.OTPChallenge, error) {
	return r.otp.RequestCode(ctx, email)
}

// VerifyCode passes the OTP gate.
func (r *Registration) VerifyCode(ctx context.Context, code string) error {
	_, err := r.otp.Verify(ctx, code)
	return err
}

// Submit sends the registration once the OTP gate has passed.
func (r *Registration) Submit(ctx context.Context, req models.RegisterRequest) (form.Outcome, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := r.form.Edit(req); err != nil {
		return form.Outcome{}, err
	}
	return r.form.Submit(ctx)
}

// Form exposes the form state.
func (r *Registration) Form() *form.Controller[models.RegisterRequest] {
	return r.form
}

// PasswordReset is one pass through the forgot-password screen.
type PasswordReset struct {
	otp  *form.OTPFlow
	form *form.Controller[models.ResetPasswordRequest]
}

// NewPasswordReset starts a forgot-password flow.
func (s *AuthService) NewPasswordReset() *PasswordReset {
	flow := form.NewOTPFlow(s.api, s.cfg.OTPMode, models.OTPPurposeResetPassword, s.logger)
	submit := func(ctx context.Context, req models.ResetPasswordRequest) (form.Outcome, error) {
		if !flow.Verified(req.Email) {
			return form.Outcome{}, appErrors.Validation("please verify your email first", map[string]string{"otp": "Verify the OTP sent to this email first"})
		}
		req.VerificationToken = flow.VerificationToken()
		if err := s.api.ResetPassword(ctx, req); err != nil {
			return form.Outcome{}, err
		}
		return form.Outcome{Message: "Password has been reset successfully. You can now log in with your new password.", Next: navigation.PathLogin}, nil
	}
	return &PasswordReset{
		otp:  flow,
		form: form.NewController("reset-password", s.validator, submit, formOptions(s.nav, s.cfg.Form, s.logger)),
	}
}

// RequestCode sends a password reset OTP to email.
func (p *PasswordReset) RequestCode(ctx context.Context, email string) (*models.OTPChallenge, error) {
	return p.otp.RequestCode(ctx, email)
}

// VerifyCode passes the OTP gate.
func (p *PasswordReset) VerifyCode(ctx context.Context, code string) error {
	_, err := p.otp.Verify(ctx, code)
	return err
}

// Submit sets the new password for the verified email.
func (p *PasswordReset) Submit(ctx context.Context, newPassword string) (form.Outcome, error) {
	if err := p.form.Edit(models.ResetPasswordRequest{Email: p.otp.Email(), NewPassword: newPassword}); err != nil {
		return form.Outcome{}, err
	}
	return p.form.Submit(ctx)
}

// Form exposes the form state.
func (p *PasswordReset) Form() *form.Controller[models.ResetPasswordRequest] {
	return p.form
}
