package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpDigits  = regexp.MustCompile(`^[0-9]{4}$`)
)

// PasswordMinLength is the length rule of the strength score.
const PasswordMinLength = 8

// RequiredPasswordScore is the score registration and password reset demand.
const RequiredPasswordScore = 3

// ValidEmail reports whether email has a local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// PasswordStrength counts the satisfied rules among length, an ASCII
// uppercase letter and an ASCII digit.
func PasswordStrength(password string) int {
	score := 0
	if len([]rune(password)) >= PasswordMinLength {
		score++
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if upper {
		score++
	}
	if digit {
		score++
	}
	return score
}

// ValidRegistrationOTP reports whether code is exactly four digits.
func ValidRegistrationOTP(code string) bool {
	return otpDigits.MatchString(code)
}

// Validator wraps the go-playground validator with the form-specific tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers email_shape, password_strength and course_category.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return PasswordStrength(fl.Field().String()) >= RequiredPasswordScore
	})
	_ = v.RegisterValidation("course_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a validation error carrying per-field messages.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid form")
	}
	return appErrors.Validation("please correct the highlighted fields", FormatValidationErrors(verrs))
}

// FormatValidationErrors converts validator errors into field -> message pairs.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", e.Field())
		case "email", "email_shape":
			out[field] = "Please enter a valid email address"
		case "password_strength":
			out[field] = "Password must be at least 8 characters long and contain an uppercase letter and a number"
		case "course_category":
			out[field] = "Please select a valid category"
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}
	return out
}
