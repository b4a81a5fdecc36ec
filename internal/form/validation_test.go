package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

func TestPasswordStrength(t *testing.T) {
	cases := map[string]int{
		"":         0,
		"abc":      0,
		"short":    0,
		"abcdefgh": 1,
		"Abcdefgh": 2,
		"abcdefg1": 2,
		"Abcdefg1": 3,
		"A1":       2,
		"Ébcdefgh": 1,
		"Ébcdefg١": 1,
		"abcdefg٣": 1,
		"ÀBCDEFG1": 3,
	}
	for password, want := range cases {
		assert.Equal(t, want, PasswordStrength(password), password)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.True(t, ValidEmail("first.last@uni.ac.id"))
	assert.False(t, ValidEmail("user@"))
	assert.False(t, ValidEmail("plainstring"))
	assert.False(t, ValidEmail("user@example"))
	assert.False(t, ValidEmail("us er@example.com"))
}

func TestValidRegistrationOTP(t *testing.T) {
	assert.True(t, ValidRegistrationOTP("0420"))
	assert.False(t, ValidRegistrationOTP("123"))
	assert.False(t, ValidRegistrationOTP("12345"))
	assert.False(t, ValidRegistrationOTP("12a4"))
}

func TestValidatorFieldErrors(t *testing.T) {
	v := NewValidator()

	err := v.Struct(models.RegisterRequest{Name: "", Email: "user@", Password: "Abcdefgh", Semester: 0})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Name is required", appErr.Fields["name"])
	assert.Equal(t, "Please enter a valid email address", appErr.Fields["email"])
	assert.Contains(t, appErr.Fields["password"], "uppercase letter and a number")
	assert.Equal(t, "Semester is required", appErr.Fields["semester"])
	assert.Equal(t, "ProfilePic is required", appErr.Fields["profilepic"])
}

func TestValidatorCourseInput(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(models.CourseInput{Name: "Algorithms", Category: models.CategoryScience, Level: 2}))

	err := v.Struct(models.CourseInput{Name: "Algorithms", Category: "Cooking", Level: 5})
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "Please select a valid category", fields["category"])
	assert.Equal(t, "Level must be at most 4", fields["level"])
}

func TestValidatorProfileUpdateUsesEmailShape(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Struct(models.ProfileUpdate{Name: "Ada", Email: "first..last@uni.ac.id", Semester: 2}))

	err := v.Struct(models.ProfileUpdate{Name: "Ada", Email: "ada@", Semester: 2})
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email address", appErrors.FromError(err).Fields["email"])
}

func TestValidatorLoginOnlyNeedsPassword(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Struct(models.LoginRequest{Email: "a@b.co", Password: "x", Role: models.RoleAdmin}))

	err := v.Struct(models.LoginRequest{Email: "a@b.co", Password: "x", Role: "teacher"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields["role"], "admin student")
}
