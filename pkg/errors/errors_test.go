package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusMapsCodes(t *testing.T) {
	cases := map[int]string{
		http.StatusUnauthorized:        ErrUnauthenticated.Code,
		http.StatusForbidden:           ErrForbidden.Code,
		http.StatusNotFound:            ErrNotFound.Code,
		http.StatusConflict:            ErrConflict.Code,
		http.StatusUnprocessableEntity: ErrValidation.Code,
		http.StatusBadGateway:          ErrBackend.Code,
	}
	for status, code := range cases {
		e := FromStatus(status, "boom")
		assert.Equal(t, code, e.Code, "status %d", status)
		assert.Equal(t, status, e.Status)
		assert.Equal(t, "boom", e.Message)
	}
}

func TestClonedSentinelMatchesWithErrorsIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Clone(ErrCancelled, "user said no"))
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	e := FromError(errors.New("disk full"))
	assert.Equal(t, ErrInternal.Code, e.Code)
	assert.Nil(t, FromError(nil))
}

func TestValidationCarriesFields(t *testing.T) {
	e := Validation("check the form", map[string]string{"email": "Email is not valid."})
	assert.Equal(t, ErrValidation.Code, e.Code)
	assert.Equal(t, "Email is not valid.", e.Fields["email"])
	assert.Empty(t, ErrValidation.Fields)
}
