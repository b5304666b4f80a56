package validate

import (
	"errors"
	"testing"

	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_EmailOptional(t *testing.T) {
	assert.NoError(t, Struct(domain.ApplicationForm{}))
	assert.NoError(t, Struct(&domain.VolunteerForm{Email: "v@example.com"}))
}

func TestStruct_BadEmail_UsesJSONName(t *testing.T) {
	err := Struct(domain.ApplicationForm{Email: "not-an-email"})
	assert.EqualError(t, err, "email must be a valid email address")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestStruct_RequiredFields(t *testing.T) {
	err := Struct(domain.NotificationInput{})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "userId", Rule: "required"}}, verr.Fields)
	assert.EqualError(t, err, "userId is required")
}

func TestFieldError_UnknownRule(t *testing.T) {
	assert.Equal(t, "age failed gte", FieldError{Field: "age", Rule: "gte"}.message())
}
