package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValidationError(t *testing.T) {
	type req struct {
		Title string `validate:"required"`
		Email string `validate:"email"`
	}

	err := validator.New().Struct(&req{Email: "nope"})
	require.Error(t, err)

	resp := FromValidationError(err)
	structured, ok := resp.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, structured.Code())
	assert.Equal(t, []string{"This field is required"}, structured.Errors["title"])
	assert.Equal(t, []string{"Value must be a valid email address"}, structured.Errors["email"])
}

func TestFromValidationError_Unexpected(t *testing.T) {
	assert.Equal(t, InternalServerError, FromValidationError(errors.New("boom")))
}

func TestNewSimple(t *testing.T) {
	err := NewSimple(http.StatusBadRequest, "Parameter '%s' is invalid", "q")
	assert.Equal(t, http.StatusBadRequest, err.Code())
	assert.Equal(t, "Parameter 'q' is invalid", err.Message)

	plain := NewSimple(http.StatusNotFound, "100% missing")
	assert.Equal(t, "100% missing", plain.Message)
}
