package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{CodeInternal, http.StatusInternalServerError},
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusUnprocessableEntity},
		{CodeUnauthorized, http.StatusUnauthorized},
		{Code(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()

			var gerr *Error
			require.ErrorAs(t, NewBusiness("x", tt.code), &gerr)
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	cause := errors.New("integration key must be 20 characters")
	err := NewServer(cause)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.Equal(t, TypeServer, gerr.Type())
	assert.Equal(t, cause.Error(), err.Error())
	assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
}

func TestNewBusiness(t *testing.T) {
	t.Parallel()

	err := NewBusiness("invalid signed response", CodeUnauthorized)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "invalid signed response", err.Error())
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, CodeUnauthorized, gerr.Code())
	assert.Nil(t, gerr.Unwrap())
	assert.Contains(t, gerr.String(), "type=ERROR_TYPE_BUSINESS")
	assert.Contains(t, gerr.String(), "code=ERROR_CODE_UNAUTHORIZED")
}

func TestNewInvalidInput(t *testing.T) {
	t.Parallel()

	t.Run("WrapsCause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("username is required")
		var gerr *Error
		require.ErrorAs(t, NewInvalidInput(cause), &gerr)
		assert.Equal(t, CodeInvalidInput, gerr.Code())
		assert.ErrorIs(t, gerr, cause)
	})

	t.Run("Fields", func(t *testing.T) {
		t.Parallel()

		var gerr *Error
		require.ErrorAs(t, NewInvalidInput(nil, "username", "too long"), &gerr)
		assert.Equal(t, map[string]string{"username": "too long"}, gerr.Fields())
		assert.Equal(t, "Validation error", gerr.Error())
	})

	t.Run("OddPairs", func(t *testing.T) {
		t.Parallel()

		var gerr *Error
		require.ErrorAs(t, NewInvalidInput(nil, "username"), &gerr)
		assert.Equal(t, CodeInvalidFormat, gerr.Code())
	})
}

func TestNewInvalidFormat(t *testing.T) {
	t.Parallel()

	var gerr *Error
	require.ErrorAs(t, NewInvalidFormat(), &gerr)
	assert.Equal(t, "Invalid request body", gerr.Msg())

	require.ErrorAs(t, NewInvalidFormat("bad form"), &gerr)
	assert.Equal(t, "bad form", gerr.Msg())
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
}
