// ABOUTME: Tests for the typed error taxonomy
// ABOUTME: Covers code predicates, wrapping, and field metadata

package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"authentication", Authentication("bad credentials"), CodeAuthentication},
		{"authorization", Authorization("admins only"), CodeAuthorization},
		{"validation", Validation("name required"), CodeValidation},
		{"registration", Registration("backend refused"), CodeRegistration},
		{"not found", NotFound("gone"), CodeNotFound},
		{"unavailable", Unavailable("backend down"), CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsAuthentication(Authentication("x")))
	assert.True(t, IsAuthorization(Authorization("x")))
	assert.True(t, IsValidation(Validation("x")))
	assert.True(t, IsRegistration(Registration("x")))
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsUnavailable(Unavailable("x")))

	assert.False(t, IsAuthentication(Validation("x")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsUnavailable(errors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NotFound("no listing")
	wrapped := fmt.Errorf("fetch detail: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CodeNotFound, GetCode(wrapped))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "cannot connect")

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot connect")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapfFormats(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrapf(cause, CodeUnavailable, "cannot connect to backend at %s", "http://localhost:8000")

	assert.Contains(t, err.Error(), "http://localhost:8000")
	assert.ErrorIs(t, err, cause)
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "a valid email is required")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "email", GetField(err))
	assert.Contains(t, err.Error(), "a valid email is required")
}

func TestGetFieldOnNonFieldError(t *testing.T) {
	assert.Empty(t, GetField(Validation("generic")))
	assert.Empty(t, GetField(errors.New("plain")))
	assert.Empty(t, GetField(nil))
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("no listing with slug %q", "anna-moscow")

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `"anna-moscow"`)
}
