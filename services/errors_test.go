package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrorTypeInvalidGrant, "client is not authorized", nil)
	assert.Equal(t, "invalid_grant: client is not authorized", err.Error())

	wrapped := NewDomainError(ErrorTypeServerError, "failed retrieving authorization", errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "server_error")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewDomainError(ErrorTypeInternal, "boom", cause)
	assert.ErrorIs(t, err, cause)
}

func TestDomainError_Is(t *testing.T) {
	err := WrapServerError("failed retrieving authorization", errors.New("timeout"))
	assert.ErrorIs(t, err, ErrGrantLookupFailed)
	assert.NotErrorIs(t, err, ErrClientNotAuthorized)
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeUnsupportedGrantType, "unsupported grant type", nil).
		WithDetail("grant_type", "ns/github")

	details := GetErrorDetails(err)
	assert.Equal(t, "ns/github", details["grant_type"])
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		err     error
		checker func(error) bool
	}{
		{ErrGrantLookupFailed, IsServerError},
		{ErrClientNotAuthorized, IsInvalidGrantError},
		{ErrAuthorizationExpired, IsInvalidGrantError},
		{ErrUnknownGrantNamespace, IsUnsupportedGrantTypeError},
		{ErrClientNotLoginCapable, IsUnauthorizedClientError},
		{ErrUnknownLocalAccount, IsInvalidGrantError},
		{ErrInvalidToken, IsNotFoundError},
		{ErrUnknownAlgorithm, IsInternalError},
		{ErrInvalidMAC, IsUnauthorizedError},
	}

	for _, tc := range tests {
		assert.True(t, tc.checker(tc.err), "checker failed for %v", tc.err)
	}

	// Checkers see through wrapping
	wrapped := fmt.Errorf("while checking authorization: %w", ErrAuthorizationExpired)
	assert.True(t, IsInvalidGrantError(wrapped))

	// Plain errors never match
	plain := errors.New("plain")
	assert.False(t, IsServerError(plain))
	assert.False(t, IsInvalidGrantError(plain))
	assert.Equal(t, ErrorType(""), GetErrorType(plain))
}

func TestErrorKindsAreDistinct(t *testing.T) {
	// An expired authorization and a missing one share a type but not a
	// message; the resolver and MAC failures must not be conflated either.
	assert.NotEqual(t, ErrClientNotAuthorized.Message, ErrAuthorizationExpired.Message)
	assert.False(t, errors.Is(ErrInvalidMAC, ErrClientNotLoginCapable))
	assert.False(t, errors.Is(ErrInvalidToken, ErrInvalidMAC))
}
