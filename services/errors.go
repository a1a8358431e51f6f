package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error. Values double as the
// stable machine-readable codes reported to callers.
type ErrorType string

const (
	ErrorTypeServerError          ErrorType = "server_error"
	ErrorTypeInvalidGrant         ErrorType = "invalid_grant"
	ErrorTypeUnsupportedGrantType ErrorType = "unsupported_grant_type"
	ErrorTypeUnauthorizedClient   ErrorType = "unauthorized_client"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeUnauthorized         ErrorType = "unauthorized"
	ErrorTypeInternal             ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Grant authorization errors
	ErrGrantLookupFailed    = NewDomainError(ErrorTypeServerError, "failed retrieving authorization", nil)
	ErrClientNotAuthorized  = NewDomainError(ErrorTypeInvalidGrant, "client is not authorized", nil)
	ErrAuthorizationExpired = NewDomainError(ErrorTypeInvalidGrant, "client authorization expired", nil)

	// Extension grant errors
	ErrUnknownGrantNamespace = NewDomainError(ErrorTypeUnsupportedGrantType, "unknown or unsupported grant type namespace", nil)
	ErrClientNotLoginCapable = NewDomainError(ErrorTypeUnauthorizedClient, "client lacks login scope", nil)
	ErrUnknownLocalAccount   = NewDomainError(ErrorTypeInvalidGrant, "unknown local account", nil)

	// Message authentication errors
	ErrInvalidToken     = NewDomainError(ErrorTypeNotFound, "invalid token", nil)
	ErrUnknownAlgorithm = NewDomainError(ErrorTypeInternal, "unknown algorithm", nil)
	ErrInvalidMAC       = NewDomainError(ErrorTypeUnauthorized, "invalid mac", nil)

	// Internal errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// Error type checking helper functions

// IsServerError checks if an error is a storage access failure
func IsServerError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeServerError
	}
	return false
}

// IsInvalidGrantError checks if an error is an invalid grant error
func IsInvalidGrantError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInvalidGrant
	}
	return false
}

// IsUnsupportedGrantTypeError checks if an error is an unsupported grant type error
func IsUnsupportedGrantTypeError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnsupportedGrantType
	}
	return false
}

// IsUnauthorizedClientError checks if an error is an unauthorized client error
func IsUnauthorizedClientError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnauthorizedClient
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnauthorized
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapServerError wraps an error as a storage access failure
func WrapServerError(message string, err error) error {
	return NewDomainError(ErrorTypeServerError, message, err)
}
