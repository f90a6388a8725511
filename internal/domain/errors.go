package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Generation API errors
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
)

// rateLimitMarker is the status code text providers put in rate-limit rejections.
const rateLimitMarker = "429"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewLLMServiceError wraps a generation API failure. The provider message stays
// reachable through Error() so callers can still inspect it.
func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "generation API call failed", err)
}

func NewRateLimitedError(err error) *DomainError {
	return NewError(ErrRateLimited, "generation API rate limit exceeded", err)
}

// CodeOf returns the code of the first DomainError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// IsRateLimited reports whether err is a provider rate-limit rejection. Providers
// that do not expose a typed status are recognised by the "429" in their message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Code == ErrRateLimited {
		return true
	}
	return strings.Contains(err.Error(), rateLimitMarker)
}
