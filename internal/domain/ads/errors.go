// Package ads provides domain types for the ad platform insights integration.
package ads

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard domain errors.
var (
	ErrNotConnected       = errors.New("shop has no connection for this platform")
	ErrCredentialMissing  = errors.New("stored credential is empty or could not be decrypted")
	ErrTokenRejected      = errors.New("provider rejected the access token")
	ErrRateLimited        = errors.New("API rate limit exceeded")
	ErrInvalidResponse    = errors.New("provider returned a malformed response")
	ErrServiceUnavailable = errors.New("ad platform temporarily unavailable")
)

// Platform identifies a supported ad platform.
type Platform string

const (
	PlatformGoogle Platform = "google"
	PlatformMeta   Platform = "meta"
)

// Valid reports whether the platform identifier is supported.
func (p Platform) Valid() bool {
	return p == PlatformGoogle || p == PlatformMeta
}

// DisplayName returns the human-readable platform name.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformGoogle:
		return "Google Ads"
	case PlatformMeta:
		return "Meta Ads"
	default:
		return string(p)
	}
}

// APIError represents a structured error from an ad platform API.
type APIError struct {
	Platform   Platform `json:"platform"`
	Message    string   `json:"message"`
	StatusCode int      `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s [%d]: %s", e.Platform, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

// Is implements errors.Is for APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTokenRejected:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServiceUnavailable:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// NewAPIError creates a new APIError for the given platform.
func NewAPIError(platform Platform, message string, statusCode int) *APIError {
	return &APIError{
		Platform:   platform,
		Message:    message,
		StatusCode: statusCode,
	}
}
