package goSession

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goSession/refresh"
)

var (
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrNotAuthenticated is an exported constant or variable used by the session client.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials is an exported constant or variable used by the session client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordChangeRequired is an exported constant or variable used by the session client.
	ErrPasswordChangeRequired = errors.New("password change required")
	// ErrEmailVerificationInvalid is an exported constant or variable used by the session client.
	ErrEmailVerificationInvalid = errors.New("email verification challenge invalid")

	// ErrSessionExpired is an exported constant or variable used by the session client.
	// It is the coordinator's terminal refresh failure, re-exported so callers
	// can match it without importing the refresh package.
	ErrSessionExpired = refresh.ErrSessionExpired
	// ErrRefreshUnavailable is an exported constant or variable used by the session client.
	ErrRefreshUnavailable = refresh.ErrRefreshUnavailable
)

// APIError is a structured error decoded from the backend's JSON error body.
// Business failures (validation, password policy, unknown verification
// challenge) surface as APIError values without touching session state.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}
