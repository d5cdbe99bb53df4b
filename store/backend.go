package store

import (
	"context"
	"errors"
)

// ErrNotFound is an exported sentinel error returned by goSession APIs to signal a specific failure condition.
var ErrNotFound = errors.New("store: key not found")

// Backend is a minimal durable key/value surface. Implementations must be
// safe for concurrent use; Get returns ErrNotFound for absent keys.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Durable keys. accessToken is a legacy key: older clients persisted the
// access credential and this package still clears it, but never writes it.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyTempToken    = "tempToken"
	keyUser         = "user"
	keyRememberMe   = "rememberMe"
)

var allKeys = []string{keyAccessToken, keyRefreshToken, keyTempToken, keyUser, keyRememberMe}
