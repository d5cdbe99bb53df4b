package goSession

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API         APIConfig
	Credentials CredentialConfig
	Routes      RouteConfig
	Refresh     RefreshConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by goSession APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string

	LoginPath              string
	RefreshPath            string
	LogoutPath             string
	ChangePasswordPath     string
	VerifyEmailPath        string
	ResendVerificationPath string
	ProfilePath            string
}

/*
====================================
CREDENTIAL CONFIG
====================================
*/

// CredentialConfig defines a public type used by goSession APIs.
//
// CredentialConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CredentialConfig struct {
	// RememberByDefault applies when a login request does not state a
	// preference and nothing has been persisted yet.
	RememberByDefault bool
	// RedisPrefix namespaces the redis durable backend when one is wired
	// through the builder.
	RedisPrefix string
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig names the UI routes the guard redirects to and the gateway's
// refresh-bypass routes.
//
// RouteConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RouteConfig struct {
	Login          string
	Home           string
	ChangePassword string
	VerifyEmail    string
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by goSession APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Timeout bounds one refresh network call; it is separate from
	// API.RequestTimeout because every blocked caller shares this wait.
	Timeout time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			RequestTimeout: 15 * time.Second,
			UserAgent:      "goSession",

			LoginPath:              "/auth/login",
			RefreshPath:            "/auth/refresh",
			LogoutPath:             "/auth/logout",
			ChangePasswordPath:     "/auth/change-password",
			VerifyEmailPath:        "/auth/verify-email",
			ResendVerificationPath: "/auth/resend-verification-email",
			ProfilePath:            "/users/me",
		},
		Credentials: CredentialConfig{
			RememberByDefault: true,
			RedisPrefix:       "gosession",
		},
		Routes: RouteConfig{
			Login:          "/login",
			Home:           "/",
			ChangePassword: "/change-password",
			VerifyEmail:    "/verify-email",
		},
		Refresh: RefreshConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API.BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API.BaseURL must be an absolute URL")
	}
	for _, p := range []string{
		c.API.LoginPath,
		c.API.RefreshPath,
		c.API.LogoutPath,
		c.API.ChangePasswordPath,
		c.API.VerifyEmailPath,
		c.API.ResendVerificationPath,
		c.API.ProfilePath,
	} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("API paths must start with /")
		}
	}
	if c.API.RequestTimeout < 0 {
		return errors.New("API.RequestTimeout must not be negative")
	}
	if c.Refresh.Timeout <= 0 {
		return errors.New("Refresh.Timeout must be positive")
	}
	for _, r := range []string{c.Routes.Login, c.Routes.Home, c.Routes.ChangePassword} {
		if !strings.HasPrefix(r, "/") {
			return errors.New("Routes must start with /")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

// cloneConfig exists so the builder and client never share a caller's
// Config value. The struct has no reference fields today; the copy keeps
// that assumption in one place.
func cloneConfig(cfg Config) Config {
	return cfg
}
