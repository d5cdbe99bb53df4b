package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the per-request correlation ID.
const HeaderRequestID = "X-Request-ID"

// drainLimit bounds how much of a discarded 401 body is read to keep the
// underlying connection reusable.
const drainLimit = 64 << 10

// CredentialSource yields the current in-memory access credential, or ""
// when the client holds none.
type CredentialSource interface {
	AccessToken() string
}

// Refresher performs one coordinated refresh and returns the fresh access
// credential.
type Refresher interface {
	Do(ctx context.Context) (string, error)
}

// RouteSource reports the caller's current UI route. Optional; without one
// the route-based bypass rules never match.
type RouteSource interface {
	CurrentRoute() string
}

// Hooks are optional observation points. All fields may be nil; hooks must
// not block.
type Hooks struct {
	// OnUnauthorized fires for every 401 the gateway sees.
	OnUnauthorized func()
	// OnRetry fires when a request is replayed after a successful refresh.
	OnRetry func()
	// OnBypass fires when a 401 is handed back without attempting refresh.
	OnBypass func()
}

// Config wires a Gateway.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Base performs the actual round trips; defaults to
	// http.DefaultTransport.
	Base        http.RoundTripper
	Credentials CredentialSource
	Refresher   Refresher
	Routes      RouteSource

	// RefreshPath and LoginPath identify requests whose 401 answers are
	// business results, never refresh triggers.
	RefreshPath string
	LoginPath   string
	// BypassRoutes lists UI routes on which a 401 must pass through
	// (login, forced password change).
	BypassRoutes []string

	UserAgent string
	Hooks     Hooks
}

// Gateway implements http.RoundTripper.
//
// Gateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Gateway struct {
	base         http.RoundTripper
	credentials  CredentialSource
	refresher    Refresher
	routes       RouteSource
	refreshPath  string
	loginPath    string
	bypassRoutes []string
	userAgent    string
	hooks        Hooks
}

type retryMarkerKey struct{}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
func New(cfg Config) (*Gateway, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("transport: Credentials is required")
	}
	if cfg.Refresher == nil {
		return nil, errors.New("transport: Refresher is required")
	}
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return &Gateway{
		base:         base,
		credentials:  cfg.Credentials,
		refresher:    cfg.Refresher,
		routes:       cfg.Routes,
		refreshPath:  cfg.RefreshPath,
		loginPath:    cfg.LoginPath,
		bypassRoutes: slices.Clone(cfg.BypassRoutes),
		userAgent:    cfg.UserAgent,
		hooks:        cfg.Hooks,
	}, nil
}

// RoundTrip sends the request with the current credential attached. On a
// 401 it coordinates one refresh and replays the request once with the new
// credential; every other outcome passes through untouched.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	g.decorate(out)

	resp, err := g.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	fire(g.hooks.OnUnauthorized)

	if g.bypass(req) {
		fire(g.hooks.OnBypass)
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		// The body was consumed by the first attempt and cannot be rebuilt.
		return resp, nil
	}

	access, rerr := g.refresher.Do(req.Context())
	if rerr != nil {
		// The coordinator already classified the failure (and cleared the
		// store when terminal). The original 401 is the caller's answer.
		return resp, nil
	}

	retry := req.Clone(context.WithValue(req.Context(), retryMarkerKey{}, true))
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}
	drain(resp)

	retry.Header.Del("Authorization")
	retry.Header.Del(HeaderRequestID)
	g.decorate(retry)
	if access != "" {
		retry.Header.Set("Authorization", "Bearer "+access)
	}
	fire(g.hooks.OnRetry)
	return g.base.RoundTrip(retry)
}

func (g *Gateway) decorate(req *http.Request) {
	if req.Header.Get("Authorization") == "" {
		if tok := g.credentials.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if g.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
}

func (g *Gateway) bypass(req *http.Request) bool {
	if retried, _ := req.Context().Value(retryMarkerKey{}).(bool); retried {
		return true
	}
	// Suffix match: the configured base URL may carry a path prefix.
	path := req.URL.Path
	if g.refreshPath != "" && strings.HasSuffix(path, g.refreshPath) {
		return true
	}
	if g.loginPath != "" && strings.HasSuffix(path, g.loginPath) {
		return true
	}
	if g.routes != nil && slices.Contains(g.bypassRoutes, g.routes.CurrentRoute()) {
		return true
	}
	return false
}

func fire(hook func()) {
	if hook != nil {
		hook()
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}
