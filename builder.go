package goSession

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/MrEthical07/goSession/guard"
	"github.com/MrEthical07/goSession/refresh"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/transport"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	redis      *redis.Client
	fileDir    string

	rememberBackend store.Backend
	sessionBackend  store.Backend

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient supplies the base HTTP client. Its transport becomes the
// gateway's underlying round tripper and its cookie jar, when present, is
// shared with the refresh client.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithRedis wires a redis-backed remember backend keyed under
// Credentials.RedisPrefix.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithFileBackend wires a file-backed remember backend rooted at dir.
func (b *Builder) WithFileBackend(dir string) *Builder {
	b.fileDir = dir
	return b
}

// WithRememberBackend describes the withrememberbackend operation and its observable behavior.
//
// WithRememberBackend does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRememberBackend(backend store.Backend) *Builder {
	b.rememberBackend = backend
	return b
}

// WithSessionBackend describes the withsessionbackend operation and its observable behavior.
//
// WithSessionBackend does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSessionBackend(backend store.Backend) *Builder {
	b.sessionBackend = backend
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.rememberBackend != nil && (b.redis != nil || b.fileDir != "") {
		return nil, errors.New("remember backend conflicts with WithRedis/WithFileBackend")
	}
	if b.redis != nil && b.fileDir != "" {
		return nil, errors.New("WithRedis conflicts with WithFileBackend")
	}

	// -------- CREDENTIAL STORE --------
	remember := b.rememberBackend
	var err error
	switch {
	case remember != nil:
	case b.redis != nil:
		remember, err = store.NewRedisBackend(b.redis, cfg.Credentials.RedisPrefix)
	case b.fileDir != "":
		remember, err = store.NewFileBackend(b.fileDir)
	default:
		remember = store.NewMemoryBackend()
	}
	if err != nil {
		return nil, err
	}
	session := b.sessionBackend
	if session == nil {
		session = store.NewMemoryBackend()
	}
	credentials := store.New(remember, session, cfg.Credentials.RememberByDefault)

	client := &Client{
		config:      cfg,
		credentials: credentials,
		baseURL:     cfg.API.BaseURL,
	}
	client.route.Store(cfg.Routes.Home)
	client.metrics = NewMetrics(cfg.Metrics)
	client.audit = newAuditDispatcher(cfg.Audit, b.auditSink)

	// -------- HTTP CLIENTS --------
	// One cookie jar serves both clients: login captures the HTTP-only
	// refresh cookie, the refresh client presents it.
	var base http.RoundTripper
	jar := http.CookieJar(nil)
	if b.httpClient != nil {
		base = b.httpClient.Transport
		jar = b.httpClient.Jar
	}
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
	}
	client.refreshClient = &http.Client{
		Jar:     jar,
		Timeout: cfg.Refresh.Timeout,
	}

	// -------- REFRESH COORDINATOR --------
	fn := func(ctx context.Context) (refresh.Credentials, error) {
		start := time.Now()
		creds, rerr := client.refreshOnce(ctx)
		client.metrics.Observe(MetricRefreshLatency, time.Since(start))
		return creds, rerr
	}
	client.coordinator, err = refresh.New(refresh.Config{
		Fn:        fn,
		Store:     credentials,
		OnOutcome: client.observeRefresh,
	})
	if err != nil {
		return nil, err
	}

	// -------- GATEWAY --------
	client.gateway, err = transport.New(transport.Config{
		Base:         base,
		Credentials:  credentials,
		Refresher:    client.coordinator,
		Routes:       client,
		RefreshPath:  cfg.API.RefreshPath,
		LoginPath:    cfg.API.LoginPath,
		BypassRoutes: []string{cfg.Routes.Login, cfg.Routes.ChangePassword},
		UserAgent:    cfg.API.UserAgent,
		Hooks: transport.Hooks{
			OnUnauthorized: func() { client.metrics.Inc(MetricGatewayUnauthorized) },
			OnRetry:        func() { client.metrics.Inc(MetricGatewayRetry) },
			OnBypass:       func() { client.metrics.Inc(MetricGatewayBypass) },
		},
	})
	if err != nil {
		return nil, err
	}
	client.httpClient = &http.Client{
		Transport: client.gateway,
		Jar:       jar,
		Timeout:   cfg.API.RequestTimeout,
	}

	// -------- GUARD --------
	client.authGuard, err = guard.New(guard.Config{
		Store:     credentials,
		Refresher: client.coordinator,
		Routes: guard.Routes{
			Login:          cfg.Routes.Login,
			Home:           cfg.Routes.Home,
			ChangePassword: cfg.Routes.ChangePassword,
		},
		OnDecision: client.observeGuard,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return client, nil
}
