package goSession

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goSession/guard"
	"github.com/MrEthical07/goSession/internal/token"
	"github.com/MrEthical07/goSession/refresh"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/transport"
)

// errorBodyLimit bounds how much of an error response body is decoded.
const errorBodyLimit = 64 << 10

// Client is the session client. Construct it through [Builder.Build]; the
// zero value is not usable.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config      Config
	credentials *store.Store
	coordinator *refresh.Coordinator
	gateway     *transport.Gateway

	// httpClient routes through the gateway; refreshClient is the bare
	// cookie-jar client the coordinator uses.
	httpClient    *http.Client
	refreshClient *http.Client

	authGuard *guard.Guard
	metrics   *Metrics
	audit     *auditDispatcher

	baseURL string
	route   atomic.Value
}

// Store returns the client's credential store.
func (c *Client) Store() *store.Store {
	return c.credentials
}

// Guard returns the client's session guard.
func (c *Client) Guard() *guard.Guard {
	return c.authGuard
}

// Metrics returns the client's metrics instance (never nil after Build).
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// SetRoute records the caller's current UI route. The gateway consults it
// for its 401 bypass rules and audit records carry it.
func (c *Client) SetRoute(route string) {
	c.route.Store(route)
}

// CurrentRoute returns the last route recorded with SetRoute.
func (c *Client) CurrentRoute() string {
	r, _ := c.route.Load().(string)
	return r
}

// SessionInfo returns a point-in-time snapshot of the session state.
func (c *Client) SessionInfo(ctx context.Context) SessionInfo {
	info := SessionInfo{
		Authenticated:      c.credentials.IsAuthenticated(),
		NeedsRefresh:       c.credentials.NeedsRefresh(ctx),
		MustChangePassword: c.credentials.MustChangePassword(ctx),
		User:               c.credentials.User(ctx),
	}
	if tok := c.credentials.AccessToken(); tok != "" {
		if exp, ok := token.Expiry(tok); ok {
			info.ExpiresAt = exp
		}
	}
	return info
}

// Refresh forces one coordinated refresh cycle. Concurrent callers share a
// single network call.
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.coordinator.Do(ctx)
	return err
}

// Close flushes and stops the audit dispatcher. The client must not be
// used after Close.
func (c *Client) Close() {
	c.audit.Close()
}

// endpoint joins the configured base URL with an API path.
func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL, "/") + path
}

// doJSON performs one JSON request/response exchange. Bodies are buffered
// so the gateway can replay the request after a refresh. Non-2xx answers
// come back as *APIError.
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := requestIDFromContext(ctx); id != "" {
		req.Header.Set(transport.HeaderRequestID, id)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if err == nil {
		_ = json.Unmarshal(raw, apiErr)
	}
	return apiErr
}

// emit hands an event to the audit dispatcher, filling in the fields every
// event shares.
func (c *Client) emit(ctx context.Context, event AuditEvent) {
	if c.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	if event.Route == "" {
		if route := routeFromContext(ctx); route != "" {
			event.Route = route
		} else {
			event.Route = c.CurrentRoute()
		}
	}
	if event.RequestID == "" {
		event.RequestID = requestIDFromContext(ctx)
	}
	if event.UserID == "" {
		if u := c.credentials.User(ctx); u != nil {
			event.UserID = u.ID
		}
	}
	c.audit.Emit(ctx, event)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// observeRefresh is the coordinator's outcome hook.
func (c *Client) observeRefresh(o refresh.Outcome) {
	switch o.Kind {
	case refresh.KindSuccess:
		c.metrics.Inc(MetricRefreshSuccess)
	case refresh.KindTerminal:
		c.metrics.Inc(MetricRefreshTerminal)
	default:
		c.metrics.Inc(MetricRefreshTransient)
	}
	if o.Waiters > 0 {
		c.metrics.Add(MetricRefreshWaitersServed, uint64(o.Waiters))
	}
	c.emit(context.Background(), AuditEvent{
		EventType: "refresh",
		Success:   o.Err == nil,
		Error:     errString(o.Err),
		Metadata:  map[string]string{"waiters": fmt.Sprint(o.Waiters)},
	})
}

// observeGuard is the guard's decision hook.
func (c *Client) observeGuard(route string, state guard.State, decision guard.Decision) {
	if decision == guard.DecisionAllow {
		c.metrics.Inc(MetricGuardAllow)
	} else {
		c.metrics.Inc(MetricGuardRedirect)
	}
	c.emit(context.Background(), AuditEvent{
		EventType: "guard.decision",
		Route:     route,
		Success:   decision == guard.DecisionAllow,
		Metadata: map[string]string{
			"state":    state.String(),
			"decision": decision.String(),
		},
	})
}

// refreshOnce is the coordinator's network call: one POST to the refresh
// endpoint on the bare cookie-jar client. The refresh credential travels as
// an HTTP-only cookie; the body is empty.
func (c *Client) refreshOnce(ctx context.Context) (refresh.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.config.API.RefreshPath), nil)
	if err != nil {
		return refresh.Credentials{}, err
	}
	req.Header.Set("Accept", "application/json")
	id := requestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(transport.HeaderRequestID, id)

	resp, err := c.refreshClient.Do(req)
	if err != nil {
		return refresh.Credentials{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyLimit))
		return refresh.Credentials{}, &refresh.StatusError{StatusCode: resp.StatusCode}
	}

	var payload struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return refresh.Credentials{}, fmt.Errorf("decoding refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return refresh.Credentials{}, errors.New("refresh response missing access credential")
	}
	return refresh.Credentials{Access: payload.AccessToken, Refresh: payload.RefreshToken}, nil
}
