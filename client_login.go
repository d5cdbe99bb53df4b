package goSession

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goSession/store"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	TempToken    string            `json:"tempToken"`
	User         store.UserProfile `json:"user"`
}

// Login authenticates against the backend and installs the resulting
// session in the credential store. When the backend answers with a
// temporary credential instead of a session, the result carries
// MustChangePassword and the only permitted next operation is
// [Client.ChangePassword].
//
// A 400/401 answer surfaces as [ErrInvalidCredentials]; the credential
// store is left untouched on any failure.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}

	remember := c.config.Credentials.RememberByDefault
	if req.RememberMe != nil {
		remember = *req.RememberMe
	}

	var resp loginResponse
	err := c.doJSON(ctx, c.httpClient, http.MethodPost, c.config.API.LoginPath, loginPayload{
		Email:    req.Email,
		Password: req.Password,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			err = fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		c.metrics.Inc(MetricLoginFailure)
		c.emit(ctx, AuditEvent{EventType: "login", Success: false, Error: errString(err)})
		return nil, err
	}

	user := resp.User

	if resp.TempToken != "" {
		// Forced password change: the backend withheld the session and the
		// profile flag must reflect that regardless of what came over the
		// wire.
		user.MustChangePassword = true
		if err := c.credentials.SetTemporary(ctx, resp.TempToken, &user, remember); err != nil {
			return nil, err
		}
		c.metrics.Inc(MetricLoginTempCredential)
		c.emit(ctx, AuditEvent{EventType: "login.temp_credential", UserID: user.ID, Success: true})
		return &LoginResult{
			AccessToken:        resp.TempToken,
			MustChangePassword: true,
			User:               user.Clone(),
		}, nil
	}

	if err := c.credentials.SetSession(ctx, resp.AccessToken, resp.RefreshToken, &user, remember); err != nil {
		return nil, err
	}
	c.metrics.Inc(MetricLoginSuccess)
	c.emit(ctx, AuditEvent{EventType: "login", UserID: user.ID, Success: true})
	return &LoginResult{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         user.Clone(),
	}, nil
}

// Logout announces the logout to the backend and clears local session
// state. The network call is best effort: the local session is gone even
// when the backend is unreachable, and only a local clear failure is
// returned.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	netErr := c.doJSON(ctx, c.httpClient, http.MethodPost, c.config.API.LogoutPath, struct{}{}, nil)

	cerr := c.credentials.Clear(context.WithoutCancel(ctx))
	c.metrics.Inc(MetricLogout)
	c.emit(ctx, AuditEvent{EventType: "logout", Success: netErr == nil, Error: errString(netErr)})
	return cerr
}
