package goSession

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goSession/store"
)

type changePasswordPayload struct {
	NewPassword string `json:"newPassword"`
}

type changePasswordResponse struct {
	TempToken string            `json:"tempToken"`
	User      store.UserProfile `json:"user"`
	Message   string            `json:"message"`
}

// ChangePassword completes the forced-password-change flow. The temporary
// credential from login authenticates the request; the backend answers with
// a fresh temporary credential and the profile, which are stored with the
// forced-change flag cleared so the guard lets the user back in.
//
// Policy violations (weak password, reuse) surface as *APIError and leave
// the stored state untouched.
func (c *Client) ChangePassword(ctx context.Context, newPassword string) (*UserProfile, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if c.credentials.AccessToken() == "" {
		return nil, ErrNotAuthenticated
	}

	var resp changePasswordResponse
	err := c.doJSON(ctx, c.httpClient, http.MethodPost, c.config.API.ChangePasswordPath, changePasswordPayload{
		NewPassword: newPassword,
	}, &resp)
	if err != nil {
		c.metrics.Inc(MetricPasswordChangeFailure)
		c.emit(ctx, AuditEvent{EventType: "password.change", Success: false, Error: errString(err)})
		return nil, err
	}

	user := resp.User
	user.MustChangePassword = false
	remember := c.credentials.RememberMe(ctx)

	if resp.TempToken != "" {
		if err := c.credentials.SetTemporary(ctx, resp.TempToken, &user, remember); err != nil {
			return nil, err
		}
	} else if err := c.credentials.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}

	c.metrics.Inc(MetricPasswordChangeSuccess)
	c.emit(ctx, AuditEvent{EventType: "password.change", UserID: user.ID, Success: true})
	return user.Clone(), nil
}
