package goSession

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
)

type verifyEmailPayload struct {
	Token string `json:"token"`
}

// VerifyEmail redeems an email verification challenge. After a successful
// verification the cached profile is re-fetched from the profile endpoint
// so the stored verification state matches the backend; that re-fetch is
// best effort and never fails the verification itself.
//
// An unknown or expired challenge surfaces as [ErrEmailVerificationInvalid].
func (c *Client) VerifyEmail(ctx context.Context, verificationToken string) error {
	if c == nil {
		return ErrClientNotReady
	}

	err := c.doJSON(ctx, c.httpClient, http.MethodPost, c.config.API.VerifyEmailPath, verifyEmailPayload{
		Token: verificationToken,
	}, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			err = fmt.Errorf("%w: %s", ErrEmailVerificationInvalid, apiErr.Message)
		}
		c.metrics.Inc(MetricEmailVerificationFailure)
		c.emit(ctx, AuditEvent{EventType: "email.verify", Success: false, Error: errString(err)})
		return err
	}

	if c.credentials.IsAuthenticated() {
		if user, ferr := c.CurrentUser(ctx); ferr == nil {
			if serr := c.credentials.UpdateUser(ctx, user); serr != nil {
				log.Print("goSession: storing refreshed profile after email verification: ", serr)
			}
		}
	}

	c.metrics.Inc(MetricEmailVerificationSuccess)
	c.emit(ctx, AuditEvent{EventType: "email.verify", Success: true})
	return nil
}

// ResendVerificationEmail asks the backend to issue a new verification
// challenge for the signed-in user.
func (c *Client) ResendVerificationEmail(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}
	if !c.credentials.IsAuthenticated() && !c.credentials.NeedsRefresh(ctx) {
		return ErrNotAuthenticated
	}

	err := c.doJSON(ctx, c.httpClient, http.MethodPost, c.config.API.ResendVerificationPath, struct{}{}, nil)
	if err == nil {
		c.metrics.Inc(MetricVerificationResent)
	}
	c.emit(ctx, AuditEvent{EventType: "email.resend", Success: err == nil, Error: errString(err)})
	return err
}
