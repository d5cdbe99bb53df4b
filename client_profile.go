package goSession

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goSession/store"
)

// CurrentUser fetches the signed-in user's profile from the backend
// through the gateway. It does not rewrite the cached profile; callers who
// want that use [store.Store.UpdateUser] or rely on [Client.VerifyEmail].
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if !c.credentials.IsAuthenticated() && !c.credentials.NeedsRefresh(ctx) {
		return nil, ErrNotAuthenticated
	}

	var user store.UserProfile
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, c.config.API.ProfilePath, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
