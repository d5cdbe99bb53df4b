package goSession

import (
	"time"

	"github.com/MrEthical07/goSession/store"
)

// UserProfile is the cached identity of the signed-in user.
//
// The concrete type lives in [store] because the credential store owns its
// persistence; the alias keeps the common case to a single import.
type UserProfile = store.UserProfile

// RoleRef is a lightweight reference to the user's role.
type RoleRef = store.RoleRef

// TeamRef is a lightweight reference to the user's team.
type TeamRef = store.TeamRef

// LoginRequest is the input for [Client.Login].
type LoginRequest struct {
	Email    string
	Password string

	// RememberMe selects the durable backend for the session. Nil means
	// "use the configured default" (Credentials.RememberByDefault).
	RememberMe *bool
}

// LoginResult is returned by [Client.Login]. When MustChangePassword is
// set, the backend issued a temporary credential instead of a session: the
// only permitted next operation is [Client.ChangePassword].
type LoginResult struct {
	AccessToken  string
	RefreshToken string

	MustChangePassword bool
	User               *UserProfile
}

// SessionInfo is a point-in-time snapshot of the client's session state,
// returned by [Client.SessionInfo]. ExpiresAt is zero when the access
// credential is absent or carries no readable expiry claim.
type SessionInfo struct {
	Authenticated      bool
	NeedsRefresh       bool
	MustChangePassword bool
	User               *UserProfile
	ExpiresAt          time.Time
}
