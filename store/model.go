package store

import "encoding/json"

// UserProfile is the cached identity of the signed-in user. It mirrors the
// profile object returned by the login and /users/me endpoints and is the
// only session-owned value that reaches durable storage.
//
// UserProfile instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserProfile struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Status             string   `json:"status,omitempty"`
	EmailVerified      bool     `json:"emailVerified"`
	MustChangePassword bool     `json:"mustChangePassword"`
	Role               *RoleRef `json:"role,omitempty"`
	Team               *TeamRef `json:"team,omitempty"`
	Permissions        []string `json:"permissions,omitempty"`
}

// RoleRef is a lightweight reference to the user's role.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamRef is a lightweight reference to the user's team.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clone returns a deep copy so callers can hand profiles out without
// sharing mutable state.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	out := *u
	if u.Role != nil {
		r := *u.Role
		out.Role = &r
	}
	if u.Team != nil {
		t := *u.Team
		out.Team = &t
	}
	if u.Permissions != nil {
		out.Permissions = append([]string(nil), u.Permissions...)
	}
	return &out
}

func encodeProfile(u *UserProfile) (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeProfile tolerates garbage: persisted data the process did not write
// (or wrote under an older schema) must read as absent, never as an error.
func decodeProfile(raw string) *UserProfile {
	if raw == "" {
		return nil
	}
	var u UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	if u.ID == "" {
		return nil
	}
	return &u
}
