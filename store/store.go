package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// Store holds the client's credentials. Bearer credentials (access, refresh
// mirror, temporary) live only in the mutex-guarded fields; the profile and
// remember-me preference go to one of the two backends.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string

	remember        Backend
	session         Backend
	rememberDefault bool
}

// New builds a Store over a remember backend (survives restarts) and a
// session backend (process lifetime). Nil backends default to in-memory.
func New(remember, session Backend, rememberDefault bool) *Store {
	if remember == nil {
		remember = NewMemoryBackend()
	}
	if session == nil {
		session = NewMemoryBackend()
	}
	return &Store{remember: remember, session: session, rememberDefault: rememberDefault}
}

// AccessToken returns the in-memory access credential, or "" when absent.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the in-memory refresh mirror, or "" when absent.
// The canonical refresh credential is an HTTP-only cookie; this mirror is
// populated only when a backend returns the credential in a response body.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// User returns the durably cached profile, or nil when absent or malformed.
func (s *Store) User(ctx context.Context) *UserProfile {
	return decodeProfile(s.readDurable(ctx, keyUser))
}

// TempToken returns the durably stored temporary credential issued for a
// forced password change, or "" when absent.
func (s *Store) TempToken(ctx context.Context) string {
	return s.readDurable(ctx, keyTempToken)
}

// RememberMe reports the persisted remember-me preference, falling back to
// the configured default when nothing has been stored yet.
func (s *Store) RememberMe(ctx context.Context) bool {
	raw := s.readDurable(ctx, keyRememberMe)
	if raw == "" {
		return s.rememberDefault
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return s.rememberDefault
	}
	return v
}

// SetSession installs a full authenticated session: both backends are wiped
// of stale keys first, the bearer credentials go to memory only, and the
// profile plus remember-me flag go to the backend rememberMe selects.
func (s *Store) SetSession(ctx context.Context, access, refresh string, user *UserProfile, rememberMe bool) error {
	encoded, err := encodeProfile(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wipeBackends(ctx); err != nil {
		return err
	}
	s.access = access
	s.refresh = refresh
	target := s.target(rememberMe)
	if err := target.Set(ctx, keyUser, encoded); err != nil {
		return err
	}
	return target.Set(ctx, keyRememberMe, strconv.FormatBool(rememberMe))
}

// SetTemporary installs a forced-password-change session: the temporary
// credential acts as the in-memory access credential and is also stored
// durably under its own key so the flow survives a restart. Any refresh
// mirror is discarded.
func (s *Store) SetTemporary(ctx context.Context, temp string, user *UserProfile, rememberMe bool) error {
	encoded, err := encodeProfile(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wipeBackends(ctx); err != nil {
		return err
	}
	s.access = temp
	s.refresh = ""
	target := s.target(rememberMe)
	if err := target.Set(ctx, keyTempToken, temp); err != nil {
		return err
	}
	if err := target.Set(ctx, keyUser, encoded); err != nil {
		return err
	}
	return target.Set(ctx, keyRememberMe, strconv.FormatBool(rememberMe))
}

// UpdateCredentials replaces the in-memory access credential after a
// successful refresh. An empty refresh value leaves the existing mirror
// untouched; refresh rotation only applies when the backend explicitly
// returned a new credential.
func (s *Store) UpdateCredentials(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}

// UpdateUser rewrites the cached profile in place, preserving the current
// remember-me target. Credentials are untouched.
func (s *Store) UpdateUser(ctx context.Context, user *UserProfile) error {
	encoded, err := encodeProfile(user)
	if err != nil {
		return err
	}
	return s.target(s.RememberMe(ctx)).Set(ctx, keyUser, encoded)
}

// Clear wipes the volatile credentials and every durable key in both
// backends. It is idempotent; the volatile state is gone even if a backend
// delete fails, and all delete failures are joined into the returned error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return s.wipeBackends(ctx)
}

// IsAuthenticated reports whether an access credential is present in
// memory. A durably cached profile alone does not count; that state is
// NeedsRefresh territory.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access != ""
}

// NeedsRefresh reports the post-restart limbo: a cached profile exists but
// no access credential is held in memory.
func (s *Store) NeedsRefresh(ctx context.Context) bool {
	if s.IsAuthenticated() {
		return false
	}
	return s.User(ctx) != nil
}

// MustChangePassword reports whether the cached profile is flagged for a
// forced password change.
func (s *Store) MustChangePassword(ctx context.Context) bool {
	u := s.User(ctx)
	return u != nil && u.MustChangePassword
}

func (s *Store) target(rememberMe bool) Backend {
	if rememberMe {
		return s.remember
	}
	return s.session
}

// readDurable checks the remember backend first, then the session backend.
// Backend failures read as absent.
func (s *Store) readDurable(ctx context.Context, key string) string {
	if v, err := s.remember.Get(ctx, key); err == nil {
		return v
	}
	if v, err := s.session.Get(ctx, key); err == nil {
		return v
	}
	return ""
}

func (s *Store) wipeBackends(ctx context.Context) error {
	var errs []error
	for _, b := range []Backend{s.remember, s.session} {
		for _, key := range allKeys {
			if err := b.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
