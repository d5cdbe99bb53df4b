package store

import (
	"context"
	"testing"
)

func testProfile() *UserProfile {
	return &UserProfile{
		ID:            "u1",
		Name:          "Alice",
		Email:         "alice@example.com",
		EmailVerified: true,
		Role:          &RoleRef{ID: "r1", Name: "admin"},
	}
}

func backendKeys(t *testing.T, b Backend) map[string]string {
	t.Helper()

	out := map[string]string{}
	for _, key := range allKeys {
		if v, err := b.Get(context.Background(), key); err == nil {
			out[key] = v
		}
	}
	return out
}

func TestSetSessionVolatileDurableSplit(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	s := New(remember, session, true)

	if err := s.SetSession(context.Background(), "access-1", "refresh-1", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if got := s.AccessToken(); got != "access-1" {
		t.Fatalf("expected access credential in memory, got %q", got)
	}
	if got := s.RefreshToken(); got != "refresh-1" {
		t.Fatalf("expected refresh mirror in memory, got %q", got)
	}
	if !s.IsAuthenticated() {
		t.Fatal("expected IsAuthenticated after SetSession")
	}

	durable := backendKeys(t, remember)
	if _, ok := durable[keyAccessToken]; ok {
		t.Fatal("access credential must never reach a durable backend")
	}
	if _, ok := durable[keyRefreshToken]; ok {
		t.Fatal("refresh credential must never reach a durable backend")
	}
	if _, ok := durable[keyUser]; !ok {
		t.Fatal("expected profile in the remember backend")
	}
	if durable[keyRememberMe] != "true" {
		t.Fatalf("expected rememberMe=true, got %q", durable[keyRememberMe])
	}
	if got := backendKeys(t, session); len(got) != 0 {
		t.Fatalf("expected empty session backend, got %v", got)
	}
}

func TestSetSessionSessionScoped(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	s := New(remember, session, true)

	if err := s.SetSession(context.Background(), "access-1", "", testProfile(), false); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if got := backendKeys(t, remember); len(got) != 0 {
		t.Fatalf("expected empty remember backend, got %v", got)
	}
	if _, ok := backendKeys(t, session)[keyUser]; !ok {
		t.Fatal("expected profile in the session backend")
	}
	if u := s.User(context.Background()); u == nil || u.ID != "u1" {
		t.Fatalf("expected profile readable from session backend, got %+v", u)
	}
	if s.RememberMe(context.Background()) {
		t.Fatal("expected persisted rememberMe=false to win over the default")
	}
}

func TestSetSessionClearsStaleState(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	ctx := context.Background()

	// Stale data from an older client, including a durably persisted
	// access credential under the legacy key.
	for _, b := range []Backend{remember, session} {
		for _, key := range allKeys {
			if err := b.Set(ctx, key, "stale"); err != nil {
				t.Fatalf("seeding failed: %v", err)
			}
		}
	}

	s := New(remember, session, true)
	if err := s.SetSession(ctx, "access-2", "", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyTempToken} {
		if _, err := remember.Get(ctx, key); err == nil {
			t.Fatalf("expected stale %q wiped from remember backend", key)
		}
	}
	if got := backendKeys(t, session); len(got) != 0 {
		t.Fatalf("expected session backend wiped, got %v", got)
	}
}

func TestReadsPreferRememberBackend(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	ctx := context.Background()

	if err := session.Set(ctx, keyUser, `{"id":"session-user"}`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := remember.Set(ctx, keyUser, `{"id":"remember-user"}`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	s := New(remember, session, true)
	if u := s.User(ctx); u == nil || u.ID != "remember-user" {
		t.Fatalf("expected remember backend to win, got %+v", u)
	}
}

func TestNeedsRefreshAfterRestart(t *testing.T) {
	remember := NewMemoryBackend()
	ctx := context.Background()

	first := New(remember, NewMemoryBackend(), true)
	if err := first.SetSession(ctx, "access-1", "", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if first.NeedsRefresh(ctx) {
		t.Fatal("a live session must not report NeedsRefresh")
	}

	// A new Store over the same remember backend models a process restart:
	// the profile survived, the in-memory credential did not.
	restarted := New(remember, NewMemoryBackend(), true)
	if restarted.IsAuthenticated() {
		t.Fatal("restarted store must not report IsAuthenticated")
	}
	if !restarted.NeedsRefresh(ctx) {
		t.Fatal("expected NeedsRefresh after restart")
	}
}

func TestMalformedProfileReadsAsAbsent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"garbage", "{not json"},
		{"wrong type", `"just a string"`},
		{"empty object", `{}`},
		{"null", "null"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remember := NewMemoryBackend()
			ctx := context.Background()
			if err := remember.Set(ctx, keyUser, tc.raw); err != nil {
				t.Fatalf("seed failed: %v", err)
			}

			s := New(remember, NewMemoryBackend(), true)
			if u := s.User(ctx); u != nil {
				t.Fatalf("expected malformed profile to read as absent, got %+v", u)
			}
			if s.NeedsRefresh(ctx) {
				t.Fatal("malformed profile must not count as a cached session")
			}
		})
	}
}

func TestClearIdempotentAndComplete(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	ctx := context.Background()
	s := New(remember, session, true)

	if err := s.SetSession(ctx, "access-1", "refresh-1", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.IsAuthenticated() || s.RefreshToken() != "" {
		t.Fatal("expected volatile credentials gone after Clear")
	}
	if u := s.User(ctx); u != nil {
		t.Fatalf("expected profile gone after Clear, got %+v", u)
	}
	if s.NeedsRefresh(ctx) {
		t.Fatal("cleared store must not report NeedsRefresh")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestUpdateCredentialsKeepsRefreshMirror(t *testing.T) {
	s := New(NewMemoryBackend(), NewMemoryBackend(), true)
	ctx := context.Background()

	if err := s.SetSession(ctx, "access-1", "refresh-1", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	s.UpdateCredentials("access-2", "")
	if got := s.AccessToken(); got != "access-2" {
		t.Fatalf("expected rotated access credential, got %q", got)
	}
	if got := s.RefreshToken(); got != "refresh-1" {
		t.Fatalf("expected refresh mirror untouched, got %q", got)
	}

	s.UpdateCredentials("access-3", "refresh-2")
	if got := s.RefreshToken(); got != "refresh-2" {
		t.Fatalf("expected rotated refresh mirror, got %q", got)
	}
}

func TestSetTemporaryForcedChangeFlow(t *testing.T) {
	remember := NewMemoryBackend()
	ctx := context.Background()
	s := New(remember, NewMemoryBackend(), true)

	user := testProfile()
	user.MustChangePassword = true
	if err := s.SetTemporary(ctx, "temp-1", user, true); err != nil {
		t.Fatalf("SetTemporary failed: %v", err)
	}

	if got := s.AccessToken(); got != "temp-1" {
		t.Fatalf("expected temporary credential as access credential, got %q", got)
	}
	if got := s.RefreshToken(); got != "" {
		t.Fatalf("expected no refresh mirror in the temporary state, got %q", got)
	}
	if got := s.TempToken(ctx); got != "temp-1" {
		t.Fatalf("expected durable temporary credential, got %q", got)
	}
	if !s.MustChangePassword(ctx) {
		t.Fatal("expected MustChangePassword")
	}
}

func TestRememberMeDefault(t *testing.T) {
	ctx := context.Background()

	if !New(NewMemoryBackend(), NewMemoryBackend(), true).RememberMe(ctx) {
		t.Fatal("expected configured default true")
	}
	if New(NewMemoryBackend(), NewMemoryBackend(), false).RememberMe(ctx) {
		t.Fatal("expected configured default false")
	}
}

func TestUpdateUserPreservesTarget(t *testing.T) {
	remember := NewMemoryBackend()
	session := NewMemoryBackend()
	ctx := context.Background()
	s := New(remember, session, true)

	if err := s.SetSession(ctx, "access-1", "", testProfile(), false); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	updated := testProfile()
	updated.EmailVerified = true
	updated.Name = "Alice Updated"
	if err := s.UpdateUser(ctx, updated); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if got := backendKeys(t, remember); len(got) != 0 {
		t.Fatalf("expected UpdateUser to stay on the session backend, got %v", got)
	}
	if u := s.User(ctx); u == nil || u.Name != "Alice Updated" {
		t.Fatalf("expected rewritten profile, got %+v", u)
	}
}
