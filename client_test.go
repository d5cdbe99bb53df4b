package goSession

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/store"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct-password-123"
)

// testBackend is an in-process rendition of the dashboard API: cookie-based
// refresh, bearer-protected profile endpoint, forced-password-change login.
type testBackend struct {
	t   testing.TB
	srv *httptest.Server

	mu           sync.Mutex
	validAccess  string
	validCookie  string
	accessSeq    int
	refreshCalls int
	loginCalls   int

	refreshStatus int
	refreshDelay  time.Duration
	logoutStatus  int
	tempLogin     bool
	rotateRefresh bool

	profile  store.UserProfile
	dirUsers []directory.User
}

func newTestBackend(t testing.TB) *testBackend {
	t.Helper()

	b := &testBackend{
		t:            t,
		logoutStatus: http.StatusOK,
		profile: store.UserProfile{
			ID:            "u1",
			Name:          "Alice",
			Email:         testEmail,
			EmailVerified: false,
			Role:          &store.RoleRef{ID: "r1", Name: "admin"},
		},
		dirUsers: []directory.User{
			{ID: "u1", Name: "Alice", Email: testEmail},
			{ID: "u2", Name: "Bob", Email: "bob@example.com"},
			{ID: "u3", Name: "Carol", Email: "carol@example.com"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.handleLogin)
	mux.HandleFunc("POST /auth/refresh", b.handleRefresh)
	mux.HandleFunc("POST /auth/logout", b.handleLogout)
	mux.HandleFunc("POST /auth/change-password", b.handleChangePassword)
	mux.HandleFunc("POST /auth/verify-email", b.handleVerifyEmail)
	mux.HandleFunc("POST /auth/resend-verification-email", b.handleResend)
	mux.HandleFunc("GET /users/me", b.handleProfile)
	mux.HandleFunc("GET /users", b.handleListUsers)
	mux.HandleFunc("GET /users/{id}", b.handleGetUser)
	mux.HandleFunc("POST /users", b.handleCreateUser)
	mux.HandleFunc("PUT /users/{id}", b.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", b.handleDeleteUser)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *testBackend) nextAccess(prefix string) string {
	b.accessSeq++
	return fmt.Sprintf("%s-%d", prefix, b.accessSeq)
}

// invalidateAccess simulates access credential expiry server-side: the
// current bearer stops working until a refresh issues a new one.
func (b *testBackend) invalidateAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validAccess = ""
}

func (b *testBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *testBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginCalls++

	if payload.Email != testEmail || payload.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}

	if b.tempLogin {
		b.validAccess = b.nextAccess("temp")
		b.profile.MustChangePassword = true
		writeJSON(w, http.StatusOK, map[string]any{
			"tempToken": b.validAccess,
			"user":      b.profile,
		})
		return
	}

	b.validAccess = b.nextAccess("access")
	b.validCookie = "rc-1"
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: b.validCookie, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": b.validAccess,
		"user":        b.profile,
	})
}

func (b *testBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.refreshCalls++
	status := b.refreshStatus
	delay := b.refreshDelay
	b.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if status != 0 {
		writeJSON(w, status, map[string]string{"message": "refresh rejected"})
		return
	}

	cookie, err := r.Cookie("refresh_token")
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil || cookie.Value != b.validCookie {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
		return
	}

	b.validAccess = b.nextAccess("access")
	resp := map[string]any{"accessToken": b.validAccess}
	if b.rotateRefresh {
		b.validCookie = "rc-rotated"
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: b.validCookie, Path: "/", HttpOnly: true})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *testBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.logoutStatus
	b.validCookie = ""
	b.mu.Unlock()
	writeJSON(w, status, map[string]string{"message": "logged out"})
}

func (b *testBackend) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"newPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	defer b.mu.Unlock()

	if bearer(r) != b.validAccess || b.validAccess == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	if len(payload.NewPassword) < 12 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "password policy violation"})
		return
	}

	b.validAccess = b.nextAccess("temp")
	b.profile.MustChangePassword = false
	writeJSON(w, http.StatusOK, map[string]any{
		"tempToken": b.validAccess,
		"user":      b.profile,
	})
}

func (b *testBackend) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	if payload.Token != "valid-token" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "verification challenge invalid"})
		return
	}
	b.profile.EmailVerified = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (b *testBackend) handleResend(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bearer(r) != b.validAccess || b.validAccess == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "verification email sent"})
}

func (b *testBackend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bearer(r) != b.validAccess || b.validAccess == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, b.profile)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// authorized enforces the bearer check shared by the directory handlers.
// Callers must not hold b.mu.
func (b *testBackend) authorized(w http.ResponseWriter, r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bearer(r) != b.validAccess || b.validAccess == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return false
	}
	return true
}

func (b *testBackend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(w, r) {
		return
	}

	search := strings.ToLower(r.URL.Query().Get("search"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if size < 1 {
		size = 20
	}

	b.mu.Lock()
	matched := make([]directory.User, 0, len(b.dirUsers))
	for _, u := range b.dirUsers {
		if search == "" || strings.Contains(strings.ToLower(u.Name), search) || strings.Contains(strings.ToLower(u.Email), search) {
			matched = append(matched, u)
		}
	}
	b.mu.Unlock()

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, directory.Page[directory.User]{
		Items:      matched[start:end],
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: (len(matched) + size - 1) / size,
	})
}

func (b *testBackend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(w, r) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.dirUsers {
		if u.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func (b *testBackend) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(w, r) {
		return
	}

	var u directory.User
	_ = json.NewDecoder(r.Body).Decode(&u)

	b.mu.Lock()
	defer b.mu.Unlock()
	u.ID = fmt.Sprintf("u%d", len(b.dirUsers)+1)
	b.dirUsers = append(b.dirUsers, u)
	writeJSON(w, http.StatusCreated, u)
}

func (b *testBackend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(w, r) {
		return
	}

	var in directory.User
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.dirUsers {
		if u.ID == r.PathValue("id") {
			in.ID = u.ID
			b.dirUsers[i] = in
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func (b *testBackend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(w, r) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.dirUsers {
		if u.ID == r.PathValue("id") {
			b.dirUsers = append(b.dirUsers[:i], b.dirUsers[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func newTestClient(t testing.TB, backend *testBackend, opts ...func(*Builder)) *Client {
	t.Helper()

	builder := New().
		WithBaseURL(backend.srv.URL).
		WithMetricsEnabled(true)
	for _, opt := range opts {
		opt(builder)
	}

	client, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func login(t testing.TB, client *Client) *LoginResult {
	t.Helper()

	result, err := client.Login(context.Background(), LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return result
}

func TestLogoutClearsStateDespiteBackendFailure(t *testing.T) {
	backend := newTestBackend(t)
	client := newTestClient(t, backend)
	login(t, client)

	backend.mu.Lock()
	backend.logoutStatus = http.StatusInternalServerError
	backend.mu.Unlock()

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	info := client.SessionInfo(context.Background())
	if info.Authenticated || info.NeedsRefresh || info.User != nil {
		t.Fatalf("expected fully cleared session, got %+v", info)
	}
}

func TestSetRouteTracksCurrentRoute(t *testing.T) {
	backend := newTestBackend(t)
	client := newTestClient(t, backend)

	if got := client.CurrentRoute(); got != "/" {
		t.Fatalf("expected home as the initial route, got %q", got)
	}
	client.SetRoute("/teams")
	if got := client.CurrentRoute(); got != "/teams" {
		t.Fatalf("expected tracked route, got %q", got)
	}
}

func TestSessionInfoReportsCredentialExpiry(t *testing.T) {
	backend := newTestBackend(t)
	client := newTestClient(t, backend)
	login(t, client)

	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	client.Store().UpdateCredentials(signed, "")

	info := client.SessionInfo(context.Background())
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}

	// Opaque credentials carry no readable expiry.
	client.Store().UpdateCredentials("opaque-token", "")
	if got := client.SessionInfo(context.Background()).ExpiresAt; !got.IsZero() {
		t.Fatalf("expected zero expiry for an opaque credential, got %v", got)
	}
}

func TestMetricsCountLoginAndLogout(t *testing.T) {
	backend := newTestBackend(t)
	client := newTestClient(t, backend)

	login(t, client)
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	_, _ = client.Login(context.Background(), LoginRequest{Email: testEmail, Password: "wrong"})

	m := client.Metrics()
	if got := m.Value(MetricLoginSuccess); got != 1 {
		t.Fatalf("expected one login success, got %d", got)
	}
	if got := m.Value(MetricLoginFailure); got != 1 {
		t.Fatalf("expected one login failure, got %d", got)
	}
	if got := m.Value(MetricLogout); got != 1 {
		t.Fatalf("expected one logout, got %d", got)
	}
}
