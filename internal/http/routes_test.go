package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/days/lms-ui-api/internal/adapters/memstore"
	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/policy"
	"github.com/days/lms-ui-api/internal/service"
)

// fakeBackend imitates the library REST API: a login endpoint issuing
// per-user tokens and a handful of resource endpoints that demand one of the
// issued tokens.
type fakeBackend struct {
	tokens map[string]string // token -> role
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{tokens: map[string]string{}}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)

		role := ""
		switch {
		case creds.Username == "admin" && creds.Password == "admin123":
			role = "ADMIN"
		case creds.Username == "jane" && creds.Password == "janepw":
			role = "USER"
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
			return
		}

		token := "tok-" + creds.Username
		b.tokens[token] = role
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":    token,
			"username": creds.Username,
			"role":     role,
		})
	})

	authed := func(fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if _, ok := b.tokens[token]; !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fn(w, r)
		}
	}

	mux.HandleFunc("GET /books", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]gateway.Book{{ID: 1, Title: "The Go Programming Language"}})
	}))
	mux.HandleFunc("GET /members", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]gateway.Member{
			{ID: 1, Name: "admin", MemberNumber: "M-001"},
			{ID: 2, Name: "jane", MemberNumber: "M-002"},
		})
	}))
	mux.HandleFunc("GET /members/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "1":
			_ = json.NewEncoder(w).Encode(gateway.Member{ID: 1, Name: "admin"})
		default:
			_ = json.NewEncoder(w).Encode(gateway.Member{ID: 2, Name: "jane"})
		}
	}))
	mux.HandleFunc("DELETE /members/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /loans", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]gateway.Loan{})
	}))
	mux.HandleFunc("GET /dashboard/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gateway.DashboardStats{TotalBooks: 3, TotalMembers: 2})
	}))

	return mux
}

// revoke invalidates every issued token, simulating backend-side expiry.
func (b *fakeBackend) revoke() {
	b.tokens = map[string]string{}
}

type testEnv struct {
	router http.Handler
	store  *memstore.SessionStore
	back   *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	back := newFakeBackend()
	server := httptest.NewServer(back.handler())
	t.Cleanup(server.Close)

	store := memstore.NewSessionStore()
	sessions := service.NewSessionService(service.SessionServiceOptions{Sessions: store})

	gw, err := gateway.New(gateway.Options{
		BaseURL:              server.URL,
		OnCredentialRejected: sessions.Clear,
	})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Gateway:    gw,
		Sessions:   sessions,
		Exceptions: policy.IdentityExceptions{SeedAdmin: "admin"},
		CookieName: "lms_session",
	})

	return &testEnv{router: router, store: store, back: back}
}

// login runs the login endpoint and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == "lms_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set on login")
	return nil
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLogin_EstablishesSessionAndCookie(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.login(t, "admin", "admin123")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 1, env.store.Len())

	w := env.get("/auth/status", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Username    string `json:"username"`
			DisplayName string `json:"display_name"`
			Role        string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, "admin", status.User.Username)
	// Display name falls back to the username when the backend omits a name.
	assert.Equal(t, "admin", status.User.DisplayName)
	assert.Equal(t, "ADMIN", status.User.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
	assert.Equal(t, 0, env.store.Len())
	assert.Empty(t, w.Result().Cookies())
}

func TestPageGuard_AnonymousRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/books", "/members", "/loans", "/profile", "/settings"} {
		w := env.get(path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestPageGuard_AnonymousPagesRender(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/login", "/register", "/verify-email", "/find-id", "/find-password"} {
		w := env.get(path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestPageGuard_AuthenticatedLeavesLoginPage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "jane", "janepw")

	for _, path := range []string{"/login", "/register", "/find-password"} {
		w := env.get(path, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}
}

func TestPageGuard_UserRoleBlockedFromAdminPages(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "jane", "janepw")

	for _, path := range []string{"/books", "/members", "/loans"} {
		w := env.get(path, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}

	// Dashboard and profile stay reachable.
	assert.Equal(t, http.StatusOK, env.get("/", cookie).Code)
	assert.Equal(t, http.StatusOK, env.get("/profile", cookie).Code)
}

func TestDashboard_NavDerivedFromRole(t *testing.T) {
	env := newTestEnv(t)

	var model struct {
		Nav []policy.NavEntry `json:"nav"`
	}

	admin := env.login(t, "admin", "admin123")
	w := env.get("/", admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	require.Len(t, model.Nav, 4)
	assert.Equal(t, policy.DestDashboard, model.Nav[0].Destination)
	assert.Equal(t, policy.DestLoans, model.Nav[3].Destination)

	user := env.login(t, "jane", "janepw")
	w = env.get("/", user)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	require.Len(t, model.Nav, 1)
	assert.Equal(t, policy.DestDashboard, model.Nav[0].Destination)
}

func TestMembersPage_SeedAdminRowNotDeletable(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin123")

	w := env.get("/members", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var model struct {
		Members []struct {
			Name      string `json:"name"`
			CanDelete bool   `json:"can_delete"`
		} `json:"members"`
		Actions struct {
			CanDelete bool `json:"can_delete"`
		} `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	require.Len(t, model.Members, 2)

	assert.True(t, model.Actions.CanDelete)
	for _, m := range model.Members {
		if m.Name == "admin" {
			assert.False(t, m.CanDelete, "seed admin row must not be deletable")
		} else {
			assert.True(t, m.CanDelete)
		}
	}
}

func TestAPIGuard_RoleEnforcement(t *testing.T) {
	env := newTestEnv(t)

	// Anonymous: 401.
	w := env.get("/api/books", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")

	// USER on an admin-only proxy: 403.
	user := env.login(t, "jane", "janepw")
	w = env.get("/api/books", user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")

	// USER on the shared dashboard proxy: allowed.
	w = env.get("/api/dashboard/stats", user)
	assert.Equal(t, http.StatusOK, w.Code)

	// ADMIN: allowed.
	admin := env.login(t, "admin", "admin123")
	w = env.get("/api/books", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Go Programming Language")
}

func TestDeleteMember_ProtectedIdentityRefused(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin123")

	req := httptest.NewRequest(http.MethodDelete, "/api/members/1", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "protected_identity")

	// A regular member deletes fine.
	req = httptest.NewRequest(http.MethodDelete, "/api/members/2", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBackendRejection_ClearsSessionOnce(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin123")
	require.Equal(t, 1, env.store.Len())

	// The backend stops honoring the token; the next page load clears the
	// local session and lands on the login page.
	env.back.revoke()

	w := env.get("/books", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, env.store.Len())

	// With the session gone the next navigation is plain anonymous.
	w = env.get("/books", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestBackendRejection_APIRouteAnswers401(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin123")
	env.back.revoke()

	w := env.get("/api/books", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session_expired")
	assert.Equal(t, 0, env.store.Len())
}

func TestLogout_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin123")

	logout := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := logout()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.store.Len())

	// Second logout with the same stale cookie still succeeds.
	w = logout()
	assert.Equal(t, http.StatusOK, w.Code)

	// Cookie is expired client-side.
	for _, c := range w.Result().Cookies() {
		if c.Name == "lms_session" {
			assert.Less(t, c.MaxAge, 0)
		}
	}
}

func TestStatus_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/auth/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
