package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/internal/authclient"
	"atrium/internal/authproxy"
	"atrium/internal/console"
	consolehandler "atrium/internal/console/handler"
	"atrium/internal/guard"
	"atrium/internal/platform/csrf"
	"atrium/internal/platform/health"
	"atrium/internal/stubauth"
	httptransport "atrium/internal/transport/http"
	"atrium/internal/web"
)

const cookieName = "better-auth.session_token"

// env is a console gateway wired against an in-process stub auth backend,
// the same way production wires against the real one.
type env struct {
	gateway *httptest.Server
	client  *http.Client
}

func setup(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := stubauth.NewService(logger)
	require.NoError(t, backend.Seed([]stubauth.SeedAccount{
		{Name: "Root", Email: "root@example.com", Password: "root-password", Role: stubauth.RoleAdmin},
		{Name: "Mona", Email: "mona@example.com", Password: "mona-password", Role: stubauth.RoleUser},
	}))

	backendRouter := chi.NewRouter()
	stubauth.NewHandler(backend, logger, cookieName).Register(backendRouter)
	backendSrv := httptest.NewServer(backendRouter)
	t.Cleanup(backendSrv.Close)

	client := authclient.New(backendSrv.URL, cookieName, 5*time.Second, authclient.WithLogger(logger))
	svc, err := console.New(client, console.WithLogger(logger))
	require.NoError(t, err)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	proxy, err := authproxy.New(backendSrv.URL, logger)
	require.NoError(t, err)

	csrfService := csrf.NewService("integration-signing-key", time.Hour)
	h := consolehandler.New(svc, csrfService, renderer, logger, cookieName)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    logger,
		Console:   h,
		Guard:     guard.New(cookieName, logger),
		AuthProxy: proxy,
		Static:    web.StaticHandler(),
		Health:    health.New("test"),
	})

	gateway := httptest.NewServer(router)
	t.Cleanup(gateway.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		gateway: gateway,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (e *env) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.gateway.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := e.client.Do(req)
	require.NoError(t, err)
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func (e *env) signIn(t *testing.T, email, password string) {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/auth/sign-in/email",
		map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
}

func (e *env) csrfToken(t *testing.T) string {
	t.Helper()
	res := e.do(t, http.MethodGet, "/api/console/session", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	payload := decodeBody[struct {
		CSRFToken string `json:"csrfToken"`
	}](t, res)
	require.NotEmpty(t, payload.CSRFToken)
	return payload.CSRFToken
}

type usersPayload struct {
	Users []struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Banned bool   `json:"banned"`
	} `json:"users"`
	Total   int                 `json:"total"`
	Actions map[string][]string `json:"actions"`
}

func (e *env) listUsers(t *testing.T, query string) usersPayload {
	t.Helper()
	res := e.do(t, http.MethodGet, "/api/console/users"+query, nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	return decodeBody[usersPayload](t, res)
}

func (e *env) findUser(t *testing.T, email string) (id string, banned bool) {
	t.Helper()
	page := e.listUsers(t, "?search="+email)
	require.Len(t, page.Users, 1)
	return page.Users[0].ID, page.Users[0].Banned
}

// =============================================================================
// Route Guard
// =============================================================================

func TestGuardRedirectsUnauthenticatedNavigation(t *testing.T) {
	e := setup(t)

	res := e.do(t, http.MethodGet, "/users", nil, nil)
	defer res.Body.Close()

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Location"), "/login?from=%2Fusers")
}

func TestGuardPassesPublicPaths(t *testing.T) {
	e := setup(t)

	for _, path := range []string{"/login", "/register", "/totp"} {
		res := e.do(t, http.MethodGet, path, nil, nil)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
	}
}

func TestStaleCookiePassesGuardButBouncesAtShell(t *testing.T) {
	e := setup(t)

	req, err := http.NewRequest(http.MethodGet, e.gateway.URL+"/users", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale-token"})
	res, err := e.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	// The guard sees a cookie and lets the navigation through; the shell
	// resolves it against the backend and bounces.
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Location"), "/login")
}

// =============================================================================
// Auth Flow Through the Proxy
// =============================================================================

func TestSignInThroughProxySetsFirstPartyCookie(t *testing.T) {
	e := setup(t)
	e.signIn(t, "root@example.com", "root-password")

	res := e.do(t, http.MethodGet, "/", nil, nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Welcome, Root")
}

func TestNonAdminCannotReachUserManagement(t *testing.T) {
	e := setup(t)
	e.signIn(t, "mona@example.com", "mona-password")

	res := e.do(t, http.MethodGet, "/users", nil, nil)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = e.do(t, http.MethodGet, "/api/console/users", nil, nil)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// =============================================================================
// Admin Lifecycle: create, ban, unban
// =============================================================================

func TestAdminUserLifecycle(t *testing.T) {
	e := setup(t)
	e.signIn(t, "root@example.com", "root-password")
	token := e.csrfToken(t)
	headers := map[string]string{"X-CSRF-Token": token}

	// Create Taro.
	res := e.do(t, http.MethodPost, "/api/console/users", map[string]string{
		"name": "Taro", "email": "taro@example.com", "password": "taro-password",
	}, headers)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res.Body.Close()

	taroID, banned := e.findUser(t, "taro@example.com")
	assert.False(t, banned)

	// Ban through the dialog flow with the default reason.
	res = e.do(t, http.MethodPost, fmt.Sprintf("/api/console/users/%s/dialog", taroID),
		map[string]string{"kind": "ban"}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodPost, "/api/console/dialog/confirm", map[string]string{}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	_, banned = e.findUser(t, "taro@example.com")
	assert.True(t, banned, "listing reflects the ban after the snapshot refresh")

	// Banned users cannot sign in.
	res = e.do(t, http.MethodPost, "/api/auth/sign-in/email",
		map[string]string{"email": "taro@example.com", "password": "taro-password"}, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()

	// Unban restores access.
	res = e.do(t, http.MethodPost, fmt.Sprintf("/api/console/users/%s/dialog", taroID),
		map[string]string{"kind": "unban"}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodPost, "/api/console/dialog/confirm", map[string]string{}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	_, banned = e.findUser(t, "taro@example.com")
	assert.False(t, banned)
}

func TestMutationsRejectedWithoutCSRF(t *testing.T) {
	e := setup(t)
	e.signIn(t, "root@example.com", "root-password")

	res := e.do(t, http.MethodPost, "/api/console/users", map[string]string{
		"name": "Taro", "email": "taro@example.com", "password": "taro-password",
	}, nil)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestSelfProtectionEndToEnd(t *testing.T) {
	e := setup(t)
	e.signIn(t, "root@example.com", "root-password")
	headers := map[string]string{"X-CSRF-Token": e.csrfToken(t)}

	page := e.listUsers(t, "")
	rootID, _ := e.findUser(t, "root@example.com")

	// Affordances for the acting admin's own row exclude destructive kinds.
	self := page.Actions[rootID]
	assert.NotContains(t, self, "ban")
	assert.NotContains(t, self, "delete")
	assert.NotContains(t, self, "impersonate")

	// A forced attempt is rejected server-side.
	res := e.do(t, http.MethodPost, fmt.Sprintf("/api/console/users/%s/dialog", rootID),
		map[string]string{"kind": "delete"}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodPost, "/api/console/dialog/confirm", map[string]string{}, headers)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()
}

// =============================================================================
// Impersonation
// =============================================================================

func TestImpersonationRoundTrip(t *testing.T) {
	e := setup(t)
	e.signIn(t, "root@example.com", "root-password")
	headers := map[string]string{"X-CSRF-Token": e.csrfToken(t)}

	monaID, _ := e.findUser(t, "mona@example.com")

	res := e.do(t, http.MethodPost, fmt.Sprintf("/api/console/users/%s/dialog", monaID),
		map[string]string{"kind": "impersonate"}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodPost, "/api/console/dialog/confirm", map[string]string{}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	payload := decodeBody[struct {
		NavigateTo string `json:"navigateTo"`
	}](t, res)
	assert.Equal(t, "/", payload.NavigateTo)

	// The relayed cookie means the console now resolves to Mona.
	res = e.do(t, http.MethodGet, "/api/console/session", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	session := decodeBody[struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		ImpersonatedBy string `json:"impersonatedBy"`
	}](t, res)
	assert.Equal(t, "mona@example.com", session.User.Email)
	assert.NotEmpty(t, session.ImpersonatedBy)

	// Returning restores the admin's own session.
	res = e.do(t, http.MethodPost, "/api/console/stop-impersonating", nil,
		map[string]string{"X-CSRF-Token": e.csrfToken(t)})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodGet, "/api/console/session", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	restored := decodeBody[struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}](t, res)
	assert.Equal(t, "root@example.com", restored.User.Email)
}

// =============================================================================
// Session Sub-List
// =============================================================================

func TestSessionSubListShowsDeviceLabels(t *testing.T) {
	e := setup(t)

	// Mona opens a session with a recognizable User-Agent by signing in
	// directly; then the admin inspects it.
	monaClient := setupClientFor(t, e)
	const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	req, err := http.NewRequest(http.MethodPost, e.gateway.URL+"/api/auth/sign-in/email",
		bytes.NewReader([]byte(`{"email":"mona@example.com","password":"mona-password"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", chromeUA)
	res, err := monaClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	e.signIn(t, "root@example.com", "root-password")
	headers := map[string]string{"X-CSRF-Token": e.csrfToken(t)}
	monaID, _ := e.findUser(t, "mona@example.com")

	res = e.do(t, http.MethodPost, fmt.Sprintf("/api/console/users/%s/dialog", monaID),
		map[string]string{"kind": "viewSessions"}, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = e.do(t, http.MethodGet, "/api/console/users", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	payload := decodeBody[struct {
		Sessions []struct {
			Device string `json:"device"`
			Token  string `json:"token"`
		} `json:"sessions"`
	}](t, res)
	require.Len(t, payload.Sessions, 1)
	assert.Contains(t, payload.Sessions[0].Device, "Chrome")

	// Revoking the row kills Mona's session.
	res = e.do(t, http.MethodDelete, "/api/console/dialog/sessions/"+payload.Sessions[0].Token, nil, headers)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	req, err = http.NewRequest(http.MethodGet, e.gateway.URL+"/api/console/session", nil)
	require.NoError(t, err)
	res, err = monaClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func setupClientFor(t *testing.T, e *env) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}
