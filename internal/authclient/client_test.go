package authclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/internal/platform/middleware"
	dErrors "atrium/pkg/domain-errors"
	"atrium/pkg/requestcontext"
)

const testCookie = "better-auth.session_token"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(srv.URL, testCookie, 5*time.Second, WithLogger(logger))
}

func authedCtx(token string) context.Context {
	return requestcontext.WithSessionToken(context.Background(), token)
}

func TestGetSession(t *testing.T) {
	t.Run("returns session for valid cookie", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(testCookie)
			require.NoError(t, err)
			assert.Equal(t, "tok-1", cookie.Value)
			_ = json.NewEncoder(w).Encode(Session{
				User: User{ID: "u1", Name: "Admin", Email: "admin@x.com", Role: RoleAdmin},
			})
		})

		session, err := client.GetSession(authedCtx("tok-1"))
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "u1", session.User.ID)
		assert.True(t, session.IsAdmin())
	})

	t.Run("absent without a cookie, backend never called", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend should not be called")
		})

		session, err := client.GetSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("401 resolves to absent, not error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		session, err := client.GetSession(authedCtx("stale"))
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("unreachable backend resolves to unavailable error", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := New("http://127.0.0.1:1", testCookie, 200*time.Millisecond, WithLogger(logger))

		_, err := client.GetSession(authedCtx("tok"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestPing(t *testing.T) {
	t.Run("reaches the backend without a session token", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, "/api/auth/get-session", r.URL.Path)
			_, err := r.Cookie(testCookie)
			assert.Error(t, err, "ping must not carry a session cookie")
			w.WriteHeader(http.StatusUnauthorized)
		})

		require.NoError(t, client.Ping(context.Background()))
		assert.True(t, called, "ping must issue a real call")
	})

	t.Run("healthy backend", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("unreachable backend fails the check", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := New("http://127.0.0.1:1", testCookie, 200*time.Millisecond, WithLogger(logger))

		err := client.Ping(context.Background())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("5xx fails the check", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.Ping(context.Background())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestAdminCalls(t *testing.T) {
	t.Run("list users decodes page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/admin/list-users", r.URL.Path)
			var req listUsersRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 100, req.Limit)
			_ = json.NewEncoder(w).Encode(listUsersResponse{
				Users: []User{{ID: "u1"}, {ID: "u2"}},
				Total: 2,
			})
		})

		users, err := client.ListUsers(authedCtx("tok"), 100, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("backend error envelope surfaces description", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "forbidden",
				"error_description": "admin role required",
			})
		})

		err := client.BanUser(authedCtx("tok"), "u2", "spam")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Equal(t, "admin role required", err.Error())
	})

	t.Run("5xx maps to unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.RemoveUser(authedCtx("tok"), "u2")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("impersonate relays backend cookies", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: testCookie, Value: "impersonated-tok"})
			w.WriteHeader(http.StatusOK)
		})

		cookies, err := client.ImpersonateUser(authedCtx("tok"), "u2")
		require.NoError(t, err)
		require.Len(t, cookies, 1)
		assert.Equal(t, "impersonated-tok", cookies[0].Value)
	})

	t.Run("cancelled dialog context maps to cancelled", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})

		ctx, cancel := context.WithCancel(authedCtx("tok"))
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		err := client.SetPassword(ctx, "u2", "password123")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeCancelled))
	})
}

func TestListUserSessionsNormalization(t *testing.T) {
	entries := []SessionEntry{
		{ID: "s1", Token: "t1", UserID: "u1"},
		{ID: "s2", Token: "t2", UserID: "u1"},
	}

	cases := []struct {
		name string
		body func() any
		want int
	}{
		{
			name: "bare list",
			body: func() any { return entries },
			want: 2,
		},
		{
			name: "wrapped in sessions field",
			body: func() any { return map[string]any{"sessions": entries} },
			want: 2,
		},
		{
			name: "unrecognized shape yields empty list",
			body: func() any { return map[string]any{"data": 42} },
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/admin/list-user-sessions", r.URL.Path)
				_ = json.NewEncoder(w).Encode(tc.body())
			})

			got, err := client.ListUserSessions(authedCtx("tok"), "u1")
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestMetadataForwarding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0 Chrome/120.0", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(listUsersResponse{})
	})

	ctx := authedCtx("tok")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 Chrome/120.0")

	// Run through the metadata middleware to populate the context the way
	// the gateway does in production.
	captured := make(chan context.Context, 1)
	mw := middleware.Metadata(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured <- r.Context()
	}))
	mw.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	_, err := client.ListUsers(<-captured, 10, 0)
	require.NoError(t, err)
}
