package console

import (
	"context"
	"net/http"
	"net/url"

	"atrium/internal/authclient"
	dErrors "atrium/pkg/domain-errors"
	"atrium/pkg/platform/httputil"
	"atrium/pkg/requestcontext"
)

type sessionCtxKey struct{}

// WithSession stores the resolved session on the request context.
func WithSession(ctx context.Context, session *authclient.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// SessionFromContext returns the session resolved by RequireSession.
func SessionFromContext(ctx context.Context) (*authclient.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(*authclient.Session)
	return session, ok && session != nil
}

// RequireSession resolves the session cookie against the backend before the
// shell renders. The cookie-presence guard upstream is only a hint; this is
// where an invalid or revoked cookie is actually caught. Page requests
// bounce to the login screen, API requests get a 401 envelope.
func (s *Service) RequireSession(cookieName string, api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				ctx = requestcontext.WithSessionToken(ctx, cookie.Value)
			}

			session, err := s.ResolveSession(ctx)
			if err != nil {
				// A failed session fetch is treated the same as an absent
				// session; there is no retry at this layer.
				session = nil
			}
			if session == nil {
				if api {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session required"))
					return
				}
				redirectToLogin(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}

// RequireAdmin gates the user-management surface. Non-admin sessions see a
// static message; the backend enforces the same check on every admin call.
func (s *Service) RequireAdmin(api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session required"))
				return
			}
			if !session.IsAdmin() {
				if api {
					httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
					return
				}
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("<!doctype html><title>Forbidden</title><p>You do not have permission to view this page.</p>"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Path
	if r.URL.RawQuery != "" {
		from += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, "/login?from="+url.QueryEscape(from), http.StatusFound)
}
