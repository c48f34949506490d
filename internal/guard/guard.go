// Package guard implements the edge routing decision for the console: every
// inbound navigation either matches the public allow-list or must carry the
// session cookie. The cookie is only checked for presence, never parsed or
// validated; the auth backend re-validates it on every subsequent call, so
// this layer is a routing convenience, not a security boundary.
package guard

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"atrium/internal/platform/middleware"
)

// LoginPath is where unauthenticated traffic is sent.
const LoginPath = "/login"

// defaultPublicPrefixes pass through unconditionally. Matching is by path
// prefix so nested auth routes stay reachable without a cookie.
var defaultPublicPrefixes = []string{
	"/login",
	"/register",
	"/totp",
	"/api/auth",
}

// Guard decides whether a request may proceed without a session cookie.
type Guard struct {
	cookieName     string
	publicPrefixes []string
	logger         *slog.Logger
	redirects      prometheus.Counter
}

// Option configures the Guard.
type Option func(*Guard)

// WithPublicPrefixes replaces the default public allow-list.
func WithPublicPrefixes(prefixes []string) Option {
	return func(g *Guard) {
		g.publicPrefixes = prefixes
	}
}

// WithRedirectCounter records every login redirect the guard issues.
func WithRedirectCounter(c prometheus.Counter) Option {
	return func(g *Guard) {
		g.redirects = c
	}
}

// New creates a route guard checking for the named session cookie.
func New(cookieName string, logger *slog.Logger, opts ...Option) *Guard {
	g := &Guard{
		cookieName:     cookieName,
		publicPrefixes: defaultPublicPrefixes,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Middleware intercepts every in-bound navigation. Public paths pass
// unconditionally; anything else without the session cookie is redirected to
// the login page with the original destination preserved in `from`.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := r.Cookie(g.cookieName); err != nil {
			g.redirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Guard) isPublic(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *Guard) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if g.redirects != nil {
		g.redirects.Inc()
	}
	g.logger.InfoContext(r.Context(), "unauthenticated navigation redirected",
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	query := url.Values{"from": {r.URL.Path}}
	http.Redirect(w, r, LoginPath+"?"+query.Encode(), http.StatusFound)
}
