// Package httptransport assembles the console's HTTP surface: shell pages,
// the JSON API, the auth proxy, static assets, health, and metrics. It holds
// no business logic; ordering of middleware is the only decision made here.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atrium/internal/console/handler"
	"atrium/internal/guard"
	"atrium/internal/platform/health"
	"atrium/internal/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Console        *handler.Handler
	Guard          *guard.Guard
	AuthProxy      http.Handler
	Static         http.Handler
	Health         *health.Handler
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
}

// NewRouter wires the full middleware stack and all route groups.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata(d.TrustedProxies))
	r.Use(middleware.Logger(d.Logger))

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	d.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", d.Static)

	// Sign-in flows go straight to the auth backend; the proxy keeps the
	// session cookie first-party.
	r.Handle("/api/auth/*", d.AuthProxy)

	// The guard only checks cookie presence on page navigations. The shell
	// resolves the cookie against the backend before rendering anything, and
	// the JSON API answers 401 instead of redirecting.
	r.Group(func(r chi.Router) {
		r.Use(d.Guard.Middleware)
		d.Console.RegisterPages(r)
	})
	d.Console.RegisterAPI(r)

	return r
}
