package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the console gateway.
type Metrics struct {
	GuardRedirects   prometheus.Counter
	SessionResolves  *prometheus.CounterVec
	AdminActions     *prometheus.CounterVec
	ListingRefreshes prometheus.Counter
	OpenDialogs      prometheus.Gauge
	BackendLatencyMs prometheus.Histogram
}

// New registers and returns console metrics collectors.
func New() *Metrics {
	return &Metrics{
		GuardRedirects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atrium_guard_redirects_total",
			Help: "Total number of unauthenticated navigations redirected to login",
		}),
		SessionResolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atrium_session_resolves_total",
			Help: "Session resolutions by outcome (present, absent, error)",
		}, []string{"outcome"}),
		AdminActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atrium_admin_actions_total",
			Help: "Admin actions dispatched, by action kind and outcome",
		}, []string{"action", "outcome"}),
		ListingRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atrium_listing_refreshes_total",
			Help: "Full user-listing snapshot refreshes",
		}),
		OpenDialogs: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "atrium_open_dialogs",
			Help: "Dialogs currently open across console sessions",
		}),
		BackendLatencyMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "atrium_backend_latency_ms",
			Help:    "Latency of auth backend admin calls in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
	}
}
