package main

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atrium/internal/authclient"
	"atrium/internal/authproxy"
	"atrium/internal/console"
	consolehandler "atrium/internal/console/handler"
	consolemetrics "atrium/internal/console/metrics"
	"atrium/internal/guard"
	"atrium/internal/platform/config"
	"atrium/internal/platform/csrf"
	"atrium/internal/platform/health"
	"atrium/internal/platform/logger"
	"atrium/internal/platform/tracer"
	httptransport "atrium/internal/transport/http"
	"atrium/internal/web"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New()

	log.Info("initializing console gateway",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"auth_base_url", cfg.AuthBaseURL,
	)

	m := consolemetrics.New()

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}

	backend := authclient.New(cfg.AuthBaseURL, cfg.SessionCookie, cfg.BackendTimeout,
		authclient.WithLogger(log),
		authclient.WithTracer(tr),
	)

	svc, err := console.New(backend,
		console.WithLogger(log),
		console.WithMetrics(m),
		console.WithListingLimit(cfg.ListingLimit),
	)
	if err != nil {
		log.Error("console service init failed", "error", err)
		os.Exit(1)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Error("template parsing failed", "error", err)
		os.Exit(1)
	}

	proxy, err := authproxy.New(cfg.AuthBaseURL, log)
	if err != nil {
		log.Error("invalid auth base url", "error", err)
		os.Exit(1)
	}

	trustedProxies := make([]netip.Prefix, 0, len(cfg.TrustedProxies))
	for _, cidr := range cfg.TrustedProxies {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			log.Error("invalid trusted proxy CIDR", "cidr", cidr, "error", err)
			os.Exit(1)
		}
		trustedProxies = append(trustedProxies, prefix)
	}

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("auth_backend", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return backend.Ping(ctx)
	})

	csrfService := csrf.NewService(cfg.CSRFSigningKey, time.Hour)
	consoleHandler := consolehandler.New(svc, csrfService, renderer, log, cfg.SessionCookie)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Console:        consoleHandler,
		Guard:          guard.New(cfg.SessionCookie, log, guard.WithRedirectCounter(m.GuardRedirects)),
		AuthProxy:      proxy,
		Static:         web.StaticHandler(),
		Health:         healthHandler,
		TrustedProxies: trustedProxies,
		RequestTimeout: cfg.BackendTimeout + 5*time.Second,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
