// Command stubauth runs the development auth backend: the same /api/auth
// wire surface the console talks to in production, backed by in-memory
// stores and an optional YAML seed of accounts.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"atrium/internal/platform/logger"
	"atrium/internal/platform/middleware"
	"atrium/internal/stubauth"
)

func main() {
	log := logger.New()

	addr := os.Getenv("STUBAUTH_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	cookieName := os.Getenv("STUBAUTH_COOKIE")
	if cookieName == "" {
		cookieName = "better-auth.session_token"
	}

	service := stubauth.NewService(log)
	if seedPath := os.Getenv("STUBAUTH_SEED"); seedPath != "" {
		n, err := service.SeedFromFile(seedPath)
		if err != nil {
			log.Error("seed failed", "path", seedPath, "error", err)
			os.Exit(1)
		}
		log.Info("seeded accounts", "path", seedPath, "count", n)
	} else {
		// A default admin so a fresh stub is immediately usable.
		err := service.Seed([]stubauth.SeedAccount{
			{Name: "Admin", Email: "admin@example.com", Password: "admin-password", Role: stubauth.RoleAdmin},
		})
		if err != nil {
			log.Error("default seed failed", "error", err)
			os.Exit(1)
		}
		log.Info("seeded default admin", "email", "admin@example.com")
	}

	handler := stubauth.NewHandler(service, log, cookieName)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	handler.Register(r)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting stub auth backend", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
