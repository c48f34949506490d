package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures console gateway configuration.
type Server struct {
	Addr           string        `yaml:"addr"`
	Environment    string        `yaml:"environment"`
	AuthBaseURL    string        `yaml:"auth_base_url"`
	SessionCookie  string        `yaml:"session_cookie"`
	CSRFSigningKey string        `yaml:"csrf_signing_key"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	ListingLimit   int           `yaml:"listing_limit"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	TracingEnabled bool          `yaml:"tracing_enabled"`
}

// defaults returns the development configuration.
func defaults() Server {
	return Server{
		Addr:           ":8080",
		Environment:    "development",
		AuthBaseURL:    "http://localhost:8081",
		SessionCookie:  "better-auth.session_token",
		CSRFSigningKey: "dev-secret-key-change-in-production",
		BackendTimeout: 10 * time.Second,
		ListingLimit:   100,
	}
}

// Load builds a Server config so main stays lean: defaults, then the optional
// YAML file named by ATRIUM_CONFIG, then environment variable overrides.
func Load() (Server, error) {
	cfg := defaults()

	if path := os.Getenv("ATRIUM_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// FromEnv builds a Server config from environment variables only,
// ignoring any config file. Used by tests and tooling.
func FromEnv() Server {
	cfg := defaults()
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Server) {
	if v := os.Getenv("ATRIUM_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ATRIUM_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("ATRIUM_AUTH_URL"); v != "" {
		cfg.AuthBaseURL = v
	}
	if v := os.Getenv("ATRIUM_SESSION_COOKIE"); v != "" {
		cfg.SessionCookie = v
	}
	if v := os.Getenv("ATRIUM_CSRF_KEY"); v != "" {
		cfg.CSRFSigningKey = v
	}
	if v := os.Getenv("ATRIUM_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.BackendTimeout = d
		}
	}
	if v := os.Getenv("ATRIUM_LISTING_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ListingLimit = n
		}
	}
	if v := os.Getenv("ATRIUM_TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = cfg.TrustedProxies[:0]
		for _, cidr := range strings.Split(v, ",") {
			if cidr = strings.TrimSpace(cidr); cidr != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, cidr)
			}
		}
	}
	if os.Getenv("ATRIUM_TRACING") == "true" {
		cfg.TracingEnabled = true
	}
}
