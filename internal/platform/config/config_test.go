package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults when nothing is set", func(t *testing.T) {
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "http://localhost:8081", cfg.AuthBaseURL)
		assert.Equal(t, "better-auth.session_token", cfg.SessionCookie)
		assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
		assert.Equal(t, 100, cfg.ListingLimit)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("ATRIUM_ADDR", ":9999")
		t.Setenv("ATRIUM_AUTH_URL", "https://auth.internal")
		t.Setenv("ATRIUM_BACKEND_TIMEOUT", "3s")

		cfg := FromEnv()

		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, "https://auth.internal", cfg.AuthBaseURL)
		assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	})

	t.Run("listing limit and trusted proxies override", func(t *testing.T) {
		t.Setenv("ATRIUM_LISTING_LIMIT", "250")
		t.Setenv("ATRIUM_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.0.0/16")

		cfg := FromEnv()

		assert.Equal(t, 250, cfg.ListingLimit)
		assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, cfg.TrustedProxies)
	})

	t.Run("non-positive listing limit is ignored", func(t *testing.T) {
		t.Setenv("ATRIUM_LISTING_LIMIT", "0")

		cfg := FromEnv()

		assert.Equal(t, 100, cfg.ListingLimit)
	})

	t.Run("malformed timeout is ignored", func(t *testing.T) {
		t.Setenv("ATRIUM_BACKEND_TIMEOUT", "soon")

		cfg := FromEnv()

		assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	})
}

func TestLoad(t *testing.T) {
	t.Run("yaml file overlays defaults, env wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "atrium.yaml")
		body := "addr: \":7000\"\nauth_base_url: \"http://file.internal\"\nsession_cookie: \"sid\"\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		t.Setenv("ATRIUM_CONFIG", path)
		t.Setenv("ATRIUM_AUTH_URL", "http://env.internal")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "sid", cfg.SessionCookie)
		assert.Equal(t, "http://env.internal", cfg.AuthBaseURL)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Setenv("ATRIUM_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := Load()
		require.Error(t, err)
	})
}
