// Package authproxy forwards /api/auth/* verbatim to the auth backend. The
// console never parses these flows; sign-in, sign-up, and 2FA verification
// are backend conversations between the browser and the auth service, and
// the proxy only keeps them on the console's origin so the session cookie is
// first-party.
package authproxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// New builds the reverse proxy for the auth backend base URL.
func New(authBaseURL string, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(authBaseURL)
	if err != nil {
		return nil, err
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// The backend sees the browser's Host, not the console's.
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "auth proxy error",
				"path", r.URL.Path,
				"error", err,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"unavailable","error_description":"auth backend unreachable"}`))
		},
	}
	return proxy, nil
}
