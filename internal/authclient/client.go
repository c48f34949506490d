// Package authclient is the typed SDK for the external auth backend.
//
// Every piece of auth business logic lives behind this boundary: credential
// verification, session issuance, ban enforcement, impersonation, TOTP. The
// client forwards the caller's session cookie plus client IP and User-Agent,
// translates backend failures into domain errors, and normalizes loosely
// shaped responses before they reach the rest of the gateway.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"atrium/internal/platform/middleware"
	"atrium/internal/platform/tracer"
	dErrors "atrium/pkg/domain-errors"
	"atrium/pkg/requestcontext"
)

// Client calls the auth backend's session and admin API.
type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     tracer.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for warnings at the normalization boundary.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the tracer for outbound call spans.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates an auth backend client.
func New(baseURL, cookieName string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		cookieName: cookieName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = tracer.NewNoop()
	}
	return c
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"message"`
}

// do issues one JSON call against the backend. It forwards the caller's
// session cookie and client metadata, decodes a successful body into out
// (when non-nil), and returns any cookies the backend set so callers can
// relay them to the browser (impersonation swaps the session cookie).
func (c *Client) do(ctx context.Context, method, path string, body, out any) ([]*http.Cookie, error) {
	operation := method + " " + path
	ctx, span := c.tracer.Start(ctx, tracer.SpanBackendCall,
		tracer.String(tracer.AttrOperation, operation),
	)
	var err error
	defer func() { span.End(err) }()

	var reqBody io.Reader
	if body != nil {
		data, mErr := json.Marshal(body)
		if mErr != nil {
			err = dErrors.Wrap(mErr, dErrors.CodeInternal, "failed to marshal request")
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if rErr != nil {
		err = dErrors.Wrap(rErr, dErrors.CodeInternal, "failed to build request")
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := requestcontext.SessionToken(ctx); token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: token})
	}
	if ip := middleware.GetClientIP(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	if ua := middleware.GetUserAgent(ctx); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, dErr := c.httpClient.Do(req)
	if dErr != nil {
		if errors.Is(dErr, context.Canceled) {
			err = dErrors.Wrap(dErr, dErrors.CodeCancelled, "call cancelled")
			return nil, err
		}
		if errors.Is(dErr, context.DeadlineExceeded) {
			err = dErrors.Wrap(dErr, dErrors.CodeTimeout, "auth backend timed out")
			return nil, err
		}
		err = dErrors.Wrap(dErr, dErrors.CodeUnavailable, "auth backend unreachable")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(tracer.Int64(tracer.AttrStatus, int64(resp.StatusCode)))

	if resp.StatusCode >= 400 {
		err = c.statusError(resp)
		return nil, err
	}

	if out != nil {
		if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
			err = dErrors.Wrap(decErr, dErrors.CodeInternal, "failed to decode backend response")
			return nil, err
		}
	}

	return resp.Cookies(), nil
}

// statusError maps a non-2xx backend response to a domain error, preserving
// the backend's description when it sent one.
func (c *Client) statusError(resp *http.Response) error {
	var envelope errorResponse
	msg := ""
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(body, &envelope) == nil {
			msg = envelope.Description
			if msg == "" {
				msg = envelope.Message
			}
			if msg == "" {
				msg = envelope.Error
			}
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("auth backend returned %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return dErrors.New(dErrors.CodeUnauthorized, msg)
	case resp.StatusCode == http.StatusForbidden:
		return dErrors.New(dErrors.CodeForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, msg)
	case resp.StatusCode >= 500:
		return dErrors.New(dErrors.CodeUnavailable, msg)
	default:
		return dErrors.New(dErrors.CodeBadRequest, msg)
	}
}

// GetSession resolves the session carried by the request's cookie.
// A missing or invalid cookie resolves to (nil, nil): "absent" is a state,
// not an error, so the shell can redirect instead of failing.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	if requestcontext.SessionToken(ctx) == "" {
		return nil, nil
	}

	var session Session
	_, err := c.do(ctx, http.MethodGet, "/api/auth/get-session", nil, &session)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.User.ID == "" {
		// Backend answered 200 with an empty body: no session.
		return nil, nil
	}
	return &session, nil
}

// Ping reports whether the backend is reachable and serving. It issues an
// unauthenticated get-session call; an auth-level refusal still proves the
// backend is up, only transport failures and 5xx answers count as down.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/auth/get-session", nil, nil)
	switch {
	case err == nil:
		return nil
	case dErrors.HasCode(err, dErrors.CodeUnavailable),
		dErrors.HasCode(err, dErrors.CodeTimeout):
		return err
	default:
		return nil
	}
}

// SignOut destroys the session behind the request's cookie.
func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/sign-out", struct{}{}, nil)
	return err
}

// StopImpersonating restores the acting admin's own session. The returned
// cookies carry the restored session token and must be relayed to the browser.
func (c *Client) StopImpersonating(ctx context.Context) ([]*http.Cookie, error) {
	return c.do(ctx, http.MethodPost, "/api/auth/admin/stop-impersonating", struct{}{}, nil)
}
