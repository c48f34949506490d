// Package console holds the authenticated shell of the admin console: session
// resolution, the user-listing snapshot, and the glue between HTTP handlers
// and the admin action dispatcher.
package console

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"atrium/internal/authclient"
	"atrium/internal/console/dispatch"
	"atrium/internal/console/listing"
	"atrium/internal/console/metrics"
	dErrors "atrium/pkg/domain-errors"
)

// DefaultListingLimit caps how many users one snapshot refresh pulls from the
// backend.
const DefaultListingLimit = 100

// Backend is everything the console needs from the auth service.
// *authclient.Client satisfies it.
type Backend interface {
	dispatch.AdminAPI
	GetSession(ctx context.Context) (*authclient.Session, error)
	SignOut(ctx context.Context) error
	StopImpersonating(ctx context.Context) ([]*http.Cookie, error)
	ListUsers(ctx context.Context, limit, offset int) ([]authclient.User, error)
}

// Service owns the in-memory user-listing snapshot and routes admin actions
// through the dispatcher. The snapshot is never patched in place: every
// mutating action that touches user records triggers a full re-fetch and an
// atomic swap.
type Service struct {
	backend      Backend
	dispatcher   *dispatch.Dispatcher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	listingLimit int

	listing listing.Snapshot
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithListingLimit overrides the snapshot fetch size.
func WithListingLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.listingLimit = limit
		}
	}
}

// New creates a console service around an auth backend.
func New(backend Backend, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "console service requires a backend")
	}

	s := &Service{
		backend:      backend,
		logger:       slog.Default(),
		listingLimit: DefaultListingLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatcher = dispatch.New(backend, s.logger, s.metrics)
	return s, nil
}

// SessionKey derives the dispatcher key for a console session. The raw token
// never leaves the request path.
func SessionKey(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}

// ResolveSession asks the backend who the cookie belongs to. A nil session
// with a nil error means the cookie is absent or no longer valid.
func (s *Service) ResolveSession(ctx context.Context) (*authclient.Session, error) {
	start := time.Now()
	session, err := s.backend.GetSession(ctx)
	s.observeLatency(start)

	outcome := "present"
	switch {
	case err != nil:
		outcome = "error"
	case session == nil:
		outcome = "absent"
	}
	if s.metrics != nil {
		s.metrics.SessionResolves.WithLabelValues(outcome).Inc()
	}
	return session, err
}

// RefreshListing re-fetches the full user listing and swaps the snapshot.
func (s *Service) RefreshListing(ctx context.Context) error {
	start := time.Now()
	users, err := s.backend.ListUsers(ctx, s.listingLimit, 0)
	s.observeLatency(start)
	if err != nil {
		return err
	}

	s.listing.Swap(users)
	if s.metrics != nil {
		s.metrics.ListingRefreshes.Inc()
	}
	return nil
}

// Listing projects the current snapshot, fetching it first if no refresh has
// happened yet.
func (s *Service) Listing(ctx context.Context, q listing.Query) (listing.Page, error) {
	if !s.listing.Loaded() {
		if err := s.RefreshListing(ctx); err != nil {
			return listing.Page{}, err
		}
	}
	return s.listing.Project(q), nil
}

// Overview is the users-page payload: the listing page, the dialog state for
// this console session, and, when the session sub-list dialog is open, its
// rows. The listing refresh and the sub-list fetch run in parallel.
type Overview struct {
	Page     listing.Page
	Dialog   dispatch.Kind
	Target   *authclient.User
	Sessions []dispatch.SessionRow
}

// LoadOverview refreshes the snapshot and gathers dialog state in one pass.
func (s *Service) LoadOverview(ctx context.Context, sessionKey string, q listing.Query) (*Overview, error) {
	kind, target := s.dispatcher.State(sessionKey)
	ov := &Overview{Dialog: kind, Target: target}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.RefreshListing(ctx)
	})
	if kind == dispatch.KindViewSessions {
		g.Go(func() error {
			rows, err := s.dispatcher.Sessions(ctx, sessionKey)
			if err != nil {
				return err
			}
			ov.Sessions = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov.Page = s.listing.Project(q)
	return ov, nil
}

// OpenDialog looks the target up in the snapshot and opens the dialog.
func (s *Service) OpenDialog(sessionKey, targetID string, kind dispatch.Kind) error {
	target, ok := s.listing.Find(targetID)
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "user not in the current listing")
	}
	return s.dispatcher.Open(sessionKey, target, kind)
}

// CloseDialog dismisses the open dialog and cancels any in-flight action.
func (s *Service) CloseDialog(sessionKey string) {
	s.dispatcher.Close(sessionKey)
}

// DialogState reports the open dialog for a console session.
func (s *Service) DialogState(sessionKey string) (dispatch.Kind, *authclient.User) {
	return s.dispatcher.State(sessionKey)
}

// Confirm executes the open dialog's action and re-fetches the listing when
// the action mutated user records.
func (s *Service) Confirm(ctx context.Context, sessionKey string, actor authclient.User, payload dispatch.Payload) (*dispatch.Result, error) {
	result, err := s.dispatcher.Confirm(ctx, sessionKey, actor, payload)
	if err != nil {
		return nil, err
	}
	if result.RefreshListing {
		if err := s.RefreshListing(ctx); err != nil {
			// The action itself succeeded; serve the stale snapshot rather
			// than failing the request.
			s.logger.WarnContext(ctx, "listing refresh after action failed", "error", err)
		}
	}
	return result, nil
}

// CreateUser registers a new user and re-fetches the listing.
func (s *Service) CreateUser(ctx context.Context, sessionKey string, payload dispatch.CreatePayload) (*authclient.User, error) {
	user, err := s.dispatcher.CreateUser(ctx, sessionKey, payload)
	if err != nil {
		return nil, err
	}
	if err := s.RefreshListing(ctx); err != nil {
		s.logger.WarnContext(ctx, "listing refresh after create failed", "error", err)
	}
	return user, nil
}

// Sessions returns the open session sub-list's rows.
func (s *Service) Sessions(ctx context.Context, sessionKey string) ([]dispatch.SessionRow, error) {
	return s.dispatcher.Sessions(ctx, sessionKey)
}

// RevokeSession revokes one row of the open session sub-list.
func (s *Service) RevokeSession(ctx context.Context, sessionKey, sessionToken string) error {
	return s.dispatcher.RevokeSession(ctx, sessionKey, sessionToken)
}

// SignOut invalidates the backend session for the current cookie.
func (s *Service) SignOut(ctx context.Context) error {
	return s.backend.SignOut(ctx)
}

// StopImpersonating restores the admin's own session. The returned cookies
// must be relayed to the browser.
func (s *Service) StopImpersonating(ctx context.Context) ([]*http.Cookie, error) {
	return s.backend.StopImpersonating(ctx)
}

func (s *Service) observeLatency(start time.Time) {
	if s.metrics != nil {
		s.metrics.BackendLatencyMs.Observe(float64(time.Since(start).Milliseconds()))
	}
}
