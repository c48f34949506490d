// Package dispatch implements the admin action dispatcher: a per-console-
// session state machine that maps a (target user, action kind) pair onto one
// confirmation dialog, tracks which dialog is open, and routes confirmed
// actions to the auth backend's admin API.
//
// All state transitions funnel through Open and Close. Close clears the kind
// and target together and cancels any in-flight remote call, so a dialog can
// never outlive its target and a dismissed dialog can never apply a stale
// side effect.
package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"atrium/internal/authclient"
	"atrium/internal/console/device"
	"atrium/internal/console/metrics"
	dErrors "atrium/pkg/domain-errors"
)

// MinPasswordLength is enforced before any remote call, for both account
// creation and password changes.
const MinPasswordLength = 8

// DefaultBanReason is applied when the admin confirms a ban without an
// explicit reason.
const DefaultBanReason = "Suspended by administrator"

// Kind names a confirmation dialog.
type Kind string

const (
	KindNone           Kind = ""
	KindPassword       Kind = "password"
	KindDisable2FA     Kind = "disable2fa"
	KindBan            Kind = "ban"
	KindUnban          Kind = "unban"
	KindRevokeSessions Kind = "revokeSessions"
	KindDelete         Kind = "delete"
	KindEditInfo       Kind = "editInfo"
	KindViewSessions   Kind = "viewSessions"
	KindImpersonate    Kind = "impersonate"
)

var validKinds = map[Kind]bool{
	KindPassword:       true,
	KindDisable2FA:     true,
	KindBan:            true,
	KindUnban:          true,
	KindRevokeSessions: true,
	KindDelete:         true,
	KindEditInfo:       true,
	KindViewSessions:   true,
	KindImpersonate:    true,
}

// selfProtected kinds may never target the acting admin.
var selfProtected = map[Kind]bool{
	KindBan:         true,
	KindUnban:       true,
	KindDelete:      true,
	KindImpersonate: true,
}

// AdminAPI is the slice of the auth backend the dispatcher drives.
// Every method is a remote call; each confirmed action issues it at most once.
type AdminAPI interface {
	CreateUser(ctx context.Context, name, email, password, role string) (*authclient.User, error)
	SetRole(ctx context.Context, userID, role string) error
	SetPassword(ctx context.Context, userID, newPassword string) error
	BanUser(ctx context.Context, userID, reason string) error
	UnbanUser(ctx context.Context, userID string) error
	RevokeUserSessions(ctx context.Context, userID string) error
	ListUserSessions(ctx context.Context, userID string) ([]authclient.SessionEntry, error)
	RevokeUserSession(ctx context.Context, sessionToken string) error
	ImpersonateUser(ctx context.Context, userID string) ([]*http.Cookie, error)
	RemoveUser(ctx context.Context, userID string) error
	UpdateUser(ctx context.Context, userID, name, email string) error
}

// dialog is the per-console-session dialog state.
// Invariant: target is non-nil exactly when kind != KindNone.
type dialog struct {
	kind     Kind
	target   *authclient.User
	inFlight bool
	cancel   context.CancelFunc
}

// Dispatcher owns the dialog table and action routing.
type Dispatcher struct {
	api     AdminAPI
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	dialogs  map[string]*dialog
	creating map[string]bool
}

// New creates a dispatcher. metrics may be nil in tests.
func New(api AdminAPI, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		api:      api,
		logger:   logger,
		metrics:  m,
		dialogs:  make(map[string]*dialog),
		creating: make(map[string]bool),
	}
}

// State reports the open dialog for a console session.
func (d *Dispatcher) State(sessionKey string) (Kind, *authclient.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dlg, ok := d.dialogs[sessionKey]
	if !ok {
		return KindNone, nil
	}
	return dlg.kind, dlg.target
}

// Open sets the target and dialog kind together. Opening over an existing
// dialog closes it first, so at most one dialog is open per session.
func (d *Dispatcher) Open(sessionKey string, target authclient.User, kind Kind) error {
	if !validKinds[kind] {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown dialog kind")
	}
	if target.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "dialog requires a target user")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.dialogs[sessionKey]; ok {
		d.closeLocked(sessionKey, prev)
	}

	d.dialogs[sessionKey] = &dialog{kind: kind, target: &target}
	if d.metrics != nil {
		d.metrics.OpenDialogs.Inc()
	}
	return nil
}

// Close clears the dialog kind and target together and cancels any
// in-flight call bound to the dialog.
func (d *Dispatcher) Close(sessionKey string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dlg, ok := d.dialogs[sessionKey]; ok {
		d.closeLocked(sessionKey, dlg)
	}
}

func (d *Dispatcher) closeLocked(sessionKey string, dlg *dialog) {
	if dlg.cancel != nil {
		dlg.cancel()
	}
	delete(d.dialogs, sessionKey)
	if d.metrics != nil {
		d.metrics.OpenDialogs.Dec()
	}
}

// Payload carries the confirmed dialog's form fields. Only the fields the
// open dialog kind uses are consulted.
type Payload struct {
	Password string `json:"password,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Banned   *bool  `json:"banned,omitempty"`
}

// Result describes what the caller must do after a confirmed action.
type Result struct {
	// RefreshListing is set when the action mutated user records and the
	// snapshot must be fully re-fetched.
	RefreshListing bool
	// NavigateTo forces a full client navigation (impersonation reloads the
	// session from the new cookie).
	NavigateTo string
	// Cookies must be relayed to the browser (impersonation swaps the
	// session cookie).
	Cookies []*http.Cookie
	// Notice is a non-error message to surface (the 2FA-disable stub).
	Notice string
}

// Confirm executes the open dialog's action for the acting admin. The remote
// call runs on a context bound to the dialog's open lifetime: closing the
// dialog cancels it. On success the dialog is closed; on failure it stays
// open so the admin can retry.
func (d *Dispatcher) Confirm(ctx context.Context, sessionKey string, actor authclient.User, payload Payload) (*Result, error) {
	d.mu.Lock()
	dlg, ok := d.dialogs[sessionKey]
	if !ok {
		d.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "no dialog open")
	}
	if dlg.kind == KindViewSessions {
		d.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "session list has no confirm action")
	}
	if dlg.inFlight {
		d.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "action already in flight")
	}

	kind := dlg.kind
	target := *dlg.target

	callCtx, cancel := context.WithCancel(ctx)
	dlg.inFlight = true
	dlg.cancel = cancel
	d.mu.Unlock()

	defer func() {
		cancel()
		d.mu.Lock()
		// The dialog may already be gone if Close raced the call.
		if cur, ok := d.dialogs[sessionKey]; ok && cur == dlg {
			cur.inFlight = false
			cur.cancel = nil
		}
		d.mu.Unlock()
	}()

	result, err := d.execute(callCtx, kind, target, actor, payload)
	d.observe(kind, err)
	if err != nil {
		return nil, err
	}

	d.Close(sessionKey)
	return result, nil
}

func (d *Dispatcher) execute(ctx context.Context, kind Kind, target, actor authclient.User, payload Payload) (*Result, error) {
	if selfProtected[kind] && target.ID == actor.ID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot target your own account")
	}

	switch kind {
	case KindPassword:
		if err := ValidatePassword(payload.Password); err != nil {
			return nil, err
		}
		if err := d.api.SetPassword(ctx, target.ID, payload.Password); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case KindDisable2FA:
		// The backend's admin API has no 2FA-disable operation yet.
		return &Result{Notice: "Two-factor disable is not available"}, nil

	case KindBan:
		reason := strings.TrimSpace(payload.Reason)
		if reason == "" {
			reason = DefaultBanReason
		}
		if err := d.api.BanUser(ctx, target.ID, reason); err != nil {
			return nil, err
		}
		return &Result{RefreshListing: true}, nil

	case KindUnban:
		if err := d.api.UnbanUser(ctx, target.ID); err != nil {
			return nil, err
		}
		return &Result{RefreshListing: true}, nil

	case KindRevokeSessions:
		if err := d.api.RevokeUserSessions(ctx, target.ID); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case KindDelete:
		if err := d.api.RemoveUser(ctx, target.ID); err != nil {
			return nil, err
		}
		return &Result{RefreshListing: true}, nil

	case KindImpersonate:
		cookies, err := d.api.ImpersonateUser(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		return &Result{NavigateTo: "/", Cookies: cookies}, nil

	case KindEditInfo:
		return d.executeEditInfo(ctx, target, actor, payload)

	default:
		return nil, dErrors.New(dErrors.CodeInternal, "unhandled dialog kind")
	}
}

// executeEditInfo issues exactly the subset of set-role / ban-unban /
// update-profile whose field actually differs from the loaded snapshot.
func (d *Dispatcher) executeEditInfo(ctx context.Context, target, actor authclient.User, payload Payload) (*Result, error) {
	name := strings.TrimSpace(payload.Name)
	email := strings.TrimSpace(payload.Email)
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name and email are required")
	}

	roleChanged := payload.Role != "" && payload.Role != target.Role
	banChanged := payload.Banned != nil && *payload.Banned != target.Banned
	profileChanged := name != target.Name || email != target.Email

	if (roleChanged || banChanged) && target.ID == actor.ID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot change your own role or ban state")
	}
	if roleChanged && payload.Role != authclient.RoleUser && payload.Role != authclient.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown role")
	}

	if roleChanged {
		if err := d.api.SetRole(ctx, target.ID, payload.Role); err != nil {
			return nil, err
		}
	}

	if banChanged {
		if *payload.Banned {
			if err := d.api.BanUser(ctx, target.ID, DefaultBanReason); err != nil {
				return nil, err
			}
		} else {
			if err := d.api.UnbanUser(ctx, target.ID); err != nil {
				return nil, err
			}
		}
	}

	if profileChanged {
		if err := d.api.UpdateUser(ctx, target.ID, name, email); err != nil {
			return nil, err
		}
	}

	return &Result{RefreshListing: roleChanged || banChanged || profileChanged}, nil
}

// CreatePayload carries the create-user form.
type CreatePayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Normalize trims the text fields and fills in the default role.
func (p *CreatePayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Role == "" {
		p.Role = authclient.RoleUser
	}
}

// Validate checks the create-user form after normalization.
func (p *CreatePayload) Validate() error {
	if p.Name == "" || p.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "name and email are required")
	}
	if p.Role != authclient.RoleUser && p.Role != authclient.RoleAdmin {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	return ValidatePassword(p.Password)
}

// CreateUser registers a new user. The create dialog is not part of the
// per-target dialog table (it has no target user) but shares the same
// one-call-in-flight discipline per console session.
func (d *Dispatcher) CreateUser(ctx context.Context, sessionKey string, payload CreatePayload) (*authclient.User, error) {
	payload.Normalize()
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.creating[sessionKey] {
		d.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "create already in flight")
	}
	d.creating[sessionKey] = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.creating, sessionKey)
		d.mu.Unlock()
	}()

	user, err := d.api.CreateUser(ctx, payload.Name, payload.Email, payload.Password, payload.Role)
	d.observe("create", err)
	return user, err
}

// SessionRow is one entry of the session sub-list with display hints derived
// from the recorded User-Agent.
type SessionRow struct {
	authclient.SessionEntry
	Device  string       `json:"device"`
	Icon    device.Class `json:"icon"`
	Expired bool         `json:"expired"`
}

// Sessions fetches the open viewSessions dialog's session sub-list.
// Entries are fetched on every call, never cached across opens.
func (d *Dispatcher) Sessions(ctx context.Context, sessionKey string) ([]SessionRow, error) {
	target, err := d.requireViewSessions(sessionKey)
	if err != nil {
		return nil, err
	}

	entries, err := d.api.ListUserSessions(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]SessionRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, SessionRow{
			SessionEntry: e,
			Device:       device.Label(e.UserAgent),
			Icon:         device.Classify(e.UserAgent),
			Expired:      e.Expired(),
		})
	}
	return rows, nil
}

// RevokeSession revokes one session row of the open viewSessions dialog.
// The caller re-fetches the sub-list afterwards.
func (d *Dispatcher) RevokeSession(ctx context.Context, sessionKey, sessionToken string) error {
	if _, err := d.requireViewSessions(sessionKey); err != nil {
		return err
	}
	if sessionToken == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "session token required")
	}
	err := d.api.RevokeUserSession(ctx, sessionToken)
	d.observe("revokeSession", err)
	return err
}

func (d *Dispatcher) requireViewSessions(sessionKey string) (*authclient.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dlg, ok := d.dialogs[sessionKey]
	if !ok || dlg.kind != KindViewSessions {
		return nil, dErrors.New(dErrors.CodeConflict, "session list dialog is not open")
	}
	return dlg.target, nil
}

// RowActions lists the dialog kinds offered for a row. Self-protected
// actions are suppressed when the row is the acting admin; this only hides
// affordances, the authoritative check runs again at Confirm and in the
// backend.
func RowActions(target, actor authclient.User) []Kind {
	actions := []Kind{KindEditInfo, KindPassword, KindViewSessions, KindRevokeSessions, KindDisable2FA}
	if target.ID == actor.ID {
		return actions
	}
	if target.Banned {
		actions = append(actions, KindUnban)
	} else {
		actions = append(actions, KindBan)
	}
	return append(actions, KindImpersonate, KindDelete)
}

// ValidatePassword enforces the minimum length shared by the create and
// set-password flows.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

func (d *Dispatcher) observe(kind Kind, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if dErrors.HasCode(err, dErrors.CodeCancelled) {
			outcome = "cancelled"
		}
	}
	if d.metrics != nil {
		d.metrics.AdminActions.WithLabelValues(string(kind), outcome).Inc()
	}
	if err != nil {
		d.logger.Warn("admin action failed",
			"action", string(kind),
			"error", err,
		)
	}
}
