// Package handler exposes the console over HTTP: the HTML shell pages and
// the JSON API the pages drive. Every admin mutation is re-validated here
// (CSRF) and in the dispatcher (self-protection) before it reaches the
// backend.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"atrium/internal/authclient"
	"atrium/internal/console"
	"atrium/internal/console/dispatch"
	"atrium/internal/console/listing"
	"atrium/internal/platform/csrf"
	"atrium/internal/platform/middleware"
	"atrium/internal/web"
	dErrors "atrium/pkg/domain-errors"
	"atrium/pkg/platform/httputil"
	"atrium/pkg/requestcontext"
)

// Handler wires the console service to chi routes.
type Handler struct {
	console    *console.Service
	csrf       *csrf.Service
	renderer   *web.Renderer
	logger     *slog.Logger
	cookieName string
}

// New creates a console handler.
func New(svc *console.Service, csrfSvc *csrf.Service, renderer *web.Renderer, logger *slog.Logger, cookieName string) *Handler {
	return &Handler{
		console:    svc,
		csrf:       csrfSvc,
		renderer:   renderer,
		logger:     logger,
		cookieName: cookieName,
	}
}

// RegisterPages mounts the HTML routes. The auth screens are public; the
// shell pages resolve the session before rendering.
func (h *Handler) RegisterPages(r chi.Router) {
	r.Get("/login", h.renderAuthPage("login.html"))
	r.Get("/register", h.renderAuthPage("register.html"))
	r.Get("/totp", h.renderAuthPage("totp.html"))

	r.Group(func(r chi.Router) {
		r.Use(h.console.RequireSession(h.cookieName, false))
		r.Get("/", h.HandleConsolePage)

		r.Group(func(r chi.Router) {
			r.Use(h.console.RequireAdmin(false))
			r.Get("/users", h.HandleUsersPage)
		})
	})
}

// RegisterAPI mounts the JSON routes under /api/console.
func (h *Handler) RegisterAPI(r chi.Router) {
	r.Route("/api/console", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(h.console.RequireSession(h.cookieName, true))

		r.Get("/session", h.HandleSession)
		r.With(h.requireCSRF).Post("/sign-out", h.HandleSignOut)
		r.With(h.requireCSRF).Post("/stop-impersonating", h.HandleStopImpersonating)

		r.Group(func(r chi.Router) {
			r.Use(h.console.RequireAdmin(true))
			r.Get("/users", h.HandleListUsers)

			r.Group(func(r chi.Router) {
				r.Use(h.requireCSRF)
				r.Post("/users", h.HandleCreateUser)
				r.Post("/users/{user_id}/dialog", h.HandleOpenDialog)
				r.Delete("/dialog", h.HandleCloseDialog)
				r.Post("/dialog/confirm", h.HandleConfirm)
				r.Delete("/dialog/sessions/{session_token}", h.HandleRevokeSession)
			})
		})
	})
}

// requireCSRF checks the double-submit token on every mutating call.
func (h *Handler) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-CSRF-Token")
		sessionToken := requestcontext.SessionToken(r.Context())
		if err := h.csrf.Verify(token, sessionToken); err != nil {
			h.logger.WarnContext(r.Context(), "csrf check failed",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "invalid or missing CSRF token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Pages
// =============================================================================

func (h *Handler) renderAuthPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.renderer.Render(w, name, nil); err != nil {
			h.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
		}
	}
}

type pageData struct {
	User           authclient.User
	IsAdmin        bool
	ImpersonatedBy string
	CSRFToken      string
}

func (h *Handler) shellData(r *http.Request) (pageData, error) {
	session, _ := console.SessionFromContext(r.Context())
	token, err := h.csrf.Issue(requestcontext.SessionToken(r.Context()))
	if err != nil {
		return pageData{}, err
	}
	return pageData{
		User:           session.User,
		IsAdmin:        session.IsAdmin(),
		ImpersonatedBy: session.ImpersonatedBy,
		CSRFToken:      token,
	}, nil
}

// HandleConsolePage renders the authenticated home shell.
func (h *Handler) HandleConsolePage(w http.ResponseWriter, r *http.Request) {
	h.renderShell(w, r, "console.html")
}

// HandleUsersPage renders the user-management shell. The table itself is
// fetched by the page from the JSON API.
func (h *Handler) HandleUsersPage(w http.ResponseWriter, r *http.Request) {
	h.renderShell(w, r, "users.html")
}

func (h *Handler) renderShell(w http.ResponseWriter, r *http.Request, name string) {
	data, err := h.shellData(r)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "shell data failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
	}
}

// =============================================================================
// Session API
// =============================================================================

type sessionResponse struct {
	User           authclient.User `json:"user"`
	ImpersonatedBy string          `json:"impersonatedBy,omitempty"`
	CSRFToken      string          `json:"csrfToken"`
}

// HandleSession implements GET /api/console/session.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, _ := console.SessionFromContext(r.Context())
	token, err := h.csrf.Issue(requestcontext.SessionToken(r.Context()))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not issue CSRF token"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		User:           session.User,
		ImpersonatedBy: session.ImpersonatedBy,
		CSRFToken:      token,
	})
}

// HandleSignOut implements POST /api/console/sign-out.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.console.SignOut(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Expire the cookie regardless; the backend already dropped the session.
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleStopImpersonating implements POST /api/console/stop-impersonating.
// The backend answers with the admin's original session cookie, which is
// relayed to the browser.
func (h *Handler) HandleStopImpersonating(w http.ResponseWriter, r *http.Request) {
	cookies, err := h.console.StopImpersonating(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	relayCookies(w, cookies)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// =============================================================================
// Users API
// =============================================================================

type listUsersResponse struct {
	listing.Page
	Actions  map[string][]dispatch.Kind `json:"actions"`
	Dialog   dialogState                `json:"dialog"`
	Sessions []dispatch.SessionRow      `json:"sessions,omitempty"`
}

type dialogState struct {
	Kind   dispatch.Kind    `json:"kind"`
	Target *authclient.User `json:"target,omitempty"`
}

// HandleListUsers implements GET /api/console/users. Every call re-fetches
// the snapshot, so the page after a mutation always shows backend truth.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	session, _ := console.SessionFromContext(r.Context())
	key := h.sessionKey(r)

	ov, err := h.console.LoadOverview(r.Context(), key, parseQuery(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	actions := make(map[string][]dispatch.Kind, len(ov.Page.Users))
	for _, u := range ov.Page.Users {
		actions[u.ID] = dispatch.RowActions(u, session.User)
	}

	httputil.WriteJSON(w, http.StatusOK, listUsersResponse{
		Page:     ov.Page,
		Actions:  actions,
		Dialog:   dialogState{Kind: ov.Dialog, Target: ov.Target},
		Sessions: ov.Sessions,
	})
}

func parseQuery(r *http.Request) listing.Query {
	q := listing.Query{Search: r.URL.Query().Get("search")}
	if col, ok := listing.ParseColumn(r.URL.Query().Get("sortBy")); ok {
		q.SortBy = col
		q.Desc = r.URL.Query().Get("desc") == "true"
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		q.PageSize = size
	}
	if raw := r.URL.Query().Get("columns"); raw != "" {
		var cols []listing.Column
		for _, name := range strings.Split(raw, ",") {
			if col, ok := listing.ParseColumn(name); ok {
				cols = append(cols, col)
			}
		}
		q.Visible = cols
	}
	return q
}

// HandleCreateUser implements POST /api/console/users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[dispatch.CreatePayload](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	user, err := h.console.CreateUser(ctx, h.sessionKey(r), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

// =============================================================================
// Dialog API
// =============================================================================

type openDialogRequest struct {
	Kind dispatch.Kind `json:"kind"`
}

// HandleOpenDialog implements POST /api/console/users/{user_id}/dialog.
func (h *Handler) HandleOpenDialog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[openDialogRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	userID := chi.URLParam(r, "user_id")
	if err := h.console.OpenDialog(h.sessionKey(r), userID, req.Kind); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleCloseDialog implements DELETE /api/console/dialog. Closing cancels
// any in-flight action bound to the dialog.
func (h *Handler) HandleCloseDialog(w http.ResponseWriter, r *http.Request) {
	h.console.CloseDialog(h.sessionKey(r))
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type confirmResponse struct {
	OK         bool   `json:"ok"`
	NavigateTo string `json:"navigateTo,omitempty"`
	Notice     string `json:"notice,omitempty"`
}

// HandleConfirm implements POST /api/console/dialog/confirm.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[dispatch.Payload](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	session, _ := console.SessionFromContext(ctx)
	result, err := h.console.Confirm(ctx, h.sessionKey(r), session.User, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	relayCookies(w, result.Cookies)
	httputil.WriteJSON(w, http.StatusOK, confirmResponse{
		OK:         true,
		NavigateTo: result.NavigateTo,
		Notice:     result.Notice,
	})
}

// HandleRevokeSession implements DELETE /api/console/dialog/sessions/{session_token}.
func (h *Handler) HandleRevokeSession(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "session_token")
	if err := h.console.RevokeSession(r.Context(), h.sessionKey(r), token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) sessionKey(r *http.Request) string {
	return console.SessionKey(requestcontext.SessionToken(r.Context()))
}

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
}
