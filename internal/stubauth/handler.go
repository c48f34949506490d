package stubauth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "atrium/pkg/domain-errors"
	"atrium/pkg/platform/httputil"
)

// Handler exposes the stub over the better-auth-shaped wire surface.
type Handler struct {
	service    *Service
	logger     *slog.Logger
	cookieName string
}

// NewHandler creates the HTTP layer around a stub service.
func NewHandler(service *Service, logger *slog.Logger, cookieName string) *Handler {
	if cookieName == "" {
		cookieName = "better-auth.session_token"
	}
	return &Handler{service: service, logger: logger, cookieName: cookieName}
}

// Register mounts all /api/auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-up/email", h.handleSignUp)
		r.Post("/sign-in/email", h.handleSignIn)
		r.Post("/two-factor/verify-totp", h.handleVerifyTOTP)
		r.Get("/get-session", h.handleGetSession)
		r.Post("/sign-out", h.handleSignOut)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/list-users", h.handleListUsers)
			r.Post("/create-user", h.handleCreateUser)
			r.Post("/set-role", h.handleSetRole)
			r.Post("/set-user-password", h.handleSetPassword)
			r.Post("/ban-user", h.handleBanUser)
			r.Post("/unban-user", h.handleUnbanUser)
			r.Post("/revoke-user-sessions", h.handleRevokeUserSessions)
			r.Post("/list-user-sessions", h.handleListUserSessions)
			r.Post("/revoke-user-session", h.handleRevokeUserSession)
			r.Post("/impersonate-user", h.handleImpersonate)
			r.Post("/stop-impersonating", h.handleStopImpersonating)
			r.Post("/remove-user", h.handleRemoveUser)
			r.Post("/update-user", h.handleUpdateUser)
		})
	})
}

func (h *Handler) token(r *http.Request) string {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return nil, false
	}
	return &req, true
}

func clientMeta(r *http.Request) (ip, userAgent string) {
	ip = r.Header.Get("X-Forwarded-For")
	if idx := strings.IndexByte(ip, ','); idx >= 0 {
		ip = strings.TrimSpace(ip[:idx])
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip, r.UserAgent()
}

// =============================================================================
// Auth Flows
// =============================================================================

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[signUpRequest](w, r)
	if !ok {
		return
	}
	ip, ua := clientMeta(r)
	account, session, err := h.service.SignUp(req.Name, req.Email, req.Password, ip, ua)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, session)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"user": toWire(account)})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[signInRequest](w, r)
	if !ok {
		return
	}
	ip, ua := clientMeta(r)
	account, session, err := h.service.SignIn(req.Email, req.Password, ip, ua)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, session)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"user":              toWire(account),
		"twoFactorRedirect": account.TwoFactorEnabled,
	})
}

type verifyTOTPRequest struct {
	Code string `json:"code"`
}

// handleVerifyTOTP accepts any six-digit code. The stub never provisions
// real TOTP secrets; the endpoint exists so the console's 2FA screen has a
// backend to talk to.
func (h *Handler) handleVerifyTOTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[verifyTOTPRequest](w, r)
	if !ok {
		return
	}
	if len(req.Code) != 6 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid code"))
		return
	}
	if _, _, err := h.service.Resolve(h.token(r)); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, account, err := h.service.Resolve(h.token(r))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no session"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"user":           toWire(account),
		"impersonatedBy": session.ImpersonatedBy,
		"expiresAt":      session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.service.SignOut(h.token(r))
	h.clearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// =============================================================================
// Admin Endpoints
// =============================================================================

type listUsersRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[listUsersRequest](w, r)
	if !ok {
		return
	}
	accounts, total, err := h.service.ListUsers(h.token(r), req.Limit, req.Offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	users := make([]wireUser, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, toWire(a))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": users, "total": total})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createUserRequest](w, r)
	if !ok {
		return
	}
	account, err := h.service.CreateUser(h.token(r), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"user": toWire(account)})
}

type setRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[setRoleRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.SetRole(h.token(r), req.UserID, req.Role))
}

type setPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[setPasswordRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.SetPassword(h.token(r), req.UserID, req.NewPassword))
}

type banUserRequest struct {
	UserID    string `json:"userId"`
	BanReason string `json:"banReason"`
}

func (h *Handler) handleBanUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[banUserRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.BanUser(h.token(r), req.UserID, req.BanReason))
}

type userIDRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) handleUnbanUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[userIDRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.UnbanUser(h.token(r), req.UserID))
}

func (h *Handler) handleRevokeUserSessions(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[userIDRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.RevokeUserSessions(h.token(r), req.UserID))
}

func (h *Handler) handleListUserSessions(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[userIDRequest](w, r)
	if !ok {
		return
	}
	sessions, err := h.service.ListUserSessions(h.token(r), req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]wireSession, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toWireSession(sess))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

type revokeSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

func (h *Handler) handleRevokeUserSession(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[revokeSessionRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.RevokeUserSession(h.token(r), req.SessionToken))
}

func (h *Handler) handleImpersonate(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[userIDRequest](w, r)
	if !ok {
		return
	}
	ip, ua := clientMeta(r)
	session, err := h.service.Impersonate(h.token(r), req.UserID, ip, ua)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, session)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleStopImpersonating(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.StopImpersonating(h.token(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, session)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[userIDRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.RemoveUser(h.token(r), req.UserID))
}

type updateUserRequest struct {
	UserID string `json:"userId"`
	Data   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[updateUserRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, h.service.UpdateUser(h.token(r), req.UserID, req.Data.Name, req.Data.Email))
}

func (h *Handler) respond(w http.ResponseWriter, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
