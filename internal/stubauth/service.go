package stubauth

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dErrors "atrium/pkg/domain-errors"
)

const (
	sessionTTL        = 7 * 24 * time.Hour
	minPasswordLength = 8
)

// Service implements the stub's account and session semantics.
type Service struct {
	accounts *InMemoryAccountStore
	sessions *InMemorySessionStore
	logger   *slog.Logger
}

// NewService creates the stub service with empty stores.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		accounts: NewInMemoryAccountStore(),
		sessions: NewInMemorySessionStore(),
		logger:   logger,
	}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

func (s *Service) createAccount(name, email, password, role string, twoFactor bool) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name and email are required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleUser
	}
	if role != RoleUser && role != RoleAdmin {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	account := &Account{
		ID:               uuid.NewString(),
		Name:             name,
		Email:            email,
		Role:             role,
		TwoFactorEnabled: twoFactor,
		CreatedAt:        time.Now().UTC(),
		PasswordHash:     hash,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// SignUp registers a new non-admin account and opens a session for it.
func (s *Service) SignUp(name, email, password, ip, userAgent string) (*Account, *Session, error) {
	account, err := s.createAccount(name, email, password, RoleUser, false)
	if err != nil {
		return nil, nil, err
	}
	session := s.openSession(account.ID, ip, userAgent, "", "")
	return account, session, nil
}

// SignIn verifies credentials and opens a session. Banned accounts are
// rejected before the password is checked, matching the backend's order.
func (s *Service) SignIn(email, password, ip, userAgent string) (*Account, *Session, error) {
	account, err := s.accounts.FindByEmail(email)
	if err != nil {
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if account.Banned {
		reason := account.BanReason
		if reason == "" {
			reason = "Account is banned"
		}
		return nil, nil, dErrors.New(dErrors.CodeForbidden, reason)
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	session := s.openSession(account.ID, ip, userAgent, "", "")
	return account, session, nil
}

func (s *Service) openSession(userID, ip, userAgent, impersonatedBy, parentToken string) *Session {
	session := &Session{
		ID:             uuid.NewString(),
		Token:          uuid.NewString(),
		UserID:         userID,
		ExpiresAt:      time.Now().UTC().Add(sessionTTL),
		IPAddress:      ip,
		UserAgent:      userAgent,
		CreatedAt:      time.Now().UTC(),
		ImpersonatedBy: impersonatedBy,
		ParentToken:    parentToken,
	}
	s.sessions.Create(session)
	return session
}

// Resolve maps a session token to its session and account. Expired and
// orphaned sessions resolve to not-found.
func (s *Service) Resolve(token string) (*Session, *Account, error) {
	session, err := s.sessions.FindByToken(token)
	if err != nil {
		return nil, nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		s.sessions.Delete(token)
		return nil, nil, ErrNotFound
	}
	account, err := s.accounts.FindByID(session.UserID)
	if err != nil {
		s.sessions.Delete(token)
		return nil, nil, ErrNotFound
	}
	return session, account, nil
}

// SignOut drops the session behind the token.
func (s *Service) SignOut(token string) {
	s.sessions.Delete(token)
}

// =============================================================================
// Admin Operations
// =============================================================================

// requireAdmin resolves the acting session and checks the admin role.
func (s *Service) requireAdmin(token string) (*Session, *Account, error) {
	session, account, err := s.Resolve(token)
	if err != nil {
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "session required")
	}
	if account.Role != RoleAdmin {
		return nil, nil, dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return session, account, nil
}

// ListUsers returns one page of accounts plus the total count.
func (s *Service) ListUsers(token string, limit, offset int) ([]*Account, int, error) {
	if _, _, err := s.requireAdmin(token); err != nil {
		return nil, 0, err
	}
	accounts, total := s.accounts.List(limit, offset)
	return accounts, total, nil
}

// CreateUser registers an account on behalf of an admin.
func (s *Service) CreateUser(token, name, email, password, role string) (*Account, error) {
	if _, _, err := s.requireAdmin(token); err != nil {
		return nil, err
	}
	return s.createAccount(name, email, password, role, false)
}

// SetRole changes a user's role. Admins cannot change their own.
func (s *Service) SetRole(token, userID, role string) error {
	_, actor, err := s.requireAdmin(token)
	if err != nil {
		return err
	}
	if actor.ID == userID {
		return dErrors.New(dErrors.CodeForbidden, "cannot change your own role")
	}
	if role != RoleUser && role != RoleAdmin {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	return s.accounts.Update(userID, func(a *Account) {
		a.Role = role
	})
}

// SetPassword replaces a user's password hash.
func (s *Service) SetPassword(token, userID, newPassword string) error {
	if _, _, err := s.requireAdmin(token); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}
	return s.accounts.Update(userID, func(a *Account) {
		a.PasswordHash = hash
	})
}

// BanUser suspends the account and revokes its sessions so the ban takes
// effect immediately.
func (s *Service) BanUser(token, userID, reason string) error {
	_, actor, err := s.requireAdmin(token)
	if err != nil {
		return err
	}
	if actor.ID == userID {
		return dErrors.New(dErrors.CodeForbidden, "cannot ban your own account")
	}
	if err := s.accounts.Update(userID, func(a *Account) {
		a.Banned = true
		a.BanReason = reason
	}); err != nil {
		return err
	}
	s.sessions.DeleteByUser(userID)
	return nil
}

// UnbanUser lifts a suspension.
func (s *Service) UnbanUser(token, userID string) error {
	if _, _, err := s.requireAdmin(token); err != nil {
		return err
	}
	return s.accounts.Update(userID, func(a *Account) {
		a.Banned = false
		a.BanReason = ""
	})
}

// RevokeUserSessions drops every session the user holds.
func (s *Service) RevokeUserSessions(token, userID string) error {
	if _, _, err := s.requireAdmin(token); err != nil {
		return err
	}
	s.sessions.DeleteByUser(userID)
	return nil
}

// ListUserSessions returns the target's sessions.
func (s *Service) ListUserSessions(token, userID string) ([]*Session, error) {
	if _, _, err := s.requireAdmin(token); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(userID); err != nil {
		return nil, err
	}
	return s.sessions.ListByUser(userID), nil
}

// RevokeUserSession drops one session by token.
func (s *Service) RevokeUserSession(token, sessionToken string) error {
	if _, _, err := s.requireAdmin(token); err != nil {
		return err
	}
	s.sessions.Delete(sessionToken)
	return nil
}

// Impersonate opens a session as the target, remembering the admin's own
// token so StopImpersonating can restore it.
func (s *Service) Impersonate(token, userID, ip, userAgent string) (*Session, error) {
	adminSession, actor, err := s.requireAdmin(token)
	if err != nil {
		return nil, err
	}
	if actor.ID == userID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot impersonate yourself")
	}
	target, err := s.accounts.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if target.Banned {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot impersonate a banned account")
	}
	return s.openSession(target.ID, ip, userAgent, actor.ID, adminSession.Token), nil
}

// StopImpersonating restores the admin session behind an impersonated one.
func (s *Service) StopImpersonating(token string) (*Session, error) {
	session, _, err := s.Resolve(token)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session required")
	}
	if session.ImpersonatedBy == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session is not impersonated")
	}

	parent, parentAccount, err := s.Resolve(session.ParentToken)
	if err != nil || parentAccount.Role != RoleAdmin {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "original session no longer valid")
	}
	s.sessions.Delete(token)
	return parent, nil
}

// RemoveUser deletes the account and its sessions.
func (s *Service) RemoveUser(token, userID string) error {
	_, actor, err := s.requireAdmin(token)
	if err != nil {
		return err
	}
	if actor.ID == userID {
		return dErrors.New(dErrors.CodeForbidden, "cannot delete your own account")
	}
	if err := s.accounts.Delete(userID); err != nil {
		return err
	}
	s.sessions.DeleteByUser(userID)
	return nil
}

// UpdateUser changes profile fields.
func (s *Service) UpdateUser(token, userID, name, email string) error {
	if _, _, err := s.requireAdmin(token); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return dErrors.New(dErrors.CodeValidation, "name and email are required")
	}
	return s.accounts.Update(userID, func(a *Account) {
		a.Name = name
		a.Email = email
	})
}
