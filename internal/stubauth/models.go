// Package stubauth is a self-contained auth backend for development and
// integration tests. It speaks the same /api/auth wire surface the console
// expects from the real service: email/password sign-in, session cookies,
// and the admin user-management endpoints.
package stubauth

import "time"

// Role values accepted by the stub.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a stored user record. PasswordHash is bcrypt and never leaves
// the store.
type Account struct {
	ID               string
	Name             string
	Email            string
	Role             string
	Banned           bool
	BanReason        string
	TwoFactorEnabled bool
	CreatedAt        time.Time
	PasswordHash     []byte
}

// Session is one issued session token. ParentToken is set on impersonated
// sessions and points back at the admin's own session.
type Session struct {
	ID             string
	Token          string
	UserID         string
	ExpiresAt      time.Time
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	ImpersonatedBy string
	ParentToken    string
}

// wireUser is the JSON projection of an Account.
type wireUser struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Banned           bool      `json:"banned"`
	BanReason        string    `json:"banReason,omitempty"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toWire(a *Account) wireUser {
	return wireUser{
		ID:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		Role:             a.Role,
		Banned:           a.Banned,
		BanReason:        a.BanReason,
		TwoFactorEnabled: a.TwoFactorEnabled,
		CreatedAt:        a.CreatedAt,
	}
}

// wireSession is the JSON projection of a Session row.
type wireSession struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toWireSession(s *Session) wireSession {
	return wireSession{
		ID:        s.ID,
		Token:     s.Token,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		CreatedAt: s.CreatedAt,
	}
}
