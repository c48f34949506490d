package authclient

import "time"

// Role values understood by the auth backend.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the console's read-only view of a user record. The backend owns
// the record; the console only ever holds a snapshot of it.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Banned           bool      `json:"banned"`
	BanReason        string    `json:"banReason,omitempty"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session is the time-limited cached copy of the authenticated session.
// ImpersonatedBy is the id of the admin driving this session, when set.
type Session struct {
	User           User      `json:"user"`
	ImpersonatedBy string    `json:"impersonatedBy,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == RoleAdmin
}

// SessionEntry is one row of a user's session list, fetched on demand when
// an admin inspects a user. Never cached across dialog opens.
type SessionEntry struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the entry's expiry is in the past.
func (e SessionEntry) Expired() bool {
	return e.ExpiresAt.Before(time.Now())
}
