package authclient

import (
	"context"
	"net/http"
)

// The admin surface mirrors the backend's admin plugin endpoints. Every call
// runs with the acting admin's session cookie; the backend is the authority
// on whether that session may perform the operation.

type listUsersRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type listUsersResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// ListUsers fetches one page of user records.
func (c *Client) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	var resp listUsersResponse
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/list-users", listUsersRequest{
		Limit:  limit,
		Offset: offset,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type createUserResponse struct {
	User User `json:"user"`
}

// CreateUser registers a new user with the given credentials and role.
func (c *Client) CreateUser(ctx context.Context, name, email, password, role string) (*User, error) {
	var resp createUserResponse
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/create-user", createUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type setRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// SetRole changes a user's role.
func (c *Client) SetRole(ctx context.Context, userID, role string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/set-role", setRoleRequest{
		UserID: userID,
		Role:   role,
	}, nil)
	return err
}

type setPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

// SetPassword replaces a user's password.
func (c *Client) SetPassword(ctx context.Context, userID, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/set-user-password", setPasswordRequest{
		UserID:      userID,
		NewPassword: newPassword,
	}, nil)
	return err
}

type banUserRequest struct {
	UserID    string `json:"userId"`
	BanReason string `json:"banReason,omitempty"`
}

// BanUser suspends a user's account.
func (c *Client) BanUser(ctx context.Context, userID, reason string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/ban-user", banUserRequest{
		UserID:    userID,
		BanReason: reason,
	}, nil)
	return err
}

type userIDRequest struct {
	UserID string `json:"userId"`
}

// UnbanUser lifts a user's suspension.
func (c *Client) UnbanUser(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/unban-user", userIDRequest{UserID: userID}, nil)
	return err
}

// RevokeUserSessions destroys every session the user holds.
func (c *Client) RevokeUserSessions(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/revoke-user-sessions", userIDRequest{UserID: userID}, nil)
	return err
}

type revokeSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

// RevokeUserSession destroys a single session by its token.
func (c *Client) RevokeUserSession(ctx context.Context, sessionToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/revoke-user-session", revokeSessionRequest{
		SessionToken: sessionToken,
	}, nil)
	return err
}

// ImpersonateUser opens a session as the target user. The returned cookies
// carry the impersonated session token and must be relayed to the browser.
func (c *Client) ImpersonateUser(ctx context.Context, userID string) ([]*http.Cookie, error) {
	return c.do(ctx, http.MethodPost, "/api/auth/admin/impersonate-user", userIDRequest{UserID: userID}, nil)
}

// RemoveUser deletes the user record.
func (c *Client) RemoveUser(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/remove-user", userIDRequest{UserID: userID}, nil)
	return err
}

type updateUserRequest struct {
	UserID string         `json:"userId"`
	Data   updateUserData `json:"data"`
}

type updateUserData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUser changes a user's profile fields (name, email).
func (c *Client) UpdateUser(ctx context.Context, userID, name, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/update-user", updateUserRequest{
		UserID: userID,
		Data:   updateUserData{Name: name, Email: email},
	}, nil)
	return err
}
