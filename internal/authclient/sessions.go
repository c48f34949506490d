package authclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// ListUserSessions fetches the target user's sessions.
//
// The backend has shipped this response in three shapes over time: a bare
// array, an object wrapping a "sessions" array, and occasionally something
// else entirely. All three are normalized here so raw shapes never propagate
// past the client layer. An unrecognized shape yields an empty list and a
// logged warning rather than an error.
func (c *Client) ListUserSessions(ctx context.Context, userID string) ([]SessionEntry, error) {
	var raw json.RawMessage
	_, err := c.do(ctx, http.MethodPost, "/api/auth/admin/list-user-sessions", userIDRequest{UserID: userID}, &raw)
	if err != nil {
		return nil, err
	}
	return c.normalizeSessionList(ctx, userID, raw), nil
}

func (c *Client) normalizeSessionList(ctx context.Context, userID string, raw json.RawMessage) []SessionEntry {
	if len(raw) == 0 {
		return []SessionEntry{}
	}

	var bare []SessionEntry
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	var wrapped struct {
		Sessions []SessionEntry `json:"sessions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Sessions != nil {
		return wrapped.Sessions
	}

	c.logger.WarnContext(ctx, "unexpected session list shape from auth backend",
		"user_id", userID,
	)
	return []SessionEntry{}
}
