// Package requestcontext carries per-request identity values through
// context.Context so they do not have to be threaded through every call site.
package requestcontext

import "context"

type sessionTokenKey struct{}

// WithSessionToken stores the raw session cookie value for the request.
// The console shell middleware sets it; the authclient forwards it to the
// auth backend on every call made on the caller's behalf.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// SessionToken retrieves the raw session cookie value, or "" when absent.
func SessionToken(ctx context.Context) string {
	if token, ok := ctx.Value(sessionTokenKey{}).(string); ok {
		return token
	}
	return ""
}
