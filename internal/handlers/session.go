package handlers

import (
	"context"
	"net/http"
)

type contextKey string

const sessionKey contextKey = "session_id"

// WithSession stores the anonymous session id on the request context.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionID returns the session id placed on the request by the session
// middleware, or "" when there is none.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey).(string)
	return id
}
