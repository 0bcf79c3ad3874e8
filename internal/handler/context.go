package handler

import (
	"context"
	"net/http"
)

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// mustUserID returns the authenticated user id. Routes reaching this are
// always wrapped by requireAuth.
func mustUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}
