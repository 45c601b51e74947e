package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	requestIDKey contextKey = "request_id"
)

// RequireSession reads the storefront session from X-Session-ID. The
// commerce surface (cart, orders, addresses) is meaningless without
// one, so missing sessions are rejected up front.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing X-Session-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// AdminGuard gates admin routes on the X-Admin-Key header. An empty
// configured key disables the whole admin surface.
func AdminGuard(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				respondError(w, http.StatusForbidden, "forbidden", "admin API is disabled")
				return
			}
			provided := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
