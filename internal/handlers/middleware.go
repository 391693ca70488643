package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"codelingo/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessionSecret []byte
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessionSecret string) *Middleware {
	return &Middleware{sessionSecret: []byte(sessionSecret)}
}

// RequireAuth requires a valid session token cookie and puts the user
// ID in the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}

		userID, err := security.ParseSessionToken(m.sessionSecret, cookie.Value)
		if err != nil {
			// Clear the invalid cookie so the client stops sending it.
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireAuth
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs each request with its status and duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
