package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frescosur/conversor/internal/auth"
)

// SessionCookie is the cookie carrying the session token. A Bearer token in
// the Authorization header works too, for non-browser clients.
const SessionCookie = "conversor_session"

type ctxKey int

const sessionKey ctxKey = 0

// SessionFrom returns the session attached to the request context.
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey).(auth.Session)
	return s, ok
}

// SessionAuth rejects requests without a valid session and attaches the
// session to the context for handlers downstream.
func SessionAuth(sessions *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				slog.Warn("auth: missing session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				denyJSON(w, http.StatusUnauthorized, "not logged in", "AUTH_MISSING_SESSION")
				return
			}

			session, ok := sessions.Lookup(token)
			if !ok {
				slog.Warn("auth: invalid or expired session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				denyJSON(w, http.StatusUnauthorized, "session expired", "AUTH_INVALID_SESSION")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only admin sessions through. Must run after
// SessionAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r.Context())
		if !ok || session.Role != "admin" {
			slog.Warn("auth: admin required",
				"path", r.URL.Path,
				"method", r.Method,
				"user", session.Username,
			)
			denyJSON(w, http.StatusForbidden, "admin access required", "AUTH_FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// denyJSON writes an auth rejection with the JSON content type, matching the
// envelope the API handlers use.
func denyJSON(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	}); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// sessionToken extracts the token from the cookie or Authorization header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
