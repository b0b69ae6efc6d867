package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/frescosur/conversor/internal/auth"
	"github.com/frescosur/conversor/internal/logging"
	mw "github.com/frescosur/conversor/internal/web/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin checks credentials and opens a session. The token is returned
// in the body and also set as a cookie for browser clients.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid login payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondBadRequest(w, "username and password are required")
		return
	}

	user, err := s.store.UserByUsername(r.Context(), req.Username)
	if err != nil || !user.Active {
		s.rejectLogin(w, r, req.Username)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.rejectLogin(w, r, req.Username)
		return
	}

	session := s.sessions.Create(user.Username, user.Role)
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	logging.FromContext(r.Context()).Info("login",
		"user", user.Username, "role", user.Role)

	writeJSON(w, loginResponse{
		Token:     session.Token,
		Username:  session.Username,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	})
}

// rejectLogin answers unknown users and wrong passwords identically.
func (s *Server) rejectLogin(w http.ResponseWriter, r *http.Request, username string) {
	logging.FromContext(r.Context()).Warn("login rejected",
		"user", username, "ip", r.RemoteAddr)
	s.respondError(w, r, errors.New("invalid credentials"), http.StatusUnauthorized)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		s.sessions.Destroy(c.Value)
	}
	if session, ok := mw.SessionFrom(r.Context()); ok {
		s.sessions.Destroy(session.Token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := mw.SessionFrom(r.Context())
	writeJSON(w, map[string]any{
		"username":   session.Username,
		"role":       session.Role,
		"expires_at": session.ExpiresAt,
	})
}
