package web

import (
	"encoding/json"
	"net/http"

	"github.com/frescosur/conversor/internal/auth"
	"github.com/frescosur/conversor/internal/logging"
	"github.com/frescosur/conversor/internal/store"
	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []store.User{}
	}
	writeJSON(w, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid user payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondBadRequest(w, "username and password are required")
		return
	}
	if req.Role != store.RoleAdmin && req.Role != store.RoleOperator {
		respondBadRequest(w, "role must be admin or operator")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondBadRequest(w, "invalid password")
		return
	}
	user, err := s.store.CreateUser(r.Context(), req.Username, hash, req.Role)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("user created",
		"user", user.Username, "role", user.Role)
	writeStatusJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSetUserPassword(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req setPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid password payload")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondBadRequest(w, "invalid password")
		return
	}
	if err := s.store.SetUserPassword(r.Context(), username, hash); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	// Any session opened under the old password is stale.
	s.sessions.DestroyUser(username)

	logging.FromContext(r.Context()).Info("password reset", "user", username)
	writeJSON(w, map[string]string{"status": "password updated"})
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}
	if err := s.store.SetUserActive(r.Context(), username, req.Active); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	if !req.Active {
		s.sessions.DestroyUser(username)
	}

	logging.FromContext(r.Context()).Info("user active flag changed",
		"user", username, "active", req.Active)
	writeJSON(w, map[string]string{"status": "updated"})
}
