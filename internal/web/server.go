// Package web provides the HTTP server and JSON API for the order file
// converter.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frescosur/conversor/internal/auth"
	"github.com/frescosur/conversor/internal/config"
	"github.com/frescosur/conversor/internal/service"
	"github.com/frescosur/conversor/internal/store"
	mw "github.com/frescosur/conversor/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the converter API.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	service  *service.Service
	sessions *auth.Manager
	router   *chi.Mux
	server   *http.Server
}

// NewServer wires the API routes over the given store and service.
func NewServer(cfg *config.Config, st *store.Store, svc *service.Service, sessions *auth.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		service:  svc,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		// Everything below needs a session.
		r.Group(func(r chi.Router) {
			r.Use(mw.SessionAuth(s.sessions))

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)

			r.Get("/clients", s.handleListClients)
			r.Route("/clients/{clientID}", func(r chi.Router) {
				r.Get("/", s.handleGetClient)
				r.Get("/products", s.handleListProducts)
				r.Get("/layout", s.handleGetLayout)
				r.Get("/layout/export", s.handleExportLayout)
				r.Post("/layout/preview", s.handlePreviewLayout)
				r.Get("/history", s.handleHistory)
				r.Post("/convert", s.handleConvert)
			})

			r.Get("/outputs/{name}", s.handleDownloadOutput)

			// Administration: clients, products, layouts and users.
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)

				r.Post("/clients", s.handleCreateClient)
				r.Put("/clients/{clientID}", s.handleUpdateClient)
				r.Delete("/clients/{clientID}", s.handleDeleteClient)

				r.Put("/clients/{clientID}/products", s.handleUpsertProduct)
				r.Delete("/clients/{clientID}/products/{ean}", s.handleDeleteProduct)

				r.Put("/clients/{clientID}/layout", s.handlePutLayout)
				r.Post("/clients/{clientID}/layout/import", s.handleImportLayout)

				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
				r.Put("/users/{username}/password", s.handleSetUserPassword)
				r.Put("/users/{username}/active", s.handleSetUserActive)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
