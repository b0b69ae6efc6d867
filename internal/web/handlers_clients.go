package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frescosur/conversor/internal/store"
	"github.com/go-chi/chi/v5"
)

// clientID parses the {clientID} URL parameter.
func clientID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "clientID"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if clients == nil {
		clients = []store.Client{}
	}
	writeJSON(w, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	client, err := s.store.ClientByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, client)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var c store.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondBadRequest(w, "invalid client payload")
		return
	}
	if c.Name == "" || c.DisplayName == "" {
		respondBadRequest(w, "name and display_name are required")
		return
	}

	id, err := s.store.CreateClient(r.Context(), &c)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	c.ID = id
	writeStatusJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	var c store.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondBadRequest(w, "invalid client payload")
		return
	}
	c.ID = id

	if err := s.store.UpdateClient(r.Context(), &c); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	if err := s.store.DeleteClient(r.Context(), id); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	products, err := s.store.ListProducts(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []store.Product{}
	}
	writeJSON(w, products)
}

func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	var p store.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondBadRequest(w, "invalid product payload")
		return
	}
	if p.EAN == "" {
		respondBadRequest(w, "ean is required")
		return
	}
	p.ClientID = id

	if err := s.store.UpsertProduct(r.Context(), &p); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	ean := chi.URLParam(r, "ean")
	if ean == "" {
		respondBadRequest(w, "missing ean")
		return
	}
	if err := s.store.DeleteProduct(r.Context(), id, ean); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}
