package web

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/frescosur/conversor/internal/logging"
	"github.com/frescosur/conversor/internal/store"
	mw "github.com/frescosur/conversor/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// handleConvert accepts a multipart upload and runs the full conversion
// pipeline for one client.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	maxSize := s.cfg.Convert.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondBadRequest(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	session, _ := mw.SessionFrom(r.Context())
	logging.FromContext(r.Context()).Info("conversion started",
		"client_id", id,
		"user", session.Username,
		"file", header.Filename,
		"size", header.Size,
	)

	batch, err := s.service.ConvertUpload(r.Context(), id, session.Username, header.Filename, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, batch)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	history, err := s.store.ListConversions(r.Context(), id, limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []store.Conversion{}
	}
	writeJSON(w, history)
}

// handleDownloadOutput serves a previously generated TXT file by name.
func (s *Server) handleDownloadOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Output names never contain separators; reject traversal attempts.
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		respondBadRequest(w, "invalid file name")
		return
	}
	if !strings.HasPrefix(name, "ORDERS_") || !strings.HasSuffix(name, ".txt") {
		respondBadRequest(w, "invalid file name")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, filepath.Join(s.cfg.Convert.OutputDir, name))
}
