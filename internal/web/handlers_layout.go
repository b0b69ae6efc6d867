package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/frescosur/conversor/internal/engine"
	"github.com/frescosur/conversor/internal/layout"
)

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	tpl, err := s.store.ResolveTemplate(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, tpl)
}

// handlePutLayout replaces the client's layout with the JSON body.
func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondBadRequest(w, "layout too large or unreadable")
		return
	}
	tpl, err := layout.ParseJSON(body)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.store.SetClientLayout(r.Context(), id, tpl); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, tpl)
}

// handleExportLayout downloads the active layout as YAML, the format layout
// files are exchanged in.
func (s *Server) handleExportLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}
	tpl, err := s.store.ResolveTemplate(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	data, err := layout.EncodeYAML(tpl)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="layout.yaml"`)
	w.Write(data)
}

type previewRequest struct {
	// Layout overrides the stored layout when present, so edits can be
	// tried before saving.
	Layout *layout.Template `json:"layout,omitempty"`
	Head   engine.RawRow    `json:"head"`
	Rows   []engine.RawRow  `json:"rows"`
}

// staticSource serves one fixed template to the engine.
type staticSource struct{ tpl *layout.Template }

func (s staticSource) ResolveTemplate(context.Context, int64) (*layout.Template, error) {
	return s.tpl, nil
}

// handlePreviewLayout runs a pasted sample through a layout without touching
// the database or the output directory.
func (s *Server) handlePreviewLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	var req previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		respondBadRequest(w, "invalid preview payload")
		return
	}

	tpl := req.Layout
	if tpl == nil {
		stored, err := s.store.ResolveTemplate(r.Context(), id)
		if err != nil {
			s.respondError(w, r, err, http.StatusNotFound)
			return
		}
		tpl = stored
	}
	if err := tpl.Validate(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := engine.New(staticSource{tpl}).Convert(r.Context(), engine.Request{
		ClientID: id,
		Head:     req.Head,
		Rows:     req.Rows,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, result)
}

// handleImportLayout installs a YAML layout uploaded in the request body.
func (s *Server) handleImportLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		respondBadRequest(w, "invalid client id")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondBadRequest(w, "layout too large or unreadable")
		return
	}
	tpl, err := layout.ParseYAML(body)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.store.SetClientLayout(r.Context(), id, tpl); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, tpl)
}
