package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/logging"
	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resolver"
	"github.com/kamusis/socsel/internal/store"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// SelectionResponse is returned by the selection endpoints.
type SelectionResponse struct {
	ID       string   `json:"id,omitempty"`
	Selected bool     `json:"selected"`
	IDs      []string `json:"selectedFeatureIds"`
}

// UtilizationResponse compares the current requirement with one SoC.
type UtilizationResponse struct {
	SoC      catalog.SoC             `json:"soc"`
	Suitable bool                    `json:"suitable"`
	Rows     []report.UtilizationRow `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	data, err := store.Encode(st)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "encode_failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resolver.ResolveState(st))
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	a := report.Analyze(st)
	if r.URL.Query().Get("all") == "" {
		a.Candidates = nil
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "bad_format", err)
		return
	}
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, report.Analyze(st), format, s.formatter); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "render_failed", err)
		return
	}
	switch format {
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case report.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleUtilization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	soc, found := st.SoCByID(id)
	if !found {
		s.respondError(w, r, http.StatusNotFound, "not_found", errors.New("soc "+id+": not found"))
		return
	}
	req := resolver.ResolveState(st).TotalResources
	writeJSON(w, http.StatusOK, UtilizationResponse{
		SoC:      soc,
		Suitable: soc.Resources.Covers(req),
		Rows:     report.UtilizationRows(req, soc.Resources),
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var selected bool
	st, err := store.Update(s.opts.StatePath, s.opts.LockTimeout, func(st *catalog.State) error {
		var err error
		selected, err = st.Toggle(id)
		return err
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "feature", id, "selected", selected).Info("selection toggled")
	writeJSON(w, http.StatusOK, SelectionResponse{ID: id, Selected: selected, IDs: st.Selection.IDs()})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	st, err := store.Update(s.opts.StatePath, s.opts.LockTimeout, func(st *catalog.State) error {
		st.ClearSelection()
		return nil
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{IDs: st.Selection.IDs()})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*catalog.State, bool) {
	st, err := store.Load(s.opts.StatePath)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "state_unreadable", err)
		return nil, false
	}
	return st, true
}

func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, "not_found", err)
	case errors.Is(err, store.ErrLocked):
		s.respondError(w, r, http.StatusServiceUnavailable, "state_locked", err)
	default:
		s.respondError(w, r, http.StatusInternalServerError, "state_write_failed", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	log := logging.WithFields(r.Context(), "status", status, "error", err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	writeJSON(w, status, ErrorResponse{Error: code, Message: err.Error(), Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
