package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resolver"
	"github.com/kamusis/socsel/internal/store"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return New(Options{StatePath: path, Locale: "en-US"}), path
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestState_DefaultsWhenMissing(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	doc := decode[map[string]json.RawMessage](t, rec)
	for _, k := range []string{"adasFunctions", "sensors", "soCs", "selectedFeatureIds"} {
		if _, ok := doc[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}

func TestToggleAndRequirements(t *testing.T) {
	s, path := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/selection/feat_aeb")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	sel := decode[SelectionResponse](t, rec)
	if !sel.Selected || len(sel.IDs) != 1 || sel.IDs[0] != "feat_aeb" {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	st, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Selection.Has("feat_aeb") {
		t.Fatalf("toggle was not persisted")
	}

	rec = do(t, s, http.MethodGet, "/api/requirements")
	req := decode[resolver.Requirements](t, rec)
	if len(req.Features) != 1 || req.TotalResources.TOPS != 7 {
		t.Fatalf("unexpected requirements: %+v", req)
	}

	rec = do(t, s, http.MethodGet, "/api/match")
	a := decode[report.Analysis](t, rec)
	if a.Match.BestFit == nil || a.Match.BestFit.ID != "soc_mid" {
		t.Fatalf("unexpected best fit: %+v", a.Match.BestFit)
	}
	if len(a.Candidates) != 0 {
		t.Fatalf("candidates are only served with ?all=1")
	}

	rec = do(t, s, http.MethodPost, "/api/selection/feat_aeb")
	if sel := decode[SelectionResponse](t, rec); sel.Selected || len(sel.IDs) != 0 {
		t.Fatalf("second toggle must deselect: %+v", sel)
	}
}

func TestRequirements_EmptySelectionUsesArrays(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{"/api/requirements", "/api/match"} {
		rec := do(t, s, http.MethodGet, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
		if body := rec.Body.String(); strings.Contains(body, "null") {
			t.Errorf("%s sent null for an empty selection: %s", target, body)
		}
	}
}

func TestToggleUnknownFeature(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/selection/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[ErrorResponse](t, rec)
	if body.Error != "not_found" || body.Code != http.StatusNotFound {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestClearSelection(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/selection/feat_lka")
	do(t, s, http.MethodPost, "/api/selection/feat_aeb")

	rec := do(t, s, http.MethodDelete, "/api/selection")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sel := decode[SelectionResponse](t, rec); len(sel.IDs) != 0 {
		t.Fatalf("selection not cleared: %+v", sel)
	}
}

func TestUtilization(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/selection/feat_aeb")

	rec := do(t, s, http.MethodGet, "/api/socs/soc_entry/utilization")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	u := decode[UtilizationResponse](t, rec)
	if u.Suitable || len(u.Rows) != 6 {
		t.Fatalf("unexpected utilization: %+v", u)
	}
	if u.Rows[1].Axis != "tops" || u.Rows[1].Level != "over" {
		t.Fatalf("TOPS row: %+v", u.Rows[1])
	}

	if rec := do(t, s, http.MethodGet, "/api/socs/missing/utilization"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown soc status = %d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/report?format=markdown")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown") {
		t.Fatalf("status = %d, type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Select features to see the required components") {
		t.Fatalf("empty selection message missing:\n%s", rec.Body.String())
	}

	if rec := do(t, s, http.MethodGet, "/api/report?format=pdf"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d", rec.Code)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Start("127.0.0.1:0"); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("Start after Shutdown = %v", err)
	}
}
