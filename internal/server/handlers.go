package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridshift/pkg/buildinfo"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/render"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code      errors.Code `json:"code,omitempty"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// isTOML reports whether the request body is TOML rather than JSON.
func isTOML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "toml")
}

func (s *Server) loadPage(r *http.Request) (*page.Page, error) {
	return page.Load(r.Context(), s.store, chi.URLParam(r, "id"))
}

// inspectPage loads a page without validating it.
func (s *Server) inspectPage(r *http.Request) (*page.Page, error) {
	return page.LoadUnchecked(r.Context(), s.store, chi.URLParam(r, "id"))
}

// =============================================================================
// Service
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Pages
// =============================================================================

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"pages": ids})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == string(page.FormatTOML) {
		data, err := page.Marshal(p, page.FormatTOML)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeBody(w, "application/toml", data)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPage(w http.ResponseWriter, r *http.Request) {
	format := page.FormatJSON
	if isTOML(r) {
		format = page.FormatTOML
	}
	p, err := page.Read(io.LimitReader(r.Body, maxBody), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if id := chi.URLParam(r, "id"); p.ID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "page id %q does not match %q", p.ID, id))
		return
	}
	if err := page.Save(r.Context(), s.store, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Diagnostics
// =============================================================================

type dumpResponse struct {
	Page  string          `json:"page"`
	Cells [][]grid.ItemID `json:"cells"`
	Text  string          `json:"text"`
}

// lenientIndex indexes what it can of p. Overlapping items are skipped so a
// broken page can still be inspected.
func lenientIndex(p *page.Page) (*occupancy.Index, error) {
	m, err := p.Metrics()
	if err != nil {
		return nil, err
	}
	idx := occupancy.New(m)
	_ = idx.Rebuild(p.Items)
	return idx, nil
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	p, err := s.inspectPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := lenientIndex(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dumpResponse{Page: p.ID, Cells: idx.Dump(), Text: idx.String()})
}

type validateResponse struct {
	Page          string                  `json:"page"`
	Valid         bool                    `json:"valid"`
	Error         string                  `json:"error,omitempty"`
	Discrepancies []occupancy.Discrepancy `json:"discrepancies"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	p, err := s.inspectPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := lenientIndex(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := validateResponse{Page: p.ID, Discrepancies: idx.Validate(p.Items)}
	if resp.Discrepancies == nil {
		resp.Discrepancies = []occupancy.Discrepancy{}
	}
	if err := p.Validate(); err != nil {
		resp.Error = errors.UserMessage(err)
	}
	resp.Valid = resp.Error == "" && len(resp.Discrepancies) == 0
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := p.Index()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSnapshot(w, r, render.FromIndex(idx, nil), p.Name)
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, snap render.Snapshot, title string) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "svg":
		writeBody(w, "image/svg+xml", render.RenderSVG(snap, render.WithTitle(title)))
	case "png":
		data, err := render.RenderPNG(snap)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render png"))
			return
		}
		writeBody(w, "image/png", data)
	case "json":
		s.writeJSON(w, http.StatusOK, snap)
	case "text":
		writeBody(w, "text/plain; charset=utf-8", []byte(render.Text(snap)))
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown render format %q", format))
	}
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var probe page.Probe
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&probe); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode probe"))
		return
	}
	sol, err := p.Solve(probe, solver.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch explain := r.URL.Query().Get("explain"); explain {
	case "":
		s.writeJSON(w, http.StatusOK, sol)
	case "text":
		writeBody(w, "text/plain; charset=utf-8", []byte(render.CascadeText(sol)))
	case "dot":
		writeBody(w, "text/vnd.graphviz", []byte(render.CascadeDOT(sol, render.CascadeOptions{Detailed: true})))
	case "svg":
		svg, err := render.RenderDOT(r.Context(), render.CascadeDOT(sol, render.CascadeOptions{Detailed: true}))
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render cascade"))
			return
		}
		writeBody(w, "image/svg+xml", svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown explain format %q", explain))
	}
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := io.LimitReader(r.Body, maxBody)
	var script *page.Script
	if isTOML(r) {
		script, err = page.ReadScript(body)
	} else {
		script = &page.Script{}
		if derr := json.NewDecoder(body).Decode(script); derr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, derr, "decode script")
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	replay, err := script.Run(p, page.WithReplayTimings(s.timings), page.WithReplayLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("save") == "true" {
		if err := page.Save(r.Context(), s.store, replay.Page); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if r.URL.Query().Has("format") {
		s.writeSnapshot(w, r, render.FromSession(replay.Session), p.Name)
		return
	}
	s.writeJSON(w, http.StatusOK, replay)
}
