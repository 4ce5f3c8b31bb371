package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/observability"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/solver"
	"github.com/matzehuels/gridshift/pkg/store"
)

const homeTOML = `
id = "home"
name = "Home"
columns = 5
rows = 6

[[items]]
id = "clock"
x = 0
y = 0
width = 4
height = 2

[[items]]
id = "mail"
x = 4
y = 0
width = 1
height = 1
`

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemory()
	srv := httptest.NewServer(New(st, WithLogger(log.New(io.Discard))))
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func putHome(t *testing.T, base string) {
	t.Helper()
	resp, body := do(t, http.MethodPut, base+"/pages/home", "application/toml", homeTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestPageLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	putHome(t, srv.URL)

	resp, body := do(t, http.MethodGet, srv.URL+"/pages", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list map[string][]string
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"home"}, list["pages"]); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/pages/home", "", "")
	var p page.Page
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || p.Name != "Home" || len(p.Items) != 2 {
		t.Errorf("get = %d %+v", resp.StatusCode, p)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/pages/home?format=toml", "", "")
	if resp.Header.Get("Content-Type") != "application/toml" || !strings.Contains(string(body), `id = "clock"`) {
		t.Errorf("toml get = %s", body)
	}

	resp, _ = do(t, http.MethodDelete, srv.URL+"/pages/home", "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodGet, srv.URL+"/pages/home", "", "")
	var e errorResponse
	json.Unmarshal(body, &e)
	if resp.StatusCode != http.StatusNotFound || e.Code != errors.ErrCodePageNotFound {
		t.Errorf("get after delete = %d %+v", resp.StatusCode, e)
	}
}

func TestPutRejects(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		wantCode    errors.Code
	}{
		{"id mismatch", "/pages/other", "application/toml", homeTOML, errors.ErrCodeInvalidInput},
		{"bad json", "/pages/home", "application/json", "{", errors.ErrCodeInvalidFormat},
		{
			"overlap",
			"/pages/x",
			"application/json",
			`{"id":"x","columns":2,"rows":1,"items":[{"id":"a","x":0,"y":0,"width":2,"height":1},{"id":"b","x":1,"y":0,"width":1,"height":1}]}`,
			errors.ErrCodeInconsistentState,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPut, srv.URL+tt.path, tt.contentType, tt.body)
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("decode %s: %v", body, err)
			}
			if e.Code != tt.wantCode || resp.StatusCode < 400 {
				t.Errorf("PUT = %d %+v, want %s", resp.StatusCode, e, tt.wantCode)
			}
		})
	}
}

func TestDumpAndValidate(t *testing.T) {
	srv, st := newTestServer(t)
	putHome(t, srv.URL)

	_, body := do(t, http.MethodGet, srv.URL+"/pages/home/dump", "", "")
	var dump dumpResponse
	if err := json.Unmarshal(body, &dump); err != nil {
		t.Fatal(err)
	}
	if len(dump.Cells) != 6 || dump.Cells[0][4] != "mail" || dump.Cells[1][3] != "clock" {
		t.Errorf("dump cells = %v", dump.Cells)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/pages/home/validate", "", "")
	var v validateResponse
	json.Unmarshal(body, &v)
	if !v.Valid || len(v.Discrepancies) != 0 {
		t.Errorf("validate home = %+v", v)
	}

	// Stored bytes bypass page validation.
	broken := `{"id":"broken","columns":3,"rows":1,"items":[{"id":"a","x":0,"y":0,"width":2,"height":1},{"id":"b","x":1,"y":0,"width":1,"height":1}]}`
	if err := st.Put(context.Background(), "broken", []byte(broken)); err != nil {
		t.Fatal(err)
	}
	_, body = do(t, http.MethodGet, srv.URL+"/pages/broken/validate", "", "")
	v = validateResponse{}
	json.Unmarshal(body, &v)
	if v.Valid || len(v.Discrepancies) == 0 || v.Discrepancies[0].ID != "b" {
		t.Errorf("validate broken = %+v", v)
	}
}

func TestRender(t *testing.T) {
	srv, _ := newTestServer(t)
	putHome(t, srv.URL)

	tests := []struct {
		format      string
		status      int
		contentType string
	}{
		{"svg", http.StatusOK, "image/svg+xml"},
		{"png", http.StatusOK, "image/png"},
		{"json", http.StatusOK, "application/json"},
		{"text", http.StatusOK, "text/plain; charset=utf-8"},
		{"gif", http.StatusBadRequest, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+"/pages/home/render?format="+tt.format, "", "")
			if resp.StatusCode != tt.status || resp.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("render = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
			}
			if len(body) == 0 {
				t.Error("empty body")
			}
		})
	}
}

func TestSolve(t *testing.T) {
	srv, _ := newTestServer(t)
	putHome(t, srv.URL)

	probe := `{"width":1,"height":1,"target":{"x":0,"y":0}}`
	resp, body := do(t, http.MethodPost, srv.URL+"/pages/home/solve", "application/json", probe)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("solve = %d %s", resp.StatusCode, body)
	}
	var sol solver.Solution
	if err := json.Unmarshal(body, &sol); err != nil {
		t.Fatal(err)
	}
	if sol.Strategy != solver.StrategyCascade || !sol.Contains("clock") {
		t.Errorf("solution = %v", &sol)
	}

	resp, body = do(t, http.MethodPost, srv.URL+"/pages/home/solve?explain=text", "application/json", probe)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "clock") {
		t.Errorf("explain = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPost, srv.URL+"/pages/home/solve", "application/json", `{"width":2,"height":1,"target":{"x":4,"y":0}}`)
	var e errorResponse
	json.Unmarshal(body, &e)
	if resp.StatusCode != http.StatusBadRequest || e.Code != errors.ErrCodeOutOfBounds {
		t.Errorf("out of bounds = %d %+v", resp.StatusCode, e)
	}
}

func TestReplay(t *testing.T) {
	srv, st := newTestServer(t)
	putHome(t, srv.URL)

	script := `{"steps":[
		{"kind":"started","item":{"id":"new","x":0,"y":0,"width":1,"height":1}},
		{"kind":"location","x":400,"y":0,"wait_ms":900},
		{"kind":"drop","x":400,"y":0}
	]}`
	resp, body := do(t, http.MethodPost, srv.URL+"/pages/home/replay?save=true", "application/json", script)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replay = %d %s", resp.StatusCode, body)
	}
	var r struct {
		Steps []struct {
			Outcome *struct {
				State string `json:"state"`
			} `json:"outcome"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Steps) != 3 || r.Steps[2].Outcome == nil || r.Steps[2].Outcome.State != "committed" {
		t.Fatalf("replay = %s", body)
	}

	saved, err := page.Load(context.Background(), st, "home")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Items) != 3 {
		t.Errorf("saved items = %+v", saved.Items)
	}

	resp, _ = do(t, http.MethodPost, srv.URL+"/pages/home/replay", "application/json", `{"steps":[{"kind":"hover"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestObserveReportsRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/pages/missing/dump", "", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if diff := cmp.Diff([]string{"GET /pages/{id}/dump"}, hooks.routes); diff != "" {
		t.Errorf("routes (-want +got):\n%s", diff)
	}
}
