package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/texgraph/pkg/cache"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/observability"
	"github.com/matzehuels/texgraph/pkg/pipeline"
)

const edgeScene = `
[[graph]]
name = "g"
vertex = [
  { id = "a", at = [0, 0] },
  { id = "b", at = [1, 0] },
]
edge = [{ from = "a", to = "b" }]
`

const edgeSceneYAML = `
graph:
  - name: g
    vertex:
      - {id: a, at: [0, 0]}
      - {id: b, at: [1, 0]}
    edge:
      - {from: a, to: b}
`

func newTestServer(t *testing.T, cfg Config) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	NewMetrics(reg).Install()
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(&strings.Builder{})
	runner := pipeline.NewRunner(fc, nil, logger)
	return New(runner, logger, cfg, reg), reg
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRender_TikZ(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/render", "application/toml", edgeScene)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != pipeline.ContentType(pipeline.FormatTikZ) {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}
	if len(rec.Header().Get(HeaderHash)) != 64 {
		t.Errorf("%s = %q, want 64 hex chars", HeaderHash, rec.Header().Get(HeaderHash))
	}
	if !strings.Contains(rec.Body.String(), `\begin{tikzpicture}`) {
		t.Errorf("body missing tikzpicture:\n%s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/v1/render", "application/toml", edgeScene)
	if got := rec.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("second request %s = %q, want hit", HeaderCache, got)
	}
}

func TestRender_YAMLAndQueryOptions(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()

	viaHeader := do(t, h, http.MethodPost, "/v1/render?format=dot", "application/yaml", edgeSceneYAML)
	if viaHeader.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", viaHeader.Code, viaHeader.Body.String())
	}
	if !strings.Contains(viaHeader.Body.String(), "digraph") {
		t.Errorf("expected DOT output, got:\n%s", viaHeader.Body.String())
	}

	viaQuery := do(t, h, http.MethodPost, "/v1/render?scene=yaml&precision=1", "", edgeSceneYAML)
	if viaQuery.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", viaQuery.Code, viaQuery.Body.String())
	}
	if !strings.Contains(viaQuery.Body.String(), "(b) at (1.0,0.0)") {
		t.Errorf("precision not applied:\n%s", viaQuery.Body.String())
	}
}

func TestRender_Errors(t *testing.T) {
	s, _ := newTestServer(t, Config{MaxSceneBytes: 64})
	h := s.Handler()

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"invalid scene", "/v1/render", "[[graph]]\ncolour = 1\n", http.StatusBadRequest, "INVALID_SCENE"},
		{"bad format", "/v1/render?format=gif", "[[graph]]\nname = \"g\"\n", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad precision", "/v1/render?precision=x", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", "/v1/render", strings.Repeat("#", 65), http.StatusRequestEntityTooLarge, "LIMIT_EXCEEDED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, "", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			if got := decodeError(t, rec); got.Code != tt.code {
				t.Errorf("code = %q, want %q (message %q)", got.Code, tt.code, got.Message)
			}
		})
	}
}

const wideLattice = `
[[lattice]]
name = "L"
window = [-200, -200, 200, 200]
max_vertices = 200000
`

func TestRender_Timeout(t *testing.T) {
	s, _ := newTestServer(t, Config{RenderTimeout: time.Millisecond})

	rec := do(t, s.Handler(), http.MethodPost, "/v1/render", "", wideLattice)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504 (body %s)", rec.Code, rec.Body.String())
	}
	if got := decodeError(t, rec); got.Code != string(errors.ErrCodeTimeout) {
		t.Errorf("code = %q, want TIMEOUT", got.Code)
	}
}

func TestRender_MaxVerticesCap(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := do(t, s.Handler(), http.MethodPost, "/v1/render", "", "[[lattice]]\nname = \"L\"\nmax_vertices = 200001\n")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if got := decodeError(t, rec); got.Code != "INVALID_SCENE" {
		t.Errorf("code = %q, want INVALID_SCENE", got.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"version":`) {
		t.Errorf("healthz omits the build version: %s", rec.Body.String())
	}

	do(t, h, http.MethodPost, "/v1/render", "", edgeScene)
	do(t, h, http.MethodPost, "/v1/render", "", "not = [valid")

	rec = do(t, h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`texgraph_http_requests_total{method="POST",route="/v1/render",status="200"} 1`,
		`texgraph_http_requests_total{method="POST",route="/v1/render",status="400"} 1`,
		`texgraph_http_errors_total{code="INVALID_SCENE",route="/v1/render"} 1`,
		`texgraph_build_duration_seconds_count{status="ok"} 1`,
		`texgraph_render_formats_total{format="tikz"} 1`,
		`texgraph_cache_events_total{event="miss",key_type="render"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := do(t, s.Handler(), http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid style", errors.New(errors.ErrCodeInvalidStyle, "nope"), http.StatusBadRequest},
		{"wrapped invalid basis", fmt.Errorf("lattice L: %w", errors.New(errors.ErrCodeInvalidBasis, "collinear")), http.StatusBadRequest},
		{"graph limit", errors.New(errors.ErrCodeLimitExceeded, "too many").With("limit", 5000), http.StatusUnprocessableEntity},
		{"body limit", errors.New(errors.ErrCodeLimitExceeded, "too large").With("max_bytes", 10), http.StatusRequestEntityTooLarge},
		{"missing vertex", errors.New(errors.ErrCodeVertexNotFound, "x"), http.StatusUnprocessableEntity},
		{"timeout", fmt.Errorf("render: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"io", errors.New(errors.ErrCodeIO, "rsvg-convert missing"), http.StatusInternalServerError},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
