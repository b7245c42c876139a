package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/Delen0828/gramm-export-to-vega/pkg/cache"
	"github.com/Delen0828/gramm-export-to-vega/pkg/pipeline"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(&bytes.Buffer{}))
	t.Cleanup(func() { _ = runner.Close() })
	return newServer(runner, log.New(&bytes.Buffer{})).routes()
}

func postCompile(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerCompileRoundTrip(t *testing.T) {
	h := newTestServer(t)

	rec := postCompile(t, h, `{
		"context": {
			"aes": {"x": [1, 2, 3], "y": [4, 5, 6]},
			"layers": [{"kind": "point"}]
		},
		"options": {"title": "demo"}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID         string `json:"id"`
		SpecURL    string `json:"spec_url"`
		PreviewURL string `json:"preview_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || resp.SpecURL == "" || resp.PreviewURL == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}

	// The spec endpoint serves the compiled JSON.
	req := httptest.NewRequest(http.MethodGet, resp.SpecURL, nil)
	specRec := httptest.NewRecorder()
	h.ServeHTTP(specRec, req)
	if specRec.Code != http.StatusOK {
		t.Fatalf("spec status = %d", specRec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(specRec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("spec is not valid JSON: %v", err)
	}
	if _, ok := spec["$schema"]; !ok {
		t.Error("served spec is missing $schema")
	}

	// The preview endpoint serves an HTML page referencing the spec.
	req = httptest.NewRequest(http.MethodGet, resp.PreviewURL, nil)
	prevRec := httptest.NewRecorder()
	h.ServeHTTP(prevRec, req)
	if prevRec.Code != http.StatusOK {
		t.Fatalf("preview status = %d", prevRec.Code)
	}
	if ct := prevRec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("preview content type = %q", ct)
	}
	if !strings.Contains(prevRec.Body.String(), resp.SpecURL) {
		t.Error("preview page does not reference the spec URL")
	}
}

func TestServerCompileErrors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing context", `{"options": {}}`, http.StatusBadRequest},
		{
			"unrecognized option",
			`{"context": {"aes": {"x": [1], "y": [1]}}, "options": {"wat": "x"}}`,
			http.StatusUnprocessableEntity,
		},
		{
			"mismatched aes lengths",
			`{"context": {"aes": {"x": [1, 2], "y": [1]}}}`,
			http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCompile(t, h, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestServerUnknownSpecIs404(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/spec/missing.json", "/preview/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestServerHealthz(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
