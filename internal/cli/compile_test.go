package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
)

func TestRunCompileWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "context.json")
	contextJSON := `{
		"aes": {"x": [1, 2, 3], "y": [2, 4, 6]},
		"layers": [{"kind": "line"}]
	}`
	if err := os.WriteFile(input, []byte(contextJSON), 0o644); err != nil {
		t.Fatalf("write context: %v", err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	opts := plot.Options{FileName: "demo", ExportPath: dir}
	err := c.runCompile(context.Background(), input, Config{}, opts, compileOutput{
		html:    true,
		noCache: true,
	})
	if err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	specPath := filepath.Join(dir, "demo.json")
	raw, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("read spec: %v", err)
	}
	var spec map[string]any
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("spec is not valid JSON: %v", err)
	}
	if _, ok := spec["$schema"]; !ok {
		t.Error("spec is missing $schema")
	}

	htmlPath := filepath.Join(dir, "demo.html")
	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(page), "demo.json") {
		t.Error("html page does not reference the spec file")
	}
}

func TestRunCompileMissingInput(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	err := c.runCompile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), Config{}, plot.Options{}, compileOutput{noCache: true})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
