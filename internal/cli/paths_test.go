package cli

import (
	"path/filepath"
	"testing"

	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
)

func TestSpecOutputPath(t *testing.T) {
	tests := []struct {
		name string
		opts plot.Options
		want string
	}{
		{
			name: "defaults",
			opts: plot.Options{},
			want: "plot.json",
		},
		{
			name: "custom name",
			opts: plot.Options{FileName: "scatter"},
			want: "scatter.json",
		},
		{
			name: "export path",
			opts: plot.Options{FileName: "scatter", ExportPath: "out"},
			want: filepath.Join("out", "scatter.json"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := specOutputPath(tt.opts); got != tt.want {
				t.Errorf("specOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLOutputPath(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"plot.json", "plot.html"},
		{filepath.Join("out", "scatter.json"), filepath.Join("out", "scatter.html")},
		{"noext", "noext.html"},
	}
	for _, tt := range tests {
		if got := htmlOutputPath(tt.spec); got != tt.want {
			t.Errorf("htmlOutputPath(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	want := filepath.Join("/tmp/xdg-cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}
