package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Delen0828/gramm-export-to-vega/pkg/cache"
	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

var scatterContext = []byte(`{
	"aes": {
		"x": [1, 2, 3, 4],
		"y": [2.5, 3.1, 4.8, 5.0],
		"color": ["a", "a", "b", "b"]
	},
	"layers": [{"kind": "point"}]
}`)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(&bytes.Buffer{})
	r := NewRunner(c, nil, logger)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestExecuteCompilesScatter(t *testing.T) {
	r := newTestRunner(t)

	result, err := r.Execute(context.Background(), scatterContext, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheHit {
		t.Error("first execution should not be a cache hit")
	}
	if len(result.SpecJSON) == 0 {
		t.Fatal("expected serialized spec")
	}
	if result.Spec == nil || len(result.Spec.Marks) == 0 {
		t.Fatal("expected compiled spec with marks")
	}
	if result.Spec.Data[0].Name != vega.TableName {
		t.Errorf("first data source = %q, want %q", result.Spec.Data[0].Name, vega.TableName)
	}
	if result.ContextHash == "" {
		t.Error("expected context hash")
	}
	if result.Removed != 0 {
		t.Errorf("removed = %d, want 0", result.Removed)
	}
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Execute(ctx, scatterContext, Options{})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, scatterContext, Options{})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second execution should hit the cache")
	}
	if !bytes.Equal(first.SpecJSON, second.SpecJSON) {
		t.Error("cached spec differs from compiled spec")
	}
	if second.Spec == nil || len(second.Spec.Marks) == 0 {
		t.Error("cache hit should still decode the spec")
	}

	// Refresh bypasses the cache read.
	third, err := r.Execute(ctx, scatterContext, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh should not report a cache hit")
	}
}

func TestExecuteOptionsChangeTheKey(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, scatterContext, Options{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	wide, err := r.Execute(ctx, scatterContext, Options{
		Plot: plot.Options{Width: "900"},
	})
	if err != nil {
		t.Fatalf("Execute with width: %v", err)
	}
	if wide.CacheHit {
		t.Error("different options must not hit the default-option entry")
	}
	if wide.Spec.Width != 900 {
		t.Errorf("spec width = %v, want 900", wide.Spec.Width)
	}
}

func TestExecuteWithNullCache(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, log.New(&bytes.Buffer{}))
	defer r.Close()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := r.Execute(ctx, scatterContext, Options{})
		if err != nil {
			t.Fatalf("Execute #%d: %v", i+1, err)
		}
		if result.CacheHit {
			t.Errorf("execution #%d hit a null cache", i+1)
		}
	}
}

func TestExecuteFatalErrors(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  []byte
		opts Options
		code errors.Code
	}{
		{
			name: "bad width",
			raw:  scatterContext,
			opts: Options{Plot: plot.Options{Width: "zero"}},
			code: errors.ErrCodeInvalidDimension,
		},
		{
			name: "malformed context",
			raw:  []byte(`{"aes": [1, 2]}`),
			opts: Options{},
			code: errors.ErrCodeInvalidContext,
		},
		{
			name: "mismatched lengths",
			raw:  []byte(`{"aes": {"x": [1, 2], "y": [1]}}`),
			opts: Options{},
			code: errors.ErrCodeInvalidContext,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.raw, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatal("NewRunner must fill nil collaborators")
	}
	if _, ok := r.Cache.(*cache.NullCache); !ok {
		t.Error("nil cache should default to NullCache")
	}
}
