package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/Delen0828/gramm-export-to-vega/pkg/cache"
	"github.com/Delen0828/gramm-export-to-vega/pkg/compile"
	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
	"github.com/Delen0828/gramm-export-to-vega/pkg/observability"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Runner encapsulates spec compilation with caching.
// Both CLI and the preview server use this to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute compiles raw analysis-context bytes into a validated Vega spec.
func (r *Runner) Execute(ctx context.Context, raw []byte, opts Options) (*Result, error) {
	start := time.Now()
	logger := r.logger(opts)

	if err := opts.Plot.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	contextHash := cache.Hash(raw)
	cacheKey := r.Keyer.SpecKey(contextHash, specKeyOpts(opts.Plot))

	// Try cache first (unless refresh requested).
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if result, err := decodeEnvelope(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "spec")
				result.ContextHash = contextHash
				result.CacheHit = true
				result.Stats.TotalTime = time.Since(start)
				logger.Debug("spec cache hit", "hash", shortHash(contextHash))
				return result, nil
			}
			// A stale envelope falls through to recompilation.
			_ = r.Cache.Delete(ctx, cacheKey)
		}
		observability.Cache().OnCacheMiss(ctx, "spec")
	}

	// Stage 1: Read
	readStart := time.Now()
	pctx, err := readContext(raw)
	if err != nil {
		return nil, err
	}
	readTime := time.Since(readStart)

	logger.Info("read analysis context",
		"observations", pctx.Observations(),
		"layers", len(pctx.Layers),
		"duration", readTime)

	// Stage 2: Compile
	compileStart := time.Now()
	observability.Compile().OnCompileStart(ctx, len(pctx.Layers), pctx.Observations())
	compiled, err := compile.Compile(ctx, pctx, opts.Plot)
	observability.Compile().OnCompileComplete(ctx, time.Since(compileStart), err)
	if err != nil {
		return nil, err
	}

	// Stage 3: Validate and serialize
	if err := vega.Validate(compiled.Spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compiled spec failed validation")
	}
	specJSON, err := vega.Marshal(compiled.Spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize spec")
	}

	result := &Result{
		Spec:        compiled.Spec,
		SpecJSON:    specJSON,
		ContextHash: contextHash,
		Removed:     compiled.Removed,
		Warnings:    compiled.Warnings,
		Notes:       compiled.Notes,
	}
	result.Stats.ReadTime = readTime
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.TotalTime = time.Since(start)

	for _, w := range compiled.Warnings {
		logger.Warn("statistic degraded", "code", w.Code, "group", w.Group, "detail", w.Msg)
	}
	for _, note := range compiled.Notes {
		logger.Info(note)
	}
	logger.Info("compiled spec",
		"marks", len(compiled.Spec.Marks),
		"scales", len(compiled.Spec.Scales),
		"removed", compiled.Removed,
		"duration", result.Stats.CompileTime)

	// Cache the result.
	if data, err := encodeEnvelope(result); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSpec); err == nil {
			observability.Cache().OnCacheSet(ctx, "spec", len(data))
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// logger picks the per-execution logger.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// encodeEnvelope serializes a Result for caching.
func encodeEnvelope(result *Result) ([]byte, error) {
	return json.Marshal(&envelope{
		SpecJSON: result.SpecJSON,
		Removed:  result.Removed,
		Warnings: result.Warnings,
		Notes:    result.Notes,
	})
}

// decodeEnvelope restores a cached Result, including the decoded spec.
func decodeEnvelope(data []byte) (*Result, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	spec, err := vega.ReadSpec(bytes.NewReader(e.SpecJSON))
	if err != nil {
		return nil, err
	}
	return &Result{
		Spec:     spec,
		SpecJSON: e.SpecJSON,
		Removed:  e.Removed,
		Warnings: e.Warnings,
		Notes:    e.Notes,
	}, nil
}

// shortHash truncates a hash for log output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
