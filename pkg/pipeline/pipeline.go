// Package pipeline orchestrates the read → compile → validate flow with
// caching.
//
// The [Runner] is the shared entry point for the CLI and the preview server:
// it hashes the raw analysis-context bytes, consults the cache, and on a miss
// reads the context, compiles it into a Vega spec, validates the result, and
// stores the serialized envelope for next time.
package pipeline

import (
	"bytes"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Delen0828/gramm-export-to-vega/pkg/cache"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/stats"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Options controls one pipeline execution.
type Options struct {
	// Plot carries the output parameters forwarded to compilation.
	Plot plot.Options

	// Refresh bypasses the cache read (the result is still stored).
	Refresh bool

	// Logger overrides the runner logger for this execution.
	Logger *log.Logger
}

// Stats carries per-stage timings for one execution.
type Stats struct {
	ReadTime    time.Duration
	CompileTime time.Duration
	TotalTime   time.Duration
}

// Result is the outcome of one pipeline execution.
type Result struct {
	// Spec is the compiled scene description.
	Spec *vega.Spec

	// SpecJSON is the serialized spec, identical to what the cache stores.
	SpecJSON []byte

	// ContextHash identifies the input bytes; the preview server uses it
	// to address stored specs.
	ContextHash string

	// Removed counts invalid observations dropped from the data table.
	Removed int

	// Warnings are recovered statistic-normalization degradations.
	Warnings []stats.Warning

	// Notes are compiler diagnostics (fallback layers, palette overflow).
	Notes []string

	// CacheHit reports whether the result came from the cache.
	CacheHit bool

	Stats Stats
}

// envelope is the cached form of a Result. The spec is kept serialized so a
// hit needs no recompilation, only a decode.
type envelope struct {
	SpecJSON []byte          `json:"spec"`
	Removed  int             `json:"removed"`
	Warnings []stats.Warning `json:"warnings,omitempty"`
	Notes    []string        `json:"notes,omitempty"`
}

// specKeyOpts maps the compile-relevant option fields into the cache key.
func specKeyOpts(o plot.Options) cache.SpecKeyOpts {
	return cache.SpecKeyOpts{
		Width:       o.WidthPx,
		Height:      o.HeightPx,
		Title:       o.Title,
		XTitle:      o.XTitle,
		YTitle:      o.YTitle,
		Interactive: o.InteractiveOn,
		Tooltip:     o.TooltipOn,
	}
}

// readContext decodes and analyzes raw analysis-context bytes.
func readContext(raw []byte) (*plot.Context, error) {
	return plot.ReadContext(bytes.NewReader(raw))
}
