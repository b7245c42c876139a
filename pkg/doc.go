// Package pkg provides the core libraries for the vegaexport plot compiler.
//
// # Overview
//
// vegaexport compiles an abstract, declarative plot description — aesthetic
// mappings, geometric and statistical layers, and precomputed statistics —
// into a complete Vega scene-graph specification. The pkg directory is
// organized into five main areas:
//
//  1. [plot] - Input contract (AnalysisContext, layers, output options)
//  2. [stats] - Normalization of heterogeneous precomputed statistics
//  3. [compile] - Layer builders, scale synthesis, merge, legend composition
//  4. [vega] - Typed Vega spec model, validation, and writers
//  5. [pipeline] - Orchestration (analyze → build → merge → compose)
//
// # Architecture
//
// The typical data flow through vegaexport:
//
//	AnalysisContext (aesthetics + layers + stats)
//	         ↓
//	    [plot] package (grouping analysis, option validation)
//	         ↓
//	    [stats] package (canonical point lists)
//	         ↓
//	    [compile] package (fragments → merged spec → legend/signals)
//	         ↓
//	    [vega] package (validated JSON spec + companion HTML)
//
// # Quick Start
//
// Compile a plot description to a Vega spec:
//
//	import (
//	    "context"
//	    "github.com/Delen0828/gramm-export-to-vega/pkg/pipeline"
//	    "github.com/Delen0828/gramm-export-to-vega/pkg/plot"
//	)
//
//	pctx, _ := plot.ReadContextFile("analysis.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pctx, pipeline.Options{})
//	os.WriteFile("plot.json", result.SpecJSON, 0644)
//
// # Infrastructure
//
// [cache] - File-based cache for compiled specs keyed by a hash of the
// analysis context and options. NullCache disables caching.
//
// [errors] - Structured error codes. Only configuration-contract violations
// are fatal; data-shape irregularities degrade to smaller-but-valid specs.
//
// [observability] - Optional hooks for compile-stage instrumentation.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/compile/...  # Specific package
//
// [plot]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/plot
// [stats]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/stats
// [compile]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/compile
// [vega]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/vega
// [pipeline]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/cache
// [errors]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/Delen0828/gramm-export-to-vega/pkg/buildinfo
package pkg
