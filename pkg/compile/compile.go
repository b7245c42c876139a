package compile

import (
	"context"
	"fmt"

	"github.com/Delen0828/gramm-export-to-vega/pkg/observability"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/stats"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// builders dispatches a declared layer kind to its builder.
var builders = map[plot.Kind]builder{
	plot.KindPoint:     buildPoint(plot.KindPoint),
	plot.KindJitter:    buildPoint(plot.KindJitter),
	plot.KindSwarm:     buildPoint(plot.KindSwarm),
	plot.KindLine:      buildLine,
	plot.KindBar:       buildBar,
	plot.KindHistogram: buildHistogram,
	plot.KindBin2D:     buildBin2D,
	plot.KindBoxplot:   buildBoxplot,
	plot.KindViolin:    buildViolin,
	plot.KindDensity:   buildDensity,
	plot.KindQQ:        buildQQ,
	plot.KindSmooth:    buildRegression(stats.KindSmooth),
	plot.KindGLM:       buildRegression(stats.KindGLM),
	plot.KindSummary:   buildSummary,
}

// Result is the outcome of one compile pass.
type Result struct {
	Spec *vega.Spec
	// Removed counts NaN/Inf observations filtered from the table.
	Removed int
	// Warnings are recovered statistic-normalization degradations.
	Warnings []stats.Warning
	// Notes are dispatcher diagnostics (default-layer fallback, palette
	// overflow, unsupported kinds).
	Notes []string
}

// Compile runs the full single-pass pipeline over an analyzed context:
// table construction, layer dispatch, fragment merge, and legend
// composition. Fatal errors only arise from option validation; every data
// irregularity degrades into Warnings or Notes. Each built fragment fires
// an observability layer event.
func Compile(ctx context.Context, pctx *plot.Context, opts plot.Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	b := newBuildCtx(pctx, opts)
	table, removed := BuildTable(pctx)
	result := &Result{Removed: removed}

	layers := pctx.Layers
	if len(layers) == 0 {
		layers = []plot.Layer{{Kind: plot.KindPoint}}
		result.Notes = append(result.Notes, "no layers declared, falling back to the default point layer")
	}

	fragments := make([]*Fragment, 0, len(layers))
	for _, layer := range layers {
		build, ok := builders[layer.Kind]
		if !ok {
			result.Notes = append(result.Notes, fmt.Sprintf("unsupported layer kind %q skipped", layer.Kind))
			continue
		}
		before := len(b.warnings)
		frag := build(b)
		if frag == nil {
			result.Notes = append(result.Notes, fmt.Sprintf("layer %q contributed nothing (no usable statistic records)", layer.Kind))
			continue
		}
		observability.Compile().OnLayerBuilt(ctx, string(layer.Kind), len(b.warnings)-before)
		fragments = append(fragments, frag)
	}

	if levels := pctx.Grouping.Levels; len(levels) > len(Palette) {
		result.Notes = append(result.Notes, fmt.Sprintf(
			"color domain has %d categories but the palette has %d entries; categories beyond the palette are not remapped",
			len(levels), len(Palette)))
	}

	spec := Merge(table, fragments, opts)
	spec = ComposeLegend(spec, table, opts.InteractiveOn)

	result.Spec = spec
	result.Warnings = b.warnings
	return result, nil
}
