package compile

import (
	"strconv"

	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// ftoa formats a float for embedding in a signal expression.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// =============================================================================
// Mark Assembly - Shared Encoding Table
// =============================================================================

// geomStyle is the per-geometry-kind encoding table entry: mark type plus
// the default styling every builder would otherwise repeat. Geometry
// branches that truly diverge (grouped bars, histograms, violins) keep
// their logic in their own builders.
type geomStyle struct {
	markType    string
	paint       string  // channel the color binds to: "fill" or "stroke"
	size        float64 // symbol area; 0 for non-symbol marks
	opacity     float64
	strokeWidth float64
	// jitterPx is the horizontal perturbation amplitude in pixels. The
	// offset is a declarative random() expression evaluated by the
	// renderer at draw time; the compiler stays deterministic.
	jitterPx float64
}

// geomStyles is the encoding table, one entry per point-like geometry.
var geomStyles = map[plot.Kind]geomStyle{
	plot.KindPoint:  {markType: vega.MarkSymbol, paint: "fill", size: 40, opacity: 0.9},
	plot.KindJitter: {markType: vega.MarkSymbol, paint: "fill", size: 40, opacity: 0.9, jitterPx: 14},
	plot.KindSwarm:  {markType: vega.MarkSymbol, paint: "fill", size: 40, opacity: 0.9, jitterPx: 6},
	plot.KindQQ:     {markType: vega.MarkSymbol, paint: "fill", size: 30, opacity: 0.8},
	plot.KindLine:   {markType: vega.MarkLine, paint: "stroke", opacity: 1, strokeWidth: 2},
}

// assembleSymbol builds a symbol mark over a data source using the shared
// encoding table. x and y must already be channel bindings for the shared
// scale pair.
func (b *buildCtx) assembleSymbol(kind plot.Kind, from string, x, y vega.Channel) vega.Mark {
	style := geomStyles[kind]
	enter := vega.Set{
		"x":         x,
		"y":         y,
		style.paint: b.colorChannel(),
		"size":      vega.V(style.size),
		"opacity":   vega.V(style.opacity),
	}
	if len(b.ctx.Aes.Size) > 0 && plot.IsNumeric(b.ctx.Aes.Size) && from == vega.TableName {
		enter["size"] = vega.SF("size", "size")
	}
	if len(b.ctx.Aes.Shape) > 0 && from == vega.TableName {
		enter["shape"] = vega.SF("shape", "shape")
	}
	b.addTooltip(enter)
	return vega.Mark{
		Type:   style.markType,
		From:   &vega.From{Data: from},
		Encode: &vega.Encode{Enter: enter},
	}
}

// addTooltip attaches the per-mark tooltip expression when enabled.
func (b *buildCtx) addTooltip(set vega.Set) {
	if b.opts.TooltipOn {
		set["tooltip"] = vega.Sig("datum")
	}
}

// xChannel binds the x position of a per-observation mark: straight through
// the scale for numeric data, centered in the band for categorical data.
func (b *buildCtx) xChannel() vega.Channel {
	if b.numericX {
		return vega.SF(vega.XScaleName, "x")
	}
	return vega.Channel{{Scale: vega.XScaleName, Field: "x", Band: 0.5}}
}

// yChannel binds the y position of a per-observation mark.
func (b *buildCtx) yChannel() vega.Channel {
	if b.numericY {
		return vega.SF(vega.YScaleName, "y")
	}
	return vega.Channel{{Scale: vega.YScaleName, Field: "y", Band: 0.5}}
}

// jitterChannel perturbs the x position with a renderer-evaluated random
// offset. amplitude is in pixels, centered on the base position.
func (b *buildCtx) jitterChannel(amplitudePx float64) vega.Channel {
	base := "scale('xscale', datum.x)"
	if !b.numericX {
		base += " + bandwidth('xscale')/2"
	}
	return vega.Sig(base + " + (random() - 0.5) * " + ftoa(amplitudePx))
}
