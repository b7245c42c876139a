package compile

import (
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// =============================================================================
// Raw-Geometry Builders
// =============================================================================

// buildPoint builds the symbol layer over the primary table. Jitter and
// swarm reuse it with a declarative random horizontal perturbation; the
// renderer evaluates the offset at draw time.
func buildPoint(kind plot.Kind) builder {
	return func(b *buildCtx) *Fragment {
		x := b.xChannel()
		if px := geomStyles[kind].jitterPx; px > 0 {
			x = b.jitterChannel(px)
		}
		frag := &Fragment{
			Scales: b.tableScales(),
			Axes:   b.axes(),
			Marks:  []vega.Mark{b.assembleSymbol(kind, vega.TableName, x, b.yChannel())},
		}
		return frag
	}
}

// buildLine builds the line layer: one line mark when ungrouped, a group
// mark faceting the table by color otherwise. Facets do not guarantee row
// order, so every line sorts by x before rendering.
func buildLine(b *buildCtx) *Fragment {
	sortByX := &vega.Compare{Field: "datum.x"}
	style := geomStyles[plot.KindLine]

	line := func(from string, stroke vega.Channel) vega.Mark {
		enter := vega.Set{
			"x":           b.xChannel(),
			"y":           b.yChannel(),
			"stroke":      stroke,
			"strokeWidth": vega.V(style.strokeWidth),
		}
		b.addTooltip(enter)
		return vega.Mark{
			Type:   vega.MarkLine,
			From:   &vega.From{Data: from},
			Sort:   sortByX,
			Encode: &vega.Encode{Enter: enter},
		}
	}

	frag := &Fragment{
		Scales: b.tableScales(),
		Axes:   b.axes(),
	}
	if !b.grouped() {
		frag.Marks = []vega.Mark{line(vega.TableName, vega.V(defaultColor()))}
		return frag
	}
	frag.Marks = []vega.Mark{{
		Type: vega.MarkGroup,
		From: &vega.From{Facet: &vega.Facet{
			Name:    "series",
			Data:    vega.TableName,
			GroupBy: "color",
		}},
		Marks: []vega.Mark{line("series", vega.SF(vega.ColorScaleName, "color"))},
	}}
	return frag
}

// buildBar builds the bar layer. Ungrouped bars are simple rects on a band
// x scale; grouped bars use the clustered pattern: a group mark faceted by
// x with an inner band scale positioned over the facet's own color domain.
func buildBar(b *buildCtx) *Fragment {
	xscale := positionScale(vega.XScaleName, "x", "width", false, barPadding)
	yscale := vega.Scale{
		Name:   vega.YScaleName,
		Type:   vega.ScaleLinear,
		Domain: vega.RefDomain(vega.TableName, "y"),
		Range:  "height",
		Nice:   true,
		Zero:   boolPtr(true),
	}

	frag := &Fragment{
		Scales: []vega.Scale{xscale, yscale},
		Axes:   b.axes(),
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
		frag.Marks = []vega.Mark{b.clusteredBars()}
		return frag
	}

	enter := vega.Set{
		"x":     vega.SF(vega.XScaleName, "x"),
		"width": vega.BandWidth(vega.XScaleName),
		"y":     vega.SF(vega.YScaleName, "y"),
		"y2":    vega.SV(vega.YScaleName, 0.0),
		"fill":  vega.V(defaultColor()),
	}
	b.addTooltip(enter)
	frag.Marks = []vega.Mark{{
		Type:   vega.MarkRect,
		From:   &vega.From{Data: vega.TableName},
		Encode: &vega.Encode{Enter: enter},
	}}
	return frag
}

// clusteredBars builds the nested facet-by-x inner-band-by-color layout.
// The inner "pos" scale spans the outer bandwidth and is computed from the
// facet's own color domain, so clusters with missing categories stay tight.
func (b *buildCtx) clusteredBars() vega.Mark {
	enter := vega.Set{
		"x":     vega.SF("pos", "color"),
		"width": vega.BandWidth("pos"),
		"y":     vega.SF(vega.YScaleName, "y"),
		"y2":    vega.SV(vega.YScaleName, 0.0),
		"fill":  vega.SF(vega.ColorScaleName, "color"),
	}
	b.addTooltip(enter)

	return vega.Mark{
		Type: vega.MarkGroup,
		From: &vega.From{Facet: &vega.Facet{
			Name:    "facet",
			Data:    vega.TableName,
			GroupBy: "x",
		}},
		Encode: &vega.Encode{Enter: vega.Set{
			"x": vega.SF(vega.XScaleName, "x"),
		}},
		Signals: []vega.Signal{
			{Name: "width", Update: "bandwidth('xscale')"},
		},
		Scales: []vega.Scale{{
			Name:    "pos",
			Type:    vega.ScaleBand,
			Domain:  vega.RefDomain("facet", "color"),
			Range:   "width",
			Padding: bandPadding,
		}},
		Marks: []vega.Mark{{
			Type:   vega.MarkRect,
			From:   &vega.From{Data: "facet"},
			Encode: &vega.Encode{Enter: enter},
		}},
	}
}

// tableScales is the standard scale set for table-backed layers: the shared
// positional pair plus color/size/shape when those aesthetics are active.
func (b *buildCtx) tableScales() []vega.Scale {
	scales := []vega.Scale{b.xScale(), b.yScale()}
	if b.grouped() {
		scales = append(scales, b.colorScale())
	}
	if len(b.ctx.Aes.Size) > 0 && plot.IsNumeric(b.ctx.Aes.Size) {
		scales = append(scales, b.sizeScale())
	}
	if len(b.ctx.Aes.Shape) > 0 {
		scales = append(scales, b.shapeScale())
	}
	return scales
}

func boolPtr(v bool) *bool { return &v }
