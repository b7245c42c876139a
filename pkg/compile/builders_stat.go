package compile

import (
	"math"
	"strconv"

	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/stats"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Auxiliary data source names. Builders never write to the primary table;
// they introduce these uniquely named sources instead.
const (
	statsSource   = "stats"
	statsCISource = "stats_ci"
	binsSource    = "bins"
	cellsSource   = "cells"
	boxesSource   = "boxplot_boxes"
	violinSource  = "violin"
	densitySource = "density"
	qqSource      = "qq"
	summarySource = "summary"
)

// ciFilterExpr excludes rows with invalid CI bounds so the confidence band
// area mark never plots undefined geometry.
const ciFilterExpr = "isValid(datum.ci_lower) && isValid(datum.ci_upper)"

// =============================================================================
// Regression (Smooth / GLM)
// =============================================================================

// buildRegression builds the smooth/glm layer: a stats source of normalized
// regression+CI points, a separate NaN-filtered CI source, and marks in
// z-order CI area → regression line(s) → raw observation points.
func buildRegression(kind stats.Kind) builder {
	return func(b *buildCtx) *Fragment {
		groups, warns := stats.NormalizeRegression(b.ctx.Stats[kind])
		b.warn(warns)
		if len(groups) == 0 {
			return nil
		}

		rows := make([]Row, 0)
		hasCI := false
		for _, g := range groups {
			for i := range g.X {
				row := Row{
					"x":     g.X[i],
					"y":     g.Y[i],
					"group": g.Group,
					"color": b.groupLabel(g.Group),
				}
				if g.HasCI {
					row["ci_lower"] = g.CILower[i]
					row["ci_upper"] = g.CIUpper[i]
					hasCI = true
				}
				rows = append(rows, row)
			}
		}

		frag := &Fragment{
			Data:   []vega.Data{{Name: statsSource, Values: rows}},
			Scales: b.tableScales(),
			Axes:   b.axes(),
		}

		if hasCI {
			frag.Data = append(frag.Data, vega.Data{
				Name:      statsCISource,
				Source:    statsSource,
				Transform: []vega.Transform{{Type: "filter", Expr: ciFilterExpr}},
			})
			frag.Marks = append(frag.Marks, b.regressionBand(len(groups) > 1))
		}
		frag.Marks = append(frag.Marks, b.regressionLine(len(groups) > 1))
		frag.Marks = append(frag.Marks, b.assembleSymbol(plot.KindPoint, vega.TableName, b.xChannel(), b.yChannel()))
		return frag
	}
}

// regressionBand draws the confidence band beneath the line.
func (b *buildCtx) regressionBand(multi bool) vega.Mark {
	enter := vega.Set{
		"x":  vega.SF(vega.XScaleName, "x"),
		"y":  vega.SF(vega.YScaleName, "ci_lower"),
		"y2": vega.SF(vega.YScaleName, "ci_upper"),
	}
	if b.grouped() {
		enter["fill"] = vega.SF(vega.ColorScaleName, "color")
		enter["fillOpacity"] = vega.V(0.25)
	} else {
		enter["fill"] = vega.V("#d3d3d3")
		enter["fillOpacity"] = vega.V(0.6)
	}
	area := vega.Mark{
		Type:   vega.MarkArea,
		From:   &vega.From{Data: statsCISource},
		Sort:   &vega.Compare{Field: "datum.x"},
		Encode: &vega.Encode{Enter: enter},
	}
	if !multi {
		return area
	}
	return facetBy(statsCISource, "band_series", "group", area)
}

// regressionLine draws the fitted line(s) above the band.
func (b *buildCtx) regressionLine(multi bool) vega.Mark {
	enter := vega.Set{
		"x":           vega.SF(vega.XScaleName, "x"),
		"y":           vega.SF(vega.YScaleName, "y"),
		"stroke":      b.colorChannel(),
		"strokeWidth": vega.V(2.5),
	}
	b.addTooltip(enter)
	line := vega.Mark{
		Type:   vega.MarkLine,
		From:   &vega.From{Data: statsSource},
		Sort:   &vega.Compare{Field: "datum.x"},
		Encode: &vega.Encode{Enter: enter},
	}
	if !multi {
		return line
	}
	return facetBy(statsSource, "fit_series", "group", line)
}

// facetBy wraps an inner mark in a group mark partitioning source by field.
// The inner mark is rebound to the facet partition.
func facetBy(source, facetName, field string, inner vega.Mark) vega.Mark {
	inner.From = &vega.From{Data: facetName}
	return vega.Mark{
		Type: vega.MarkGroup,
		From: &vega.From{Facet: &vega.Facet{
			Name:    facetName,
			Data:    source,
			GroupBy: field,
		}},
		Marks: []vega.Mark{inner},
	}
}

// =============================================================================
// Histogram / 2-D Binning
// =============================================================================

// buildHistogram builds the binning layer with custom literal scales: the x
// domain is the exact edge extent and the y domain is 0..max(count). The
// generic synthesizer is bypassed because histogram y domains must start at
// zero and be driven by counts, not raw observations.
func buildHistogram(b *buildCtx) *Fragment {
	groups, warns := stats.NormalizeHistogram(b.ctx.Stats[stats.KindHistogram])
	b.warn(warns)
	if len(groups) == 0 {
		return nil
	}

	rows := make([]Row, 0)
	minEdge, maxEdge := math.Inf(1), math.Inf(-1)
	maxCount := 0.0
	for _, g := range groups {
		minEdge = math.Min(minEdge, g.Edges[0])
		maxEdge = math.Max(maxEdge, g.Edges[len(g.Edges)-1])
		for i, count := range g.Counts {
			maxCount = math.Max(maxCount, count)
			rows = append(rows, Row{
				"x0":     g.Edges[i],
				"x1":     g.Edges[i+1],
				"center": g.Centers[i],
				"count":  count,
				"color":  b.groupLabel(g.Group),
			})
		}
	}

	enter := vega.Set{
		"x":       vega.SF(vega.XScaleName, "x0"),
		"x2":      vega.SF(vega.XScaleName, "x1"),
		"y":       vega.SF(vega.YScaleName, "count"),
		"y2":      vega.SV(vega.YScaleName, 0.0),
		"opacity": vega.V(0.7),
	}
	if b.grouped() {
		enter["fill"] = vega.SF(vega.ColorScaleName, "color")
	} else {
		enter["fill"] = vega.V(defaultColor())
	}
	b.addTooltip(enter)

	frag := &Fragment{
		Data: []vega.Data{{Name: binsSource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:   vega.XScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.LiteralDomain(minEdge, maxEdge),
				Range:  "width",
			},
			{
				Name:   vega.YScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.LiteralDomain(0.0, maxCount),
				Range:  "height",
			},
		},
		Axes: b.axes(),
		Marks: []vega.Mark{{
			Type:   vega.MarkRect,
			From:   &vega.From{Data: binsSource},
			Encode: &vega.Encode{Enter: enter},
		}},
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
	}
	return frag
}

// buildBin2D builds the heatmap layer: one rect per non-zero 2-D cell with
// a continuous color scale over counts.
func buildBin2D(b *buildCtx) *Fragment {
	grid, warns, ok := stats.NormalizeBin2D(b.ctx.Stats[stats.KindBin2D])
	b.warn(warns)
	if !ok {
		return nil
	}

	rows := make([]Row, 0)
	maxCount := 0.0
	for i, col := range grid.Counts {
		for j, count := range col {
			if count == 0 || j >= len(grid.YEdges)-1 {
				continue
			}
			maxCount = math.Max(maxCount, count)
			rows = append(rows, Row{
				"x0":    grid.XEdges[i],
				"x1":    grid.XEdges[i+1],
				"y0":    grid.YEdges[j],
				"y1":    grid.YEdges[j+1],
				"count": count,
			})
		}
	}

	enter := vega.Set{
		"x":    vega.SF(vega.XScaleName, "x0"),
		"x2":   vega.SF(vega.XScaleName, "x1"),
		"y":    vega.SF(vega.YScaleName, "y0"),
		"y2":   vega.SF(vega.YScaleName, "y1"),
		"fill": vega.SF(vega.ColorScaleName, "count"),
	}
	b.addTooltip(enter)

	return &Fragment{
		Data: []vega.Data{{Name: cellsSource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:   vega.XScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.LiteralDomain(grid.XEdges[0], grid.XEdges[len(grid.XEdges)-1]),
				Range:  "width",
			},
			{
				Name:   vega.YScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.LiteralDomain(grid.YEdges[0], grid.YEdges[len(grid.YEdges)-1]),
				Range:  "height",
			},
			b.countColorScale(maxCount),
		},
		Axes: b.axes(),
		Marks: []vega.Mark{{
			Type:   vega.MarkRect,
			From:   &vega.From{Data: cellsSource},
			Encode: &vega.Encode{Enter: enter},
		}},
	}
}

// =============================================================================
// Distribution Layers (Boxplot / Violin / Density / QQ / Summary)
// =============================================================================

// categories returns the distinct x labels in first-seen order. All
// categorical layers position their axes by these labels, so the ordering
// is part of the output contract.
func (b *buildCtx) categories() []string {
	return plot.DistinctLabels(b.ctx.Aes.X)
}

// categoryLabel maps a 1-based statistic group to its x category.
func categoryLabel(cats []string, group int) string {
	if group >= 1 && group <= len(cats) {
		return cats[group-1]
	}
	return "group " + strconv.Itoa(group)
}

// buildBoxplot builds the box-and-whisker layer: whisker rules, quartile
// boxes, and median rules per category.
func buildBoxplot(b *buildCtx) *Fragment {
	groups, warns := stats.NormalizeBoxplot(b.ctx.Stats[stats.KindBoxplot])
	b.warn(warns)
	if len(groups) == 0 {
		return nil
	}

	cats := b.categories()
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, Row{
			"cat":    categoryLabel(cats, g.Group),
			"lower":  g.LowerWhisker,
			"q1":     g.Q1,
			"median": g.Median,
			"q3":     g.Q3,
			"upper":  g.UpperWhisker,
			"color":  b.groupLabel(g.Group),
		})
	}

	boxFill := vega.V(defaultColor())
	if b.grouped() {
		boxFill = vega.SF(vega.ColorScaleName, "color")
	}

	center := vega.Channel{{Scale: vega.XScaleName, Field: "cat", Band: 0.5}}
	boxLeft := vega.Channel{{Scale: vega.XScaleName, Field: "cat", Band: 0.2}}
	boxRight := vega.Channel{{Scale: vega.XScaleName, Field: "cat", Band: 0.8}}

	boxEnter := vega.Set{
		"x":           boxLeft,
		"x2":          boxRight,
		"y":           vega.SF(vega.YScaleName, "q1"),
		"y2":          vega.SF(vega.YScaleName, "q3"),
		"fill":        boxFill,
		"fillOpacity": vega.V(0.6),
		"stroke":      vega.V("#333333"),
	}
	b.addTooltip(boxEnter)

	frag := &Fragment{
		Data: []vega.Data{{Name: boxesSource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:    vega.XScaleName,
				Type:    vega.ScaleBand,
				Domain:  vega.RefDomain(boxesSource, "cat"),
				Range:   "width",
				Padding: bandPadding,
			},
			b.yScale(),
		},
		Axes: b.axes(),
		Marks: []vega.Mark{
			{
				// Whisker behind the box.
				Type: vega.MarkRule,
				From: &vega.From{Data: boxesSource},
				Encode: &vega.Encode{Enter: vega.Set{
					"x":      center,
					"y":      vega.SF(vega.YScaleName, "lower"),
					"y2":     vega.SF(vega.YScaleName, "upper"),
					"stroke": vega.V("#333333"),
				}},
			},
			{
				Type:   vega.MarkRect,
				From:   &vega.From{Data: boxesSource},
				Encode: &vega.Encode{Enter: boxEnter},
			},
			{
				Type: vega.MarkRule,
				From: &vega.From{Data: boxesSource},
				Encode: &vega.Encode{Enter: vega.Set{
					"x":           boxLeft,
					"x2":          boxRight,
					"y":           vega.SF(vega.YScaleName, "median"),
					"stroke":      vega.V("#333333"),
					"strokeWidth": vega.V(2.0),
				}},
			},
		},
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
	}
	return frag
}

// buildViolin builds the violin layer: per-category density curves mirrored
// into symmetric areas about the category center. Densities are scaled so
// the widest violin fills the band.
func buildViolin(b *buildCtx) *Fragment {
	points, warns := stats.NormalizeViolin(b.ctx.Stats[stats.KindViolin])
	b.warn(warns)
	if len(points) == 0 {
		return nil
	}

	cats := b.categories()
	maxDensity := 0.0
	rows := make([]Row, 0, len(points))
	for _, p := range points {
		maxDensity = math.Max(maxDensity, p.Density)
		rows = append(rows, Row{
			"cat":     categoryLabel(cats, p.Group),
			"y":       p.Y,
			"density": p.Density,
			"color":   b.groupLabel(p.Group),
		})
	}
	if maxDensity == 0 {
		maxDensity = 1
	}

	// Mirror about the band center: half-width shrinks and grows with the
	// normalized density.
	// Horizontal orient makes the area span x..x2 per y point; the default
	// vertical orient would ignore x2 and collapse the mirror.
	half := "bandwidth('xscale')/2"
	norm := "(datum.density / " + ftoa(maxDensity) + ")"
	enter := vega.Set{
		"orient":      vega.V("horizontal"),
		"x":           vega.Sig("scale('xscale', datum.cat) + " + half + " * (1 - " + norm + ")"),
		"x2":          vega.Sig("scale('xscale', datum.cat) + " + half + " * (1 + " + norm + ")"),
		"y":           vega.SF(vega.YScaleName, "y"),
		"fillOpacity": vega.V(0.7),
	}
	if b.grouped() {
		enter["fill"] = vega.SF(vega.ColorScaleName, "color")
	} else {
		enter["fill"] = vega.V(defaultColor())
	}
	b.addTooltip(enter)

	area := vega.Mark{
		Type:   vega.MarkArea,
		Sort:   &vega.Compare{Field: "datum.y"},
		Encode: &vega.Encode{Enter: enter},
	}

	frag := &Fragment{
		Data: []vega.Data{{Name: violinSource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:    vega.XScaleName,
				Type:    vega.ScaleBand,
				Domain:  vega.RefDomain(violinSource, "cat"),
				Range:   "width",
				Padding: bandPadding,
			},
			{
				Name:   vega.YScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.RefDomain(violinSource, "y"),
				Range:  "height",
				Nice:   true,
			},
		},
		Axes:  b.axes(),
		Marks: []vega.Mark{facetBy(violinSource, "violin_facet", "cat", area)},
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
	}
	return frag
}

// buildDensity builds per-group density curves as line marks over a
// dedicated source.
func buildDensity(b *buildCtx) *Fragment {
	groups, warns := stats.NormalizeDensity(b.ctx.Stats[stats.KindDensity])
	b.warn(warns)
	if len(groups) == 0 {
		return nil
	}

	rows := make([]Row, 0)
	for _, g := range groups {
		for i := range g.X {
			rows = append(rows, Row{
				"x":     g.X[i],
				"y":     g.Y[i],
				"group": g.Group,
				"color": b.groupLabel(g.Group),
			})
		}
	}

	enter := vega.Set{
		"x":           vega.SF(vega.XScaleName, "x"),
		"y":           vega.SF(vega.YScaleName, "y"),
		"stroke":      b.colorChannel(),
		"strokeWidth": vega.V(2.0),
	}
	b.addTooltip(enter)
	line := vega.Mark{
		Type:   vega.MarkLine,
		From:   &vega.From{Data: densitySource},
		Sort:   &vega.Compare{Field: "datum.x"},
		Encode: &vega.Encode{Enter: enter},
	}

	mark := line
	if len(groups) > 1 {
		mark = facetBy(densitySource, "density_series", "group", line)
	}

	frag := &Fragment{
		Data: []vega.Data{{Name: densitySource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:   vega.XScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.RefDomain(densitySource, "x"),
				Range:  "width",
				Nice:   true,
			},
			{
				Name:   vega.YScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.RefDomain(densitySource, "y"),
				Range:  "height",
				Nice:   true,
				Zero:   boolPtr(true),
			},
		},
		Axes:  b.axes(),
		Marks: []vega.Mark{mark},
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
	}
	return frag
}

// buildQQ builds the quantile-quantile layer: sample quantiles against
// theoretical quantiles on a dedicated source.
func buildQQ(b *buildCtx) *Fragment {
	groups, warns := stats.NormalizeQQ(b.ctx.Stats[stats.KindQQ])
	b.warn(warns)
	if len(groups) == 0 {
		return nil
	}

	rows := make([]Row, 0)
	for _, g := range groups {
		for i := range g.Theoretical {
			rows = append(rows, Row{
				"theoretical": g.Theoretical[i],
				"sample":      g.Sample[i],
				"group":       g.Group,
				"color":       b.groupLabel(g.Group),
			})
		}
	}

	style := geomStyles[plot.KindQQ]
	enter := vega.Set{
		"x":       vega.SF(vega.XScaleName, "theoretical"),
		"y":       vega.SF(vega.YScaleName, "sample"),
		"fill":    b.colorChannel(),
		"size":    vega.V(style.size),
		"opacity": vega.V(style.opacity),
	}
	b.addTooltip(enter)

	frag := &Fragment{
		Data: []vega.Data{{Name: qqSource, Values: rows}},
		Scales: []vega.Scale{
			{
				Name:   vega.XScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.RefDomain(qqSource, "theoretical"),
				Range:  "width",
				Nice:   true,
			},
			{
				Name:   vega.YScaleName,
				Type:   vega.ScaleLinear,
				Domain: vega.RefDomain(qqSource, "sample"),
				Range:  "height",
				Nice:   true,
			},
		},
		Axes: b.axes(),
		Marks: []vega.Mark{{
			Type:   vega.MarkSymbol,
			From:   &vega.From{Data: qqSource},
			Encode: &vega.Encode{Enter: enter},
		}},
	}
	if b.grouped() {
		frag.Scales = append(frag.Scales, b.colorScale())
	}
	return frag
}

// buildSummary builds the summary layer: per-group center lines with CI
// bands when x is numeric, or CI rules with center points over categories.
func buildSummary(b *buildCtx) *Fragment {
	groups, warns := stats.NormalizeRegression(b.ctx.Stats[stats.KindSummary])
	b.warn(warns)
	if len(groups) == 0 {
		return nil
	}

	cats := b.categories()
	rows := make([]Row, 0)
	hasCI := false
	for _, g := range groups {
		for i := range g.X {
			row := Row{
				"y":     g.Y[i],
				"group": g.Group,
				"color": b.groupLabel(g.Group),
			}
			if b.numericX {
				row["x"] = g.X[i]
			} else {
				// Categorical summaries index positions 1..n.
				row["x"] = categoryLabel(cats, int(g.X[i]))
			}
			if g.HasCI {
				row["ci_lower"] = g.CILower[i]
				row["ci_upper"] = g.CIUpper[i]
				hasCI = true
			}
			rows = append(rows, row)
		}
	}

	frag := &Fragment{
		Data:   []vega.Data{{Name: summarySource, Values: rows}},
		Scales: b.tableScales(),
		Axes:   b.axes(),
	}

	if hasCI {
		frag.Marks = append(frag.Marks, vega.Mark{
			Type: vega.MarkRule,
			From: &vega.From{Data: summarySource},
			Encode: &vega.Encode{Enter: vega.Set{
				"x":           b.summaryX(),
				"y":           vega.SF(vega.YScaleName, "ci_lower"),
				"y2":          vega.SF(vega.YScaleName, "ci_upper"),
				"stroke":      b.colorChannel(),
				"strokeWidth": vega.V(1.5),
			}},
		})
	}

	pointEnter := vega.Set{
		"x":    b.summaryX(),
		"y":    vega.SF(vega.YScaleName, "y"),
		"fill": b.colorChannel(),
		"size": vega.V(50.0),
	}
	b.addTooltip(pointEnter)
	frag.Marks = append(frag.Marks, vega.Mark{
		Type:   vega.MarkSymbol,
		From:   &vega.From{Data: summarySource},
		Encode: &vega.Encode{Enter: pointEnter},
	})
	return frag
}

// summaryX centers summary marks in categorical bands.
func (b *buildCtx) summaryX() vega.Channel {
	if b.numericX {
		return vega.SF(vega.XScaleName, "x")
	}
	return vega.Channel{{Scale: vega.XScaleName, Field: "x", Band: 0.5}}
}
