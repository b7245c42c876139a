package compile

import (
	"fmt"
	"math"

	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// =============================================================================
// Palette - Explicit Configuration Constant
// =============================================================================

// Palette is the fixed 8-entry categorical color palette injected into every
// categorical color scale. Domains with more than 8 distinct categories are
// not remapped; the dispatcher logs the overflow and leaves the policy to
// the renderer (flagged for product decision, see DESIGN.md).
var Palette = []any{
	"#4c78a8", "#f58518", "#e45756", "#72b7b2",
	"#54a24b", "#eeca3b", "#b279a2", "#ff9da6",
}

// DimColor is the neutral gray substituted for the fill of de-selected marks
// under the interactive legend protocol.
const DimColor = "#cccccc"

// Scale paddings.
const (
	// bandPadding is the inner padding for generic band scales.
	bandPadding = 0.1
	// barPadding is the inner padding for bar and clustered-bar band scales.
	barPadding = 0.2
)

// Vega symbol shapes for the shape aesthetic, in domain order.
var shapeRange = []any{
	"circle", "square", "triangle-up", "cross",
	"diamond", "triangle-down", "triangle-left", "triangle-right",
}

// =============================================================================
// Scale Synthesizer
// =============================================================================

// xScale synthesizes the shared x scale: linear for numeric data, band
// otherwise. Domains are declarative references against the table.
func (b *buildCtx) xScale() vega.Scale {
	return positionScale(vega.XScaleName, "x", "width", b.numericX, bandPadding)
}

// yScale synthesizes the shared y scale.
func (b *buildCtx) yScale() vega.Scale {
	return positionScale(vega.YScaleName, "y", "height", b.numericY, bandPadding)
}

// positionScale builds one positional scale against a table field.
func positionScale(name, field, rng string, numeric bool, padding float64) vega.Scale {
	if numeric {
		return vega.Scale{
			Name:   name,
			Type:   vega.ScaleLinear,
			Domain: vega.RefDomain(vega.TableName, field),
			Range:  rng,
			Nice:   true,
			Round:  true,
		}
	}
	return vega.Scale{
		Name:    name,
		Type:    vega.ScaleBand,
		Domain:  vega.RefDomain(vega.TableName, field),
		Range:   rng,
		Padding: padding,
	}
}

// colorScale synthesizes the categorical color scale over the table's color
// field with the fixed palette.
func (b *buildCtx) colorScale() vega.Scale {
	return vega.Scale{
		Name:   vega.ColorScaleName,
		Type:   vega.ScaleOrdinal,
		Domain: vega.RefDomain(vega.TableName, "color"),
		Range:  Palette,
	}
}

// sizeScale maps a numeric size aesthetic to symbol areas.
func (b *buildCtx) sizeScale() vega.Scale {
	return vega.Scale{
		Name:   "size",
		Type:   vega.ScaleLinear,
		Domain: vega.RefDomain(vega.TableName, "size"),
		Range:  []any{20.0, 400.0},
	}
}

// shapeScale maps a categorical shape aesthetic to symbol shapes.
func (b *buildCtx) shapeScale() vega.Scale {
	return vega.Scale{
		Name:   "shape",
		Type:   vega.ScaleOrdinal,
		Domain: vega.RefDomain(vega.TableName, "shape"),
		Range:  shapeRange,
	}
}

// countColorScale builds the continuous color scale used by 2-D binning:
// linear over counts, never ordinal, so it cannot trigger legend gating.
func (b *buildCtx) countColorScale(maxCount float64) vega.Scale {
	return vega.Scale{
		Name:   vega.ColorScaleName,
		Type:   vega.ScaleLinear,
		Domain: vega.LiteralDomain(0.0, maxCount),
		Range:  b.continuousRange("blues"),
	}
}

// continuousRange samples the upstream colormap into hex stops when
// continuous color mode is active; otherwise it names a built-in scheme.
func (b *buildCtx) continuousRange(fallbackScheme string) any {
	cc := b.ctx.ContinuousColor
	if !cc.Active || len(cc.Colormap) == 0 {
		return map[string]any{"scheme": fallbackScheme}
	}
	stops := make([]any, 0, len(cc.Colormap))
	for _, rgb := range cc.Colormap {
		if len(rgb) < 3 {
			continue
		}
		stops = append(stops, hexColor(rgb[0], rgb[1], rgb[2]))
	}
	if len(stops) < 2 {
		return map[string]any{"scheme": fallbackScheme}
	}
	return stops
}

// hexColor converts unit-interval RGB components to a hex string.
func hexColor(r, g, bl float64) string {
	clamp := func(f float64) int {
		v := int(math.Round(f * 255))
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(bl))
}

// =============================================================================
// Axis Synthesizer
// =============================================================================

// axes builds the standard bottom/left axis pair with configured titles.
func (b *buildCtx) axes() []vega.Axis {
	return []vega.Axis{
		{Orient: "bottom", Scale: vega.XScaleName, Title: b.opts.XTitle},
		{Orient: "left", Scale: vega.YScaleName, Title: b.opts.YTitle, Grid: true},
	}
}

// defaultColor is the mark color when no color grouping is active.
func defaultColor() string {
	return Palette[0].(string)
}

// colorChannel binds a mark's paint channel: through the color scale when
// grouping is active, constant otherwise.
func (b *buildCtx) colorChannel() vega.Channel {
	if b.grouped() {
		return vega.SF(vega.ColorScaleName, "color")
	}
	return vega.V(defaultColor())
}

// DistinctColorCount returns the number of distinct color labels present in
// the given table rows. The legend composer gates on this, not on scale
// existence alone.
func DistinctColorCount(table vega.Data) int {
	rows, ok := table.Values.([]Row)
	if !ok {
		return 0
	}
	seen := make(map[any]bool)
	for _, r := range rows {
		if c, ok := r["color"]; ok {
			seen[c] = true
		}
	}
	return len(seen)
}
