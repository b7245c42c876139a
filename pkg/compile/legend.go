package compile

import (
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// selectedSource is the stateful data source backing the interactive
// multi-select protocol.
const selectedSource = "selected"

// selTest is the selection predicate evaluated per mark datum: full
// intensity when nothing is selected or the datum's color is in the set.
func selTest(field string) string {
	return "!length(data('" + selectedSource + "')) || indata('" + selectedSource + "', 'value', datum." + field + ")"
}

// legendClickEvents is the event stream shared by the shift and clicked
// signals.
const legendClickEvents = "@legendSymbol:click, @legendLabel:click"

// ComposeLegend decides whether a legend is required and appends either the
// static or the interactive variant. A legend is emitted iff a categorical
// color scale exists in the merged spec AND the table actually contains
// more than one distinct color value — a scale without visible variety gets
// no legend.
//
// The input spec is not mutated; a new spec value is returned.
func ComposeLegend(spec *vega.Spec, table vega.Data, interactive bool) *vega.Spec {
	if !hasCategoricalColorScale(spec) || DistinctColorCount(table) < 2 {
		return spec
	}

	out := *spec
	if !interactive {
		out.Legends = append([]vega.Legend{}, vega.Legend{
			Fill:   vega.ColorScaleName,
			Orient: "right",
		})
		return &out
	}

	out.Legends = append([]vega.Legend{}, interactiveLegend())
	out.Signals = append(append([]vega.Signal{}, out.Signals...), selectionSignals()...)
	out.Data = append(append([]vega.Data{}, out.Data...), selectionStore())
	out.Marks = rewriteMarks(out.Marks)
	return &out
}

func hasCategoricalColorScale(spec *vega.Spec) bool {
	for _, sc := range spec.Scales {
		if sc.Name == vega.ColorScaleName && sc.Type == vega.ScaleOrdinal {
			return true
		}
	}
	return false
}

// =============================================================================
// Interactive Variant
// =============================================================================

// selectionSignals wires the three reactive inputs of the protocol:
// clear fires on background click, shift tracks the shift-key state during
// a legend click, and clicked captures the legend value just clicked.
func selectionSignals() []vega.Signal {
	return []vega.Signal{
		{
			Name:  "clear",
			Value: true,
			On: []vega.SignalEvent{
				{Events: "mouseup[!event.item]", Update: "true", Force: true},
			},
		},
		{
			Name:  "shift",
			Value: false,
			On: []vega.SignalEvent{
				{Events: legendClickEvents, Update: "event.shiftKey", Force: true},
			},
		},
		{
			Name: "clicked",
			On: []vega.SignalEvent{
				{Events: legendClickEvents, Update: "{value: datum.value}", Force: true},
			},
		},
	}
}

// selectionStore is the derived selected set with its ordered trigger
// rules: clearing removes all; a non-shift click replaces the set with the
// clicked value; a shift click toggles membership. An empty set means
// no-selection, the initial state.
func selectionStore() vega.Data {
	return vega.Data{
		Name:   selectedSource,
		Values: []Row{},
		On: []vega.Trigger{
			{Trigger: "clear", Remove: true},
			{Trigger: "!shift", Remove: true},
			{Trigger: "!shift && clicked", Insert: "clicked"},
			{Trigger: "shift && clicked", Toggle: "clicked"},
		},
	}
}

// interactiveLegend names its symbol and label marks so the signal event
// streams can capture clicks on them, and dims de-selected entries.
func interactiveLegend() vega.Legend {
	opacity := vega.Channel{
		{Test: "!length(data('" + selectedSource + "')) || indata('" + selectedSource + "', 'value', datum.value)", Value: 1.0},
		{Value: 0.25},
	}
	return vega.Legend{
		Fill:   vega.ColorScaleName,
		Orient: "right",
		Encode: &vega.LegendEncode{
			Symbols: &vega.LegendBlock{
				Name:        "legendSymbol",
				Interactive: true,
				Update:      vega.Set{"opacity": opacity, "size": vega.V(64.0)},
			},
			Labels: &vega.LegendBlock{
				Name:        "legendLabel",
				Interactive: true,
				Update:      vega.Set{"opacity": opacity},
			},
		},
	}
}

// =============================================================================
// Mark Rewrite
// =============================================================================

// rewriteMarks returns a copy of marks where every mark whose fill or
// stroke is driven by the color scale gains conditional dimming: full
// intensity when the selection is empty or contains the mark's datum color,
// reduced intensity with a neutral-gray fill otherwise. The rewrite recurses
// into nested group marks so faceted layers participate in the protocol.
func rewriteMarks(marks []vega.Mark) []vega.Mark {
	out := make([]vega.Mark, len(marks))
	for i, m := range marks {
		out[i] = rewriteMark(m)
	}
	return out
}

func rewriteMark(m vega.Mark) vega.Mark {
	if m.Encode != nil {
		for _, paint := range []string{"fill", "stroke"} {
			field, ok := colorBoundField(m.Encode.Enter, paint)
			if !ok {
				continue
			}
			enter := cloneSet(m.Encode.Enter)
			delete(enter, paint)
			update := cloneSet(m.Encode.Update)
			update[paint] = vega.Channel{
				{Test: selTest(field), Scale: vega.ColorScaleName, Field: field},
				{Value: DimColor},
			}
			update["opacity"] = vega.Channel{
				{Test: selTest(field), Value: 1.0},
				{Value: 0.15},
			}
			delete(enter, "opacity")
			m.Encode = &vega.Encode{Enter: enter, Update: update, Hover: m.Encode.Hover}
		}
	}
	if len(m.Marks) > 0 {
		m.Marks = rewriteMarks(m.Marks)
	}
	return m
}

// colorBoundField reports the data field a paint channel binds through the
// color scale, if it does.
func colorBoundField(set vega.Set, paint string) (string, bool) {
	ch, ok := set[paint]
	if !ok || len(ch) != 1 || ch[0].Scale != vega.ColorScaleName {
		return "", false
	}
	field, ok := ch[0].Field.(string)
	return field, ok && field != ""
}

// cloneSet shallow-copies an encode set so rewrites never mutate the
// original fragments.
func cloneSet(set vega.Set) vega.Set {
	out := make(vega.Set, len(set)+2)
	for k, v := range set {
		out[k] = v
	}
	return out
}
