package compile

import (
	"strings"
	"testing"

	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

func coloredTable() vega.Data {
	return vega.Data{Name: vega.TableName, Values: []Row{
		{"x": 1.0, "y": 2.0, "color": "a"},
		{"x": 2.0, "y": 3.0, "color": "b"},
	}}
}

func colorScaleFixture() vega.Scale {
	return vega.Scale{
		Name:   vega.ColorScaleName,
		Type:   vega.ScaleOrdinal,
		Domain: vega.RefDomain(vega.TableName, "color"),
		Range:  Palette,
	}
}

func legendSpec(table vega.Data) *vega.Spec {
	return &vega.Spec{
		Schema: vega.Schema,
		Data:   []vega.Data{table},
		Scales: []vega.Scale{colorScaleFixture()},
		Marks: []vega.Mark{{
			Type: vega.MarkSymbol,
			From: &vega.From{Data: vega.TableName},
			Encode: &vega.Encode{Enter: vega.Set{
				"x":       vega.SF(vega.XScaleName, "x"),
				"fill":    vega.SF(vega.ColorScaleName, "color"),
				"opacity": vega.V(0.9),
			}},
		}},
	}
}

func TestComposeLegendGating(t *testing.T) {
	t.Run("no color scale", func(t *testing.T) {
		spec := &vega.Spec{Data: []vega.Data{coloredTable()}}
		out := ComposeLegend(spec, coloredTable(), false)
		if len(out.Legends) != 0 {
			t.Errorf("legend emitted without a color scale")
		}
	})

	t.Run("continuous color scale", func(t *testing.T) {
		spec := &vega.Spec{Scales: []vega.Scale{{
			Name:   vega.ColorScaleName,
			Type:   vega.ScaleLinear,
			Domain: vega.LiteralDomain(0.0, 10.0),
		}}}
		out := ComposeLegend(spec, coloredTable(), false)
		if len(out.Legends) != 0 {
			t.Errorf("legend emitted for a non-ordinal color scale")
		}
	})

	t.Run("single distinct color", func(t *testing.T) {
		uniform := vega.Data{Name: vega.TableName, Values: []Row{
			{"color": "a"}, {"color": "a"},
		}}
		out := ComposeLegend(legendSpec(uniform), uniform, false)
		if len(out.Legends) != 0 {
			t.Errorf("legend emitted for a single-color table")
		}
	})
}

func TestComposeLegendStatic(t *testing.T) {
	out := ComposeLegend(legendSpec(coloredTable()), coloredTable(), false)

	if len(out.Legends) != 1 {
		t.Fatalf("got %d legends, want 1", len(out.Legends))
	}
	lg := out.Legends[0]
	if lg.Fill != vega.ColorScaleName || lg.Orient != "right" {
		t.Errorf("legend = %+v", lg)
	}
	if lg.Encode != nil {
		t.Errorf("static legend carries interactive encode blocks")
	}
	if len(out.Signals) != 0 {
		t.Errorf("static legend added %d signals", len(out.Signals))
	}
}

func TestComposeLegendInteractive(t *testing.T) {
	out := ComposeLegend(legendSpec(coloredTable()), coloredTable(), true)

	if len(out.Legends) != 1 {
		t.Fatalf("got %d legends, want 1", len(out.Legends))
	}
	lg := out.Legends[0]
	if lg.Encode == nil || lg.Encode.Symbols == nil || lg.Encode.Labels == nil {
		t.Fatalf("interactive legend missing encode blocks: %+v", lg)
	}
	if lg.Encode.Symbols.Name != "legendSymbol" || !lg.Encode.Symbols.Interactive {
		t.Errorf("symbols block = %+v", lg.Encode.Symbols)
	}
	if lg.Encode.Labels.Name != "legendLabel" || !lg.Encode.Labels.Interactive {
		t.Errorf("labels block = %+v", lg.Encode.Labels)
	}

	names := make(map[string]bool)
	for _, sig := range out.Signals {
		names[sig.Name] = true
	}
	for _, want := range []string{"clear", "shift", "clicked"} {
		if !names[want] {
			t.Errorf("missing signal %q", want)
		}
	}

	var store *vega.Data
	for i := range out.Data {
		if out.Data[i].Name == selectedSource {
			store = &out.Data[i]
		}
	}
	if store == nil {
		t.Fatalf("selected store missing from data sources")
	}
	if len(store.On) != 4 {
		t.Fatalf("selected store has %d triggers, want 4", len(store.On))
	}
	if store.On[0].Trigger != "clear" || store.On[0].Remove != true {
		t.Errorf("first trigger = %+v, want clear/remove-all", store.On[0])
	}
	if store.On[3].Trigger != "shift && clicked" || store.On[3].Toggle != "clicked" {
		t.Errorf("last trigger = %+v, want shift toggle", store.On[3])
	}
}

func TestComposeLegendRewritesColorBoundMarks(t *testing.T) {
	out := ComposeLegend(legendSpec(coloredTable()), coloredTable(), true)

	mark := out.Marks[0]
	if _, ok := mark.Encode.Enter["fill"]; ok {
		t.Errorf("fill remains in the enter set after rewrite")
	}
	if _, ok := mark.Encode.Enter["opacity"]; ok {
		t.Errorf("static opacity remains in the enter set after rewrite")
	}

	fill := mark.Encode.Update["fill"]
	if len(fill) != 2 {
		t.Fatalf("update fill has %d entries, want conditional pair", len(fill))
	}
	if fill[0].Scale != vega.ColorScaleName || fill[0].Field != "color" {
		t.Errorf("selected branch = %+v", fill[0])
	}
	if !strings.Contains(fill[0].Test, selectedSource) {
		t.Errorf("selection test %q does not reference the store", fill[0].Test)
	}
	if fill[1].Value != DimColor {
		t.Errorf("de-selected fill = %v, want %q", fill[1].Value, DimColor)
	}

	opacity := mark.Encode.Update["opacity"]
	if len(opacity) != 2 || opacity[0].Value != 1.0 || opacity[1].Value != 0.15 {
		t.Errorf("update opacity = %+v", opacity)
	}
}

func TestComposeLegendRecursesIntoGroupMarks(t *testing.T) {
	spec := legendSpec(coloredTable())
	inner := spec.Marks[0]
	inner.From = &vega.From{Data: "series"}
	spec.Marks = []vega.Mark{{
		Type: vega.MarkGroup,
		From: &vega.From{Facet: &vega.Facet{
			Name:    "series",
			Data:    vega.TableName,
			GroupBy: "color",
		}},
		Marks: []vega.Mark{inner},
	}}

	out := ComposeLegend(spec, coloredTable(), true)
	got := out.Marks[0].Marks[0]
	if _, ok := got.Encode.Enter["fill"]; ok {
		t.Errorf("nested mark fill not rewritten")
	}
	if len(got.Encode.Update["fill"]) != 2 {
		t.Errorf("nested mark missing conditional fill: %+v", got.Encode.Update)
	}
}

func TestComposeLegendDoesNotMutateInput(t *testing.T) {
	spec := legendSpec(coloredTable())
	ComposeLegend(spec, coloredTable(), true)

	if len(spec.Legends) != 0 || len(spec.Signals) != 0 {
		t.Errorf("input spec mutated: %d legends, %d signals", len(spec.Legends), len(spec.Signals))
	}
	if _, ok := spec.Marks[0].Encode.Enter["fill"]; !ok {
		t.Errorf("input mark encode mutated")
	}
}
