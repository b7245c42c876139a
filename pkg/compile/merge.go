package compile

import (
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Merge combines the ordered fragment list into a single spec.
//
// The primary table source is emitted first and exactly once. For each
// fragment, in layer order: marks are appended (painter's algorithm, later
// layers occlude earlier ones); a named scale is added only if no scale of
// that name exists yet (the first layer's definition wins, so later layers
// cannot silently redefine an in-use axis); a named data source is added
// only if unseen, with the table name always excluded from re-addition.
// Axes deduplicate by orient+scale the same way.
//
// Inputs are never mutated; the merge builds a fresh spec.
func Merge(table vega.Data, fragments []*Fragment, opts plot.Options) *vega.Spec {
	spec := &vega.Spec{
		Schema: vega.Schema,
		Width:  opts.WidthPx,
		Height: opts.HeightPx,
		Padding: &vega.Padding{
			Left:   plot.DefaultPadding[0],
			Right:  plot.DefaultPadding[1],
			Top:    plot.DefaultPadding[2],
			Bottom: plot.DefaultPadding[3],
		},
		Autosize: "none",
		Data:     []vega.Data{table},
	}
	if opts.Title != "" {
		spec.Title = &vega.Title{Text: opts.Title, Anchor: "middle"}
	}

	dataSeen := map[string]bool{vega.TableName: true}
	scaleSeen := map[string]bool{}
	axisSeen := map[string]bool{}

	for _, frag := range fragments {
		if frag == nil {
			continue
		}
		for _, d := range frag.Data {
			if dataSeen[d.Name] {
				continue
			}
			dataSeen[d.Name] = true
			spec.Data = append(spec.Data, d)
		}
		for _, sc := range frag.Scales {
			if scaleSeen[sc.Name] {
				continue
			}
			scaleSeen[sc.Name] = true
			spec.Scales = append(spec.Scales, sc)
		}
		for _, ax := range frag.Axes {
			key := ax.Orient + "/" + ax.Scale
			if axisSeen[key] {
				continue
			}
			axisSeen[key] = true
			spec.Axes = append(spec.Axes, ax)
		}
		spec.Marks = append(spec.Marks, frag.Marks...)
	}
	return spec
}
