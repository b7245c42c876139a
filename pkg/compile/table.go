package compile

import (
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Row is one per-observation record of the primary table.
type Row = map[string]any

// BuildTable produces the primary "table" data source from the aesthetic
// sequences. Observations with NaN or infinite x/y are filtered out; the
// removed count is returned so the caller can report it.
//
// Categorical values land in the rows as their normalized labels so facet
// group-by keys and scale domains agree across layers.
func BuildTable(ctx *plot.Context) (vega.Data, int) {
	aes := ctx.Aes
	rows := make([]Row, 0, len(aes.X))
	removed := 0

	for i := range aes.X {
		if !aes.X[i].Valid() || !aes.Y[i].Valid() {
			removed++
			continue
		}
		row := Row{
			"x": tableValue(aes.X[i]),
			"y": tableValue(aes.Y[i]),
		}
		if len(aes.Color) == len(aes.X) {
			row["color"] = aes.Color[i].Label()
		}
		if len(aes.Size) == len(aes.X) && aes.Size[i].Valid() {
			row["size"] = tableValue(aes.Size[i])
		}
		if len(aes.Shape) == len(aes.X) {
			row["shape"] = aes.Shape[i].Label()
		}
		rows = append(rows, row)
	}

	return vega.Data{Name: vega.TableName, Values: rows}, removed
}

// tableValue keeps numeric observations numeric and normalizes categorical
// ones to labels.
func tableValue(v plot.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return v.Label()
}
