package stats

import (
	"fmt"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// HistogramGroup is the canonical form of one binning result: bin edges,
// centers, and counts as row-independent 1-D sequences.
type HistogramGroup struct {
	Group   int
	Edges   []float64
	Centers []float64
	Counts  []float64
}

// NormalizeHistogram converts raw histogram records into canonical groups.
// Counts and centers are flattened to 1-D regardless of how upstream nested
// them; centers are derived from edges when absent. Records without edges
// or counts are skipped.
func NormalizeHistogram(records []Record) ([]HistogramGroup, []Warning) {
	var groups []HistogramGroup
	var warnings []Warning

	for i, rec := range records {
		group := i + 1
		edges, ok := rec.floats("edges")
		if !ok {
			warnings = append(warnings, skipped(group, "edges"))
			continue
		}
		counts, ok := rec.floats("counts")
		if !ok {
			warnings = append(warnings, skipped(group, "counts"))
			continue
		}
		if len(edges) != len(counts)+1 {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("%d edges do not bound %d counts, group skipped", len(edges), len(counts)),
			})
			continue
		}

		centers, ok := rec.floats("centers")
		if !ok || len(centers) != len(counts) {
			centers = make([]float64, len(counts))
			for j := range counts {
				centers[j] = (edges[j] + edges[j+1]) / 2
			}
		}
		groups = append(groups, HistogramGroup{
			Group:   group,
			Edges:   edges,
			Centers: centers,
			Counts:  counts,
		})
	}
	return groups, warnings
}

// Bin2DGrid is the canonical form of a 2-D binning result.
type Bin2DGrid struct {
	XEdges []float64
	YEdges []float64
	Counts [][]float64 // Counts[i][j] is the cell bounded by x edges i,i+1 and y edges j,j+1
}

// NormalizeBin2D converts a raw 2-D binning record into a canonical grid.
// Only the first valid record is used: 2-D binning has no per-group form.
func NormalizeBin2D(records []Record) (Bin2DGrid, []Warning, bool) {
	var warnings []Warning
	for i, rec := range records {
		group := i + 1
		xe, ok := rec.floats("x_edges")
		if !ok {
			warnings = append(warnings, skipped(group, "x_edges"))
			continue
		}
		ye, ok := rec.floats("y_edges")
		if !ok {
			warnings = append(warnings, skipped(group, "y_edges"))
			continue
		}
		counts, ok := rec.matrix("counts")
		if !ok {
			warnings = append(warnings, skipped(group, "counts"))
			continue
		}
		if len(counts) != len(xe)-1 {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("count grid has %d rows for %d x edges, record skipped", len(counts), len(xe)),
			})
			continue
		}
		return Bin2DGrid{XEdges: xe, YEdges: ye, Counts: counts}, warnings, true
	}
	return Bin2DGrid{}, warnings, false
}
