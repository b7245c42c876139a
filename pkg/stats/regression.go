package stats

import (
	"fmt"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// RegressionGroup is the canonical form of one regression (or summary)
// result: line coordinates plus optional confidence bounds, all column
// arrays of equal length.
type RegressionGroup struct {
	Group   int
	X       []float64
	Y       []float64
	CILower []float64
	CIUpper []float64
	HasCI   bool
}

// NormalizeRegression converts raw smooth/glm/summary records into
// canonical groups. Group identifiers are 1-based and assigned by position.
//
// CI data is read from a "ci" matrix (N×2, 2×N, or flat 2N) or from
// explicit "ci_lower"/"ci_upper" arrays. Inverted pairs are swapped, and a
// CI source shorter than the line is interpolated against the line's
// x-coordinates. Records without x or y are skipped; an unclassifiable CI
// shape degrades the group to a bare line.
func NormalizeRegression(records []Record) ([]RegressionGroup, []Warning) {
	var groups []RegressionGroup
	var warnings []Warning

	for i, rec := range records {
		group := i + 1
		x, ok := rec.floats("x")
		if !ok {
			warnings = append(warnings, skipped(group, "x"))
			continue
		}
		y, ok := rec.floats("y")
		if !ok {
			warnings = append(warnings, skipped(group, "y"))
			continue
		}
		if len(x) != len(y) || len(x) == 0 {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("x/y length mismatch (%d vs %d), group skipped", len(x), len(y)),
			})
			continue
		}

		g := RegressionGroup{Group: group, X: x, Y: y}
		bounds, ok, w := extractCI(rec, x, group)
		if w != nil {
			warnings = append(warnings, *w)
		}
		if ok {
			g.CILower, g.CIUpper = bounds.lower, bounds.upper
			g.HasCI = true
		}
		groups = append(groups, g)
	}
	return groups, warnings
}

// extractCI reads and normalizes confidence bounds from a record. The bool
// reports whether usable bounds exist; the warning (if any) explains a
// degradation.
func extractCI(rec Record, x []float64, group int) (ciBounds, bool, *Warning) {
	var bounds ciBounds

	if lower, ok := rec.floats("ci_lower"); ok {
		upper, ok := rec.floats("ci_upper")
		if !ok || len(lower) != len(upper) {
			return ciBounds{}, false, &Warning{
				Code:  errors.ErrCodeUnresolvedCI,
				Group: group,
				Msg:   "ci_lower/ci_upper mismatch, band dropped",
			}
		}
		bounds = ciBounds{lower: lower, upper: upper}
	} else {
		m, ok := rec.matrix("ci")
		if !ok {
			return ciBounds{}, false, nil // no CI declared at all
		}
		bounds, ok = classifyCI(m)
		if !ok {
			return ciBounds{}, false, &Warning{
				Code:  errors.ErrCodeUnresolvedCI,
				Group: group,
				Msg:   "unresolvable ci shape, band dropped",
			}
		}
	}

	bounds = bounds.sanitize().fitTo(x)
	if len(bounds.lower) != len(x) {
		return ciBounds{}, false, &Warning{
			Code:  errors.ErrCodeUnresolvedCI,
			Group: group,
			Msg:   fmt.Sprintf("ci length %d does not fit line length %d, band dropped", len(bounds.lower), len(x)),
		}
	}
	return bounds, true, nil
}
