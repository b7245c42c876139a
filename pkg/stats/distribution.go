package stats

import (
	"fmt"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// BoxGroup is the canonical five-number summary for one group.
type BoxGroup struct {
	Group        int
	LowerWhisker float64
	Q1           float64
	Median       float64
	Q3           float64
	UpperWhisker float64
}

// NormalizeBoxplot converts raw boxplot records into canonical five-number
// summaries. A record carries either a "five" array of five ascending
// values or the explicit fields lower/q1/median/q3/upper.
func NormalizeBoxplot(records []Record) ([]BoxGroup, []Warning) {
	var groups []BoxGroup
	var warnings []Warning

	for i, rec := range records {
		group := i + 1
		five, ok := rec.floats("five")
		if !ok {
			five = make([]float64, 0, 5)
			complete := true
			for _, field := range []string{"lower", "q1", "median", "q3", "upper"} {
				vals, ok := rec.floats(field)
				if !ok || len(vals) != 1 {
					warnings = append(warnings, skipped(group, field))
					complete = false
					break
				}
				five = append(five, vals[0])
			}
			if !complete {
				continue
			}
		}
		if len(five) != 5 {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("five-number summary has %d values, group skipped", len(five)),
			})
			continue
		}
		groups = append(groups, BoxGroup{
			Group:        group,
			LowerWhisker: five[0],
			Q1:           five[1],
			Median:       five[2],
			Q3:           five[3],
			UpperWhisker: five[4],
		})
	}
	return groups, warnings
}

// ViolinPoint is one flattened density sample: a y position and its density,
// tagged with the originating 1-based group index. The builder mirrors the
// density into a symmetric pair about the category center.
type ViolinPoint struct {
	Group   int
	Y       float64
	Density float64
}

// NormalizeViolin flattens per-group density curves into a single point
// list, pairing each sample with its group index.
func NormalizeViolin(records []Record) ([]ViolinPoint, []Warning) {
	var points []ViolinPoint
	var warnings []Warning

	for i, rec := range records {
		group := i + 1
		y, ok := rec.floats("y")
		if !ok {
			warnings = append(warnings, skipped(group, "y"))
			continue
		}
		density, ok := rec.floats("density")
		if !ok {
			warnings = append(warnings, skipped(group, "density"))
			continue
		}
		if len(y) != len(density) {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("y/density length mismatch (%d vs %d), group skipped", len(y), len(density)),
			})
			continue
		}
		for j := range y {
			points = append(points, ViolinPoint{Group: group, Y: y[j], Density: density[j]})
		}
	}
	return points, warnings
}

// DensityGroup is one canonical density curve.
type DensityGroup struct {
	Group int
	X     []float64
	Y     []float64
}

// NormalizeDensity converts raw density records into canonical (x, y) curve
// groups.
func NormalizeDensity(records []Record) ([]DensityGroup, []Warning) {
	var groups []DensityGroup
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
		groups = append(groups, DensityGroup{Group: group, X: x, Y: y})
	}
	return groups, warnings
}

// QQGroup is one canonical quantile-quantile point set.
type QQGroup struct {
	Group       int
	Theoretical []float64
	Sample      []float64
}

// NormalizeQQ converts raw QQ records into canonical theoretical/sample
// pairs, flattening any nesting in the per-group arrays.
func NormalizeQQ(records []Record) ([]QQGroup, []Warning) {
	var groups []QQGroup
	var warnings []Warning

	for i, rec := range records {
		group := i + 1
		theo, ok := rec.floats("theoretical")
		if !ok {
			warnings = append(warnings, skipped(group, "theoretical"))
			continue
		}
		sample, ok := rec.floats("sample")
		if !ok {
			warnings = append(warnings, skipped(group, "sample"))
			continue
		}
		if len(theo) != len(sample) || len(theo) == 0 {
			warnings = append(warnings, Warning{
				Code:  errors.ErrCodeMalformedStat,
				Group: group,
				Msg:   fmt.Sprintf("theoretical/sample length mismatch (%d vs %d), group skipped", len(theo), len(sample)),
			})
			continue
		}
		groups = append(groups, QQGroup{Group: group, Theoretical: theo, Sample: sample})
	}
	return groups, warnings
}
