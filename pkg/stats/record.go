package stats

import (
	"fmt"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// Kind names a statistic family. Kinds align with the layer kinds that
// consume them.
type Kind string

// Recognized statistic kinds.
const (
	KindSmooth    Kind = "smooth"
	KindGLM       Kind = "glm"
	KindHistogram Kind = "histogram"
	KindBin2D     Kind = "bin2d"
	KindBoxplot   Kind = "boxplot"
	KindViolin    Kind = "violin"
	KindDensity   Kind = "density"
	KindQQ        Kind = "qq"
	KindSummary   Kind = "summary"
)

// Record is one raw per-group statistic result as decoded from JSON.
// Field layouts vary by kind; accessors below do the loose-shape reading.
type Record map[string]any

// Warning reports a recovered per-group degradation (skipped record or
// CI-less fallback). Warnings are surfaced to the caller and logged, never
// fatal.
type Warning struct {
	Code  errors.Code
	Group int
	Msg   string
}

// String formats the warning for logging.
func (w Warning) String() string {
	return fmt.Sprintf("%s (group %d): %s", w.Code, w.Group, w.Msg)
}

// skipped builds the standard malformed-record warning.
func skipped(group int, field string) Warning {
	return Warning{
		Code:  errors.ErrCodeMalformedStat,
		Group: group,
		Msg:   fmt.Sprintf("missing required field %q, group skipped", field),
	}
}

// =============================================================================
// Loose-Shape Accessors
// =============================================================================

// floats reads a field as a flat float sequence. Nested arrays are
// flattened row-independent so N×1, 1×N, and deeper nestings all collapse
// to the same 1-D form.
func (r Record) floats(field string) ([]float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	out := flattenFloats(v)
	if out == nil {
		return nil, false
	}
	return out, true
}

// matrix reads a field as a 2-D float matrix. A flat sequence yields a
// single-row matrix.
func (r Record) matrix(field string) ([][]float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	rows, ok := v.([]any)
	if !ok || len(rows) == 0 {
		return nil, false
	}
	if _, nested := rows[0].([]any); !nested {
		flat := flattenFloats(v)
		if flat == nil {
			return nil, false
		}
		return [][]float64{flat}, true
	}
	out := make([][]float64, 0, len(rows))
	for _, row := range rows {
		vals := flattenFloats(row)
		if vals == nil {
			return nil, false
		}
		out = append(out, vals)
	}
	return out, true
}

// flattenFloats collapses arbitrarily nested JSON arrays of numbers into a
// flat sequence. Returns nil on any non-numeric leaf.
func flattenFloats(v any) []float64 {
	switch t := v.(type) {
	case float64:
		return []float64{t}
	case int:
		return []float64{float64(t)}
	case []float64:
		return t
	case []any:
		out := make([]float64, 0, len(t))
		for _, e := range t {
			leaf := flattenFloats(e)
			if leaf == nil {
				return nil
			}
			out = append(out, leaf...)
		}
		return out
	}
	return nil
}
