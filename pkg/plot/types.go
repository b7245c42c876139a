package plot

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/Delen0828/gramm-export-to-vega/pkg/stats"
)

// =============================================================================
// Value - Scalar Observation
// =============================================================================

// Value is one scalar observation of an aesthetic sequence. Upstream emits
// heterogeneous sequences (numeric or categorical), so a Value holds either
// form and normalizes comparisons to string labels.
type Value struct {
	Num   float64
	Str   string
	IsNum bool
}

// NumValue returns a numeric Value.
func NumValue(f float64) Value { return Value{Num: f, IsNum: true} }

// StrValue returns a categorical Value.
func StrValue(s string) Value { return Value{Str: s} }

// Float returns the numeric form and whether the value is numeric.
func (v Value) Float() (float64, bool) { return v.Num, v.IsNum }

// Label returns the normalized string form used for distinctness comparison
// and categorical domains.
func (v Value) Label() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return v.Str
}

// Any returns the value in its natural JSON form.
func (v Value) Any() any {
	if v.IsNum {
		return v.Num
	}
	return v.Str
}

// Valid reports whether a numeric value is finite. Categorical values are
// always valid.
func (v Value) Valid() bool {
	if !v.IsNum {
		return true
	}
	return !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0)
}

// UnmarshalJSON accepts numbers, strings, and null (null becomes NaN so the
// primary-table filter removes the observation).
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{Num: math.NaN(), IsNum: true}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{Str: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value{Num: f, IsNum: true}
	return nil
}

// MarshalJSON emits the natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// =============================================================================
// Aesthetics and Grouping
// =============================================================================

// Aes is the user-declared aesthetic mapping: one ordered value sequence per
// visual role, one entry per observation.
type Aes struct {
	X     []Value `json:"x"`
	Y     []Value `json:"y"`
	Color []Value `json:"color,omitempty"`
	Size  []Value `json:"size,omitempty"`
	Shape []Value `json:"shape,omitempty"`
}

// Grouping is the derived color-grouping state.
type Grouping struct {
	// HasColorGroup is true iff the color aesthetic has at least two
	// distinct values. A constant color aesthetic stays metadata only.
	HasColorGroup bool
	// ColorData is the color sequence (empty when no color aesthetic).
	ColorData []Value
	// Levels holds the distinct color labels in first-seen order.
	Levels []string
}

// ContinuousColor carries the explicit continuous-color options through to
// palette sampling. It is active only when upstream flags it.
type ContinuousColor struct {
	Active   bool        `json:"active"`
	Colormap [][]float64 `json:"colormap,omitempty"`
	Limits   []float64   `json:"limits,omitempty"`
}

// =============================================================================
// Layers
// =============================================================================

// Kind tags a geometry or statistic layer.
type Kind string

// Recognized layer kinds.
const (
	KindPoint     Kind = "point"
	KindJitter    Kind = "jitter"
	KindSwarm     Kind = "swarm"
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindBin2D     Kind = "bin2d"
	KindBoxplot   Kind = "boxplot"
	KindViolin    Kind = "violin"
	KindDensity   Kind = "density"
	KindQQ        Kind = "qq"
	KindSmooth    Kind = "smooth"
	KindGLM       Kind = "glm"
	KindSummary   Kind = "summary"
)

// Layer declares one geometry or statistic layer. Layer order is paint
// order: later layers draw on top.
type Layer struct {
	Kind Kind `json:"kind"`
}

// =============================================================================
// Context - AnalysisContext
// =============================================================================

// Context is the read-only compile input assembled from the upstream
// plotting object.
type Context struct {
	Aes             Aes                          `json:"aes"`
	Grouping        Grouping                     `json:"-"`
	ContinuousColor ContinuousColor              `json:"continuous_color,omitempty"`
	Layers          []Layer                      `json:"layers,omitempty"`
	Stats           map[stats.Kind][]stats.Record `json:"stats,omitempty"`
}

// HasStat reports whether precomputed records exist for the given kind.
func (c *Context) HasStat(k stats.Kind) bool {
	return len(c.Stats[k]) > 0
}

// Observations returns the number of observations in the primary aesthetics.
func (c *Context) Observations() int {
	return len(c.Aes.X)
}
