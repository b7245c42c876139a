package plot

// Analyze derives the grouping state from the raw aesthetics.
//
// Color grouping is active iff the color aesthetic is present, non-empty,
// and has more than one distinct value. Distinctness compares normalized
// string labels so numeric and categorical groupings behave identically.
// Absent fields default to "not grouped"; there are no error conditions.
func Analyze(aes Aes) Grouping {
	g := Grouping{ColorData: aes.Color}
	if len(aes.Color) == 0 {
		return g
	}
	seen := make(map[string]bool, len(aes.Color))
	for _, v := range aes.Color {
		label := v.Label()
		if !seen[label] {
			seen[label] = true
			g.Levels = append(g.Levels, label)
		}
	}
	g.HasColorGroup = len(g.Levels) > 1
	return g
}

// IsNumeric reports whether a value sequence is numeric. A sequence counts
// as numeric when every valid entry is; an empty sequence is categorical.
func IsNumeric(values []Value) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !v.IsNum {
			return false
		}
	}
	return true
}

// DistinctLabels returns the distinct normalized labels of a value sequence
// in first-seen order. Categorical axes are positioned by these labels, so
// the ordering is part of the output contract.
func DistinctLabels(values []Value) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		label := v.Label()
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}
