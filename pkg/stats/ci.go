package stats

// ciBounds is a classified confidence interval: two column arrays of equal
// length, lower[i] <= upper[i] for all i.
type ciBounds struct {
	lower []float64
	upper []float64
}

// classifyCI detects the orientation of a CI matrix and reshapes it to
// column arrays. Accepted layouts:
//
//   - 2×N: row 0 = lower, row 1 = upper
//   - N×2: each row = [lower, upper]
//   - flat even-length 2N: first half lower, second half upper
//
// The ambiguous 2×2 case reads as 2×N. Any other shape is unclassifiable
// and returns false: the caller degrades to a CI-less group.
func classifyCI(m [][]float64) (ciBounds, bool) {
	switch {
	case len(m) == 0:
		return ciBounds{}, false
	case len(m) == 2:
		if len(m[0]) != len(m[1]) {
			return ciBounds{}, false
		}
		return ciBounds{lower: m[0], upper: m[1]}, true
	case len(m) == 1:
		flat := m[0]
		if len(flat) == 0 || len(flat)%2 != 0 {
			return ciBounds{}, false
		}
		half := len(flat) / 2
		return ciBounds{lower: flat[:half], upper: flat[half:]}, true
	default:
		for _, row := range m {
			if len(row) != 2 {
				return ciBounds{}, false
			}
		}
		lower := make([]float64, len(m))
		upper := make([]float64, len(m))
		for i, row := range m {
			lower[i], upper[i] = row[0], row[1]
		}
		return ciBounds{lower: lower, upper: upper}, true
	}
}

// sanitize swaps inverted pairs so lower[i] <= upper[i] holds throughout.
// The bound arrays may alias record fields supplied by the caller, so the
// first swap copies both before writing.
func (b ciBounds) sanitize() ciBounds {
	copied := false
	for i := range b.lower {
		if b.lower[i] > b.upper[i] {
			if !copied {
				b.lower = append([]float64(nil), b.lower...)
				b.upper = append([]float64(nil), b.upper...)
				copied = true
			}
			b.lower[i], b.upper[i] = b.upper[i], b.lower[i]
		}
	}
	return b
}

// fitTo resamples the bounds to n points when the source arrays are shorter
// than the regression line, interpolating linearly against the line's
// x-coordinates (extrapolating at the ends).
func (b ciBounds) fitTo(x []float64) ciBounds {
	n := len(x)
	if len(b.lower) == n || len(b.lower) < 2 {
		return b
	}
	return ciBounds{
		lower: resample(b.lower, x),
		upper: resample(b.upper, x),
	}
}

// resample maps src (sampled evenly across the x span) onto the x
// coordinates themselves.
func resample(src []float64, x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	x0, x1 := x[0], x[n-1]
	span := x1 - x0
	m := len(src)
	for i := 0; i < n; i++ {
		// Position of x[i] in source index space.
		var t float64
		if span != 0 {
			t = (x[i] - x0) / span * float64(m-1)
		}
		out[i] = lerpAt(src, t)
	}
	return out
}

// lerpAt linearly interpolates src at fractional index t, extrapolating
// beyond the ends.
func lerpAt(src []float64, t float64) float64 {
	m := len(src)
	switch {
	case t <= 0:
		return src[0] + t*(src[1]-src[0])
	case t >= float64(m-1):
		return src[m-1] + (t-float64(m-1))*(src[m-1]-src[m-2])
	}
	i := int(t)
	frac := t - float64(i)
	return src[i] + frac*(src[i+1]-src[i])
}
