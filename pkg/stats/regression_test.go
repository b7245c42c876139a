package stats

import (
	"math"
	"testing"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func matrix(rows ...[]float64) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		out[i] = vals
	}
	return out
}

func TestNormalizeRegressionExplicitBounds(t *testing.T) {
	groups, warnings := NormalizeRegression([]Record{
		{
			"x":        []float64{1, 2, 3},
			"y":        []float64{2, 4, 6},
			"ci_lower": []float64{1.5, 3.5, 5.5},
			"ci_upper": []float64{2.5, 4.5, 6.5},
		},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	g := groups[0]
	if g.Group != 1 {
		t.Errorf("group id = %d, want 1", g.Group)
	}
	if !g.HasCI {
		t.Fatal("expected CI")
	}
	if !floatsEqual(g.CILower, []float64{1.5, 3.5, 5.5}) || !floatsEqual(g.CIUpper, []float64{2.5, 4.5, 6.5}) {
		t.Errorf("bounds = %v / %v", g.CILower, g.CIUpper)
	}
}

func TestNormalizeRegressionCIOrientations(t *testing.T) {
	x := []float64{1, 2, 3}
	tests := []struct {
		name      string
		ci        any
		wantLower []float64
		wantUpper []float64
	}{
		{
			name:      "two rows read as lower and upper",
			ci:        matrix([]float64{1, 2, 3}, []float64{4, 5, 6}),
			wantLower: []float64{1, 2, 3},
			wantUpper: []float64{4, 5, 6},
		},
		{
			name:      "rows of two read as pairs",
			ci:        matrix([]float64{1, 4}, []float64{2, 5}, []float64{3, 6}),
			wantLower: []float64{1, 2, 3},
			wantUpper: []float64{4, 5, 6},
		},
		{
			name:      "flat even sequence splits in half",
			ci:        []any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0},
			wantLower: []float64{1, 2, 3},
			wantUpper: []float64{4, 5, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, warnings := NormalizeRegression([]Record{
				{"x": x, "y": []float64{1, 2, 3}, "ci": tt.ci},
			})
			if len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			g := groups[0]
			if !g.HasCI {
				t.Fatal("expected CI")
			}
			if !floatsEqual(g.CILower, tt.wantLower) || !floatsEqual(g.CIUpper, tt.wantUpper) {
				t.Errorf("bounds = %v / %v, want %v / %v", g.CILower, g.CIUpper, tt.wantLower, tt.wantUpper)
			}
		})
	}
}

func TestNormalizeRegressionAmbiguousSquareReadsAsRows(t *testing.T) {
	// A 2×2 matrix is ambiguous; the row-oriented reading wins.
	groups, _ := NormalizeRegression([]Record{
		{"x": []float64{1, 2}, "y": []float64{1, 2}, "ci": matrix([]float64{1, 2}, []float64{3, 4})},
	})
	g := groups[0]
	if !floatsEqual(g.CILower, []float64{1, 2}) || !floatsEqual(g.CIUpper, []float64{3, 4}) {
		t.Errorf("bounds = %v / %v", g.CILower, g.CIUpper)
	}
}

func TestNormalizeRegressionSwapsInvertedPairs(t *testing.T) {
	groups, _ := NormalizeRegression([]Record{
		{
			"x":        []float64{1, 2, 3},
			"y":        []float64{1, 2, 3},
			"ci_lower": []float64{5, 1, 6},
			"ci_upper": []float64{2, 4, 3},
		},
	})
	g := groups[0]
	for i := range g.CILower {
		if g.CILower[i] > g.CIUpper[i] {
			t.Errorf("pair %d still inverted: %v > %v", i, g.CILower[i], g.CIUpper[i])
		}
	}
	if !floatsEqual(g.CILower, []float64{2, 1, 3}) {
		t.Errorf("lower = %v", g.CILower)
	}
}

func TestNormalizeRegressionLeavesRecordIntact(t *testing.T) {
	lower := []float64{5, 1, 6}
	upper := []float64{2, 4, 3}
	groups, _ := NormalizeRegression([]Record{
		{
			"x":        []float64{1, 2, 3},
			"y":        []float64{1, 2, 3},
			"ci_lower": lower,
			"ci_upper": upper,
		},
	})
	if !floatsEqual(groups[0].CILower, []float64{2, 1, 3}) {
		t.Fatalf("normalized lower = %v", groups[0].CILower)
	}
	// Normalization reads the record; the caller's arrays stay untouched.
	if !floatsEqual(lower, []float64{5, 1, 6}) {
		t.Errorf("input ci_lower mutated: %v", lower)
	}
	if !floatsEqual(upper, []float64{2, 4, 3}) {
		t.Errorf("input ci_upper mutated: %v", upper)
	}
}

func TestNormalizeRegressionInterpolatesShortCI(t *testing.T) {
	// Two CI samples over a five-point line: linear interpolation across
	// the x span.
	groups, warnings := NormalizeRegression([]Record{
		{
			"x":        []float64{0, 1, 2, 3, 4},
			"y":        []float64{0, 1, 2, 3, 4},
			"ci_lower": []float64{0, 4},
			"ci_upper": []float64{10, 14},
		},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	g := groups[0]
	if !g.HasCI {
		t.Fatal("expected CI after resampling")
	}
	if !floatsEqual(g.CILower, []float64{0, 1, 2, 3, 4}) {
		t.Errorf("lower = %v", g.CILower)
	}
	if !floatsEqual(g.CIUpper, []float64{10, 11, 12, 13, 14}) {
		t.Errorf("upper = %v", g.CIUpper)
	}
}

func TestNormalizeRegressionDegradations(t *testing.T) {
	tests := []struct {
		name       string
		rec        Record
		wantGroups int
		wantCode   errors.Code
	}{
		{
			name:       "missing x skips group",
			rec:        Record{"y": []float64{1, 2}},
			wantGroups: 0,
			wantCode:   errors.ErrCodeMalformedStat,
		},
		{
			name:       "length mismatch skips group",
			rec:        Record{"x": []float64{1, 2, 3}, "y": []float64{1}},
			wantGroups: 0,
			wantCode:   errors.ErrCodeMalformedStat,
		},
		{
			name: "ragged ci drops band only",
			rec: Record{
				"x": []float64{1, 2, 3}, "y": []float64{1, 2, 3},
				"ci": matrix([]float64{1, 2, 3}, []float64{1, 2}),
			},
			wantGroups: 1,
			wantCode:   errors.ErrCodeUnresolvedCI,
		},
		{
			name: "mismatched explicit bounds drop band only",
			rec: Record{
				"x": []float64{1, 2, 3}, "y": []float64{1, 2, 3},
				"ci_lower": []float64{1, 2}, "ci_upper": []float64{1},
			},
			wantGroups: 1,
			wantCode:   errors.ErrCodeUnresolvedCI,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, warnings := NormalizeRegression([]Record{tt.rec})
			if len(groups) != tt.wantGroups {
				t.Fatalf("groups = %d, want %d", len(groups), tt.wantGroups)
			}
			if len(warnings) != 1 {
				t.Fatalf("warnings = %v, want one", warnings)
			}
			if warnings[0].Code != tt.wantCode {
				t.Errorf("warning code = %v, want %v", warnings[0].Code, tt.wantCode)
			}
			if tt.wantGroups == 1 && groups[0].HasCI {
				t.Error("degraded group should have no CI")
			}
		})
	}
}

func TestNormalizeRegressionWithoutCI(t *testing.T) {
	groups, warnings := NormalizeRegression([]Record{
		{"x": []float64{1, 2}, "y": []float64{3, 4}},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if groups[0].HasCI {
		t.Error("no CI fields should produce no CI, and no warning")
	}
}

func TestNormalizeRegressionAssignsSequentialGroups(t *testing.T) {
	groups, _ := NormalizeRegression([]Record{
		{"x": []float64{1}, "y": []float64{1}},
		{"y": []float64{1}}, // skipped
		{"x": []float64{2}, "y": []float64{2}},
	})
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Group != 1 || groups[1].Group != 3 {
		t.Errorf("group ids = %d, %d; skipped records keep their position", groups[0].Group, groups[1].Group)
	}
}
