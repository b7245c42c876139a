package stats

import "testing"

func TestNormalizeBoxplotFiveArray(t *testing.T) {
	groups, warnings := NormalizeBoxplot([]Record{
		{"five": []float64{1, 2, 3, 4, 5}},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	g := groups[0]
	if g.LowerWhisker != 1 || g.Q1 != 2 || g.Median != 3 || g.Q3 != 4 || g.UpperWhisker != 5 {
		t.Errorf("summary = %+v", g)
	}
}

func TestNormalizeBoxplotExplicitFields(t *testing.T) {
	groups, warnings := NormalizeBoxplot([]Record{
		{"lower": 1.0, "q1": 2.0, "median": 3.0, "q3": 4.0, "upper": 5.0},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if groups[0].Median != 3 {
		t.Errorf("median = %v", groups[0].Median)
	}
}

func TestNormalizeBoxplotSkipsIncomplete(t *testing.T) {
	groups, warnings := NormalizeBoxplot([]Record{
		{"lower": 1.0, "q1": 2.0}, // missing median onward
		{"five": []float64{1, 2, 3}},
	})
	if len(groups) != 0 {
		t.Errorf("incomplete records produced groups: %+v", groups)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want two", warnings)
	}
}

func TestNormalizeViolinFlattens(t *testing.T) {
	points, warnings := NormalizeViolin([]Record{
		{"y": []float64{1, 2}, "density": []float64{0.5, 1.0}},
		{"y": []float64{3}, "density": []float64{0.2}},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	if points[0].Group != 1 || points[2].Group != 2 {
		t.Errorf("group tags = %d, %d", points[0].Group, points[2].Group)
	}
	if points[1].Y != 2 || points[1].Density != 1.0 {
		t.Errorf("point = %+v", points[1])
	}
}

func TestNormalizeViolinLengthMismatch(t *testing.T) {
	points, warnings := NormalizeViolin([]Record{
		{"y": []float64{1, 2}, "density": []float64{0.5}},
	})
	if len(points) != 0 {
		t.Errorf("mismatched record produced points: %+v", points)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestNormalizeDensity(t *testing.T) {
	groups, warnings := NormalizeDensity([]Record{
		{"x": []float64{0, 1, 2}, "y": []float64{0.1, 0.5, 0.1}},
		{"x": []float64{0}, "y": []float64{1, 2}}, // mismatch, skipped
	})
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
	if groups[0].Group != 1 {
		t.Errorf("group = %d", groups[0].Group)
	}
}

func TestNormalizeQQ(t *testing.T) {
	groups, warnings := NormalizeQQ([]Record{
		{"theoretical": []float64{-1, 0, 1}, "sample": []float64{-0.9, 0.1, 1.2}},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !floatsEqual(groups[0].Theoretical, []float64{-1, 0, 1}) {
		t.Errorf("theoretical = %v", groups[0].Theoretical)
	}
}

func TestNormalizeQQSkipsMissingFields(t *testing.T) {
	groups, warnings := NormalizeQQ([]Record{
		{"sample": []float64{1}},
		{"theoretical": []float64{1}},
	})
	if len(groups) != 0 {
		t.Errorf("groups = %+v", groups)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v", warnings)
	}
}
