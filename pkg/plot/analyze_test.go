package plot

import (
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		color      []Value
		wantGroup  bool
		wantLevels []string
	}{
		{
			name:      "no color aesthetic",
			color:     nil,
			wantGroup: false,
		},
		{
			name:       "single level is not a grouping",
			color:      []Value{StrValue("a"), StrValue("a")},
			wantGroup:  false,
			wantLevels: []string{"a"},
		},
		{
			name:       "two levels group",
			color:      []Value{StrValue("a"), StrValue("b"), StrValue("a")},
			wantGroup:  true,
			wantLevels: []string{"a", "b"},
		},
		{
			name:       "numeric levels compare by label",
			color:      []Value{NumValue(1), NumValue(2), NumValue(1)},
			wantGroup:  true,
			wantLevels: []string{"1", "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Analyze(Aes{Color: tt.color})
			if g.HasColorGroup != tt.wantGroup {
				t.Errorf("HasColorGroup = %v, want %v", g.HasColorGroup, tt.wantGroup)
			}
			if !reflect.DeepEqual(g.Levels, tt.wantLevels) {
				t.Errorf("Levels = %v, want %v", g.Levels, tt.wantLevels)
			}
		})
	}
}

func TestAnalyzeLevelsKeepFirstSeenOrder(t *testing.T) {
	g := Analyze(Aes{Color: []Value{
		StrValue("z"), StrValue("a"), StrValue("z"), StrValue("m"),
	}})
	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(g.Levels, want) {
		t.Errorf("Levels = %v, want %v", g.Levels, want)
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   bool
	}{
		{"empty", nil, false},
		{"all numbers", []Value{NumValue(1), NumValue(2)}, true},
		{"mixed", []Value{NumValue(1), StrValue("a")}, false},
		{"all strings", []Value{StrValue("a")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNumeric(tt.values); got != tt.want {
				t.Errorf("IsNumeric() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistinctLabels(t *testing.T) {
	got := DistinctLabels([]Value{NumValue(2), NumValue(1), NumValue(2), StrValue("x")})
	want := []string{"2", "1", "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctLabels() = %v, want %v", got, want)
	}
}
