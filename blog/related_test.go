package blog

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate []string
		reference []string
		want      float64
	}{
		{"primary tag", []string{"grief"}, []string{"grief", "calm"}, 2.1},
		{"secondary tag", []string{"calm"}, []string{"grief", "calm"}, 1.1},
		{"both tags", []string{"calm", "grief"}, []string{"grief", "calm"}, 3.2},
		{"no overlap", []string{"sleep"}, []string{"grief", "calm"}, 0},
		{"empty candidate", nil, []string{"grief"}, 0},
		{"empty reference", []string{"grief"}, nil, 0},
		{"duplicate candidate tags", []string{"grief", "grief"}, []string{"grief"}, 2.2},
		{"third tag", []string{"x", "z"}, []string{"a", "b", "z"}, 1.1},
	}
	for _, tt := range tests {
		got := Score(tt.candidate, tt.reference)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Score(%v, %v) = %v, want %v", tt.name, tt.candidate, tt.reference, got, tt.want)
		}
	}
}

func TestScorePrimaryBeatsSecondary(t *testing.T) {
	ref := []string{"grief", "calm"}
	a := Score([]string{"grief"}, ref)
	b := Score([]string{"calm"}, ref)
	if a <= b {
		t.Fatalf("primary-tag candidate scored %v, secondary %v", a, b)
	}
	if math.Floor(a) != 2 || math.Floor(b) != 1 {
		t.Errorf("base scores = %v / %v, want 2 / 1", math.Floor(a), math.Floor(b))
	}
}

func TestScoreZeroIsExact(t *testing.T) {
	if got := Score([]string{"a", "b", "c"}, []string{"d"}); got != 0 {
		t.Errorf("Score without overlap = %v, want exactly 0", got)
	}
}
