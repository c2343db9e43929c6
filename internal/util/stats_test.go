package util

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"odd", []float64{30, 10, 20}, 20},
		{"even", []float64{10, 20, 30, 40}, 25},
		{"unsorted input untouched", []float64{5, 1, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); !almostEqual(got, tt.want) {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestGiniIndex(t *testing.T) {
	t.Run("empty is zero", func(t *testing.T) {
		if got := GiniIndex(nil); got != 0 {
			t.Errorf("GiniIndex(nil) = %v, want 0", got)
		}
	})

	t.Run("identical values are zero", func(t *testing.T) {
		if got := GiniIndex([]float64{4, 4, 4, 4}); !almostEqual(got, 0) {
			t.Errorf("GiniIndex = %v, want 0", got)
		}
	})

	t.Run("non-positive mean is zero", func(t *testing.T) {
		if got := GiniIndex([]float64{-2, -1, 3}); got != 0 {
			t.Errorf("GiniIndex = %v, want 0", got)
		}
	})

	t.Run("maximal concentration approaches theoretical max", func(t *testing.T) {
		// All mass on one of seven categories: G = (n-1)/n.
		got := GiniIndex([]float64{0, 0, 0, 0, 0, 0, 7})
		want := 6.0 / 7.0
		if !almostEqual(got, want) {
			t.Errorf("GiniIndex = %v, want %v", got, want)
		}
	})

	t.Run("mixed spread strictly between 0 and 1", func(t *testing.T) {
		got := GiniIndex([]float64{3, 3, 4, 5, 7})
		if got <= 0 || got >= 1 {
			t.Errorf("GiniIndex = %v, want in (0,1)", got)
		}
	})
}

func TestLinearSlope(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"too few points", []float64{1}, 0},
		{"flat", []float64{2, 2, 2, 2}, 0},
		{"unit increase", []float64{1, 2, 3, 4, 5}, 1},
		{"decline", []float64{10, 8, 6, 4}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinearSlope(tt.values); !almostEqual(got, tt.want) {
				t.Errorf("LinearSlope(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Clamp(150) = %v, want 100", got)
	}
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Clamp(-5) = %v, want 0", got)
	}
	if got := Clamp(55, 0, 100); got != 55 {
		t.Errorf("Clamp(55) = %v, want 55", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(72.345); !almostEqual(got, 72.35) {
		t.Errorf("Round2(72.345) = %v, want 72.35", got)
	}
	if got := Round2(72.344); !almostEqual(got, 72.34) {
		t.Errorf("Round2(72.344) = %v, want 72.34", got)
	}
}
