package fairness

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"skips NaN", []float64{1, math.NaN(), 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			within(t, median(tt.values), tt.want, 1e-9)
		})
	}
}

func TestMedian_NoValues(t *testing.T) {
	if !math.IsNaN(median(nil)) {
		t.Error("median of nothing should be NaN")
	}
	if !math.IsNaN(median([]float64{math.NaN(), math.NaN()})) {
		t.Error("median of only NaNs should be NaN")
	}
}

func TestQuantileEdges_Quartiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	edges, err := quantileEdges(values, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{1, 3.25, 5.5, 7.75, 10}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d", len(edges), len(want))
	}
	for i := range want {
		within(t, edges[i], want[i], 1e-9)
	}
}

func TestQuantileEdges_ConstantValues(t *testing.T) {
	if _, err := quantileEdges([]float64{5, 5, 5, 5}, 10); err == nil {
		t.Error("expected an error for constant values")
	}
}

func TestQuantileEdges_NoValues(t *testing.T) {
	if _, err := quantileEdges(nil, 10); err == nil {
		t.Error("expected an error for no values")
	}
	if _, err := quantileEdges([]float64{math.NaN()}, 10); err == nil {
		t.Error("expected an error when every value is NaN")
	}
}

func TestQuantileEdges_IgnoresNaN(t *testing.T) {
	edges, err := quantileEdges([]float64{math.NaN(), 1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	within(t, edges[0], 1, 1e-9)
	within(t, edges[len(edges)-1], 4, 1e-9)
}

func TestBinIndex(t *testing.T) {
	edges := []float64{0, 5, 10}
	tests := []struct {
		v    float64
		want int
	}{
		{math.NaN(), -1},
		{-3, 0},
		{0, 0},
		{3, 0},
		{5, 0},
		{5.5, 1},
		{10, 1},
		{12, 1},
	}
	for _, tt := range tests {
		if got := binIndex(edges, tt.v); got != tt.want {
			t.Errorf("binIndex(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestSpread(t *testing.T) {
	within(t, spread(nil), 0, 1e-9)
	within(t, spread([]float64{3}), 0, 1e-9)
	within(t, spread([]float64{1, 4, 2}), 3, 1e-9)
}

func TestOddsSpreads(t *testing.T) {
	tpr, fpr := oddsSpreads(map[string]OddsRates{
		"A": {TPR: 0.9, FPR: 0.2},
		"B": {TPR: 0.5, FPR: 0.1},
	})
	within(t, tpr, 0.4, 1e-9)
	within(t, fpr, 0.1, 1e-9)

	tpr, fpr = oddsSpreads(map[string]OddsRates{"A": {TPR: 0.9, FPR: 0.2}})
	within(t, tpr, 0, 1e-9)
	within(t, fpr, 0, 1e-9)
}

func TestConfusionRates_Epsilon(t *testing.T) {
	m := Confusion{TP: 8, FP: 2, FN: 2, TN: 8}
	within(t, m.TPR(), 0.8, 1e-5)
	within(t, m.FPR(), 0.2, 1e-5)
	within(t, m.FNR(), 0.2, 1e-5)
	within(t, m.FDR(), 0.2, 1e-5)
	within(t, m.PPV(), 0.8, 1e-5)
	within(t, m.Accuracy(), 0.8, 1e-5)

	// Empty cells never divide by zero.
	var zero Confusion
	for _, rate := range []float64{zero.TPR(), zero.FPR(), zero.FNR(), zero.FDR(), zero.PPV(), zero.Accuracy()} {
		if rate != 0 {
			t.Errorf("zero-count rate = %v, want 0", rate)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			t.Errorf("zero-count rate = %v, want finite", rate)
		}
	}
}
