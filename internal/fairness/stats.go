package fairness

import (
	"errors"
	"math"
	"sort"
)

// median returns the middle value of the present (non-NaN) entries, averaging
// the two middle values for even counts. NaN when nothing is present.
func median(values []float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)

	n := len(valid)
	if n%2 == 1 {
		return valid[n/2]
	}
	return (valid[n/2-1] + valid[n/2]) / 2
}

// quantile interpolates linearly between the two closest ranks of a sorted
// slice (position h = (n-1)p).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// quantileEdges computes q-quantile bin edges over the present values,
// dropping duplicate edges. At least two distinct edges must remain to form
// one bin.
func quantileEdges(values []float64, q int) ([]float64, error) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return nil, errors.New("no score values to bin")
	}
	sort.Float64s(valid)

	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		e := quantile(valid, float64(i)/float64(q))
		if len(edges) == 0 || e != edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) < 2 {
		return nil, errors.New("fewer than two distinct bin edges")
	}
	return edges, nil
}

// binIndex places a value into its half-open interval (edges[i], edges[i+1]];
// the lowest edge is included in the first bin. NaN maps to no bin.
func binIndex(edges []float64, v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	if v <= edges[0] {
		return 0
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

func groupValues(groups map[string]float64) []float64 {
	out := make([]float64, 0, len(groups))
	for _, v := range groups {
		out = append(out, v)
	}
	return out
}

func oddsSpreads(odds map[string]OddsRates) (tprDiff, fprDiff float64) {
	if len(odds) < 2 {
		return 0, 0
	}
	tprs := make([]float64, 0, len(odds))
	fprs := make([]float64, 0, len(odds))
	for _, o := range odds {
		tprs = append(tprs, o.TPR)
		fprs = append(fprs, o.FPR)
	}
	return spread(tprs), spread(fprs)
}
