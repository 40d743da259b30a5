package fairness

import "math"

// Reduce collapses a metric result to the single scalar its thresholds are
// judged against. The collapse rule depends only on the metric's family, so
// every metric of a family reduces the same way.
func Reduce(r Result) float64 {
	switch metricSpecs[r.Kind].family {
	case FamilyMinRatio:
		if len(r.Groups) == 0 {
			return 1.0
		}
		min := math.Inf(1)
		for _, v := range r.Groups {
			if v < min {
				min = v
			}
		}
		return min
	case FamilyOddsSpread:
		tprDiff, fprDiff := oddsSpreads(r.Odds)
		return math.Max(tprDiff, fprDiff)
	case FamilyCalibration:
		return calibrationGap(r.Curves)
	case FamilyMagnitude:
		return math.Abs(r.Value)
	default:
		return spread(groupValues(r.Groups))
	}
}

// calibrationGap is the widest per-bin spread of actual rates across groups,
// comparing each bin position against the same position in every other
// group's curve. Fewer than two groups cannot disagree.
func calibrationGap(curves map[string][]float64) float64 {
	if len(curves) < 2 {
		return 0
	}

	nbins := 0
	for _, c := range curves {
		if len(c) > nbins {
			nbins = len(c)
		}
	}

	gap := 0.0
	for b := 0; b < nbins; b++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		n := 0
		for _, c := range curves {
			if b >= len(c) {
				continue
			}
			n++
			if c[b] < lo {
				lo = c[b]
			}
			if c[b] > hi {
				hi = c[b]
			}
		}
		if n >= 2 && hi-lo > gap {
			gap = hi - lo
		}
	}
	return gap
}
