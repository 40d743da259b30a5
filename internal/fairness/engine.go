package fairness

import (
	"fmt"
	"math"
	"strconv"

	"github.com/fairlens/backend/internal/dataset"
)

// Engine computes fairness metrics over one dataset and protected attribute.
// Groups are the distinct present attribute values in order of first
// appearance; rows with a missing attribute value belong to no group but
// still count toward whole-dataset metrics. When a screening_score column
// exists, the prediction is score >= median(score); otherwise the actual
// outcome doubles as the prediction.
type Engine struct {
	groups     []string
	membership []int
	actual     []bool
	predicted  []bool
	scores     []float64
	hasScore   bool
	threshold  float64
}

func NewEngine(f *dataset.Frame, protectedAttr string) (*Engine, error) {
	actual, ok := f.Binary("shortlisted")
	if !ok {
		return nil, fmt.Errorf("dataset has no shortlisted column")
	}
	values, ok := f.Strings(protectedAttr)
	if !ok {
		return nil, fmt.Errorf("protected attribute %q not found in dataset", protectedAttr)
	}
	missing, _ := f.MissingMask(protectedAttr)

	e := &Engine{
		actual:     actual,
		membership: make([]int, len(actual)),
		threshold:  math.NaN(),
	}

	index := make(map[string]int)
	for r, v := range values {
		if missing[r] {
			e.membership[r] = -1
			continue
		}
		idx, seen := index[v]
		if !seen {
			idx = len(e.groups)
			index[v] = idx
			e.groups = append(e.groups, v)
		}
		e.membership[r] = idx
	}

	if scores, ok := f.Floats("screening_score"); ok {
		e.scores = scores
		e.hasScore = true
		e.threshold = median(scores)
	}

	e.predicted = make([]bool, len(actual))
	for r := range actual {
		if e.hasScore {
			e.predicted[r] = e.scores[r] >= e.threshold
		} else {
			e.predicted[r] = actual[r]
		}
	}

	return e, nil
}

func (e *Engine) Groups() []string {
	out := make([]string, len(e.groups))
	copy(out, e.groups)
	return out
}

// Threshold reports the median score cutoff used for predictions, when a
// score column exists.
func (e *Engine) Threshold() (float64, bool) {
	return e.threshold, e.hasScore
}

// Compute runs the metric for the given kind. Unknown kinds produce an
// error-carrying result rather than a panic.
func (e *Engine) Compute(kind Kind) Result {
	spec, ok := metricSpecs[kind]
	if !ok {
		return Result{Kind: kind, Shape: ShapeScalar, Err: fmt.Sprintf("unknown metric %q", kind)}
	}
	return spec.compute(e)
}

// Confusion derives the 2x2 counts for one group; an unknown group yields
// all-zero counts.
func (e *Engine) Confusion(group string) Confusion {
	for i, g := range e.groups {
		if g == group {
			return e.confusionAt(i)
		}
	}
	return Confusion{}
}

func (e *Engine) confusionAt(idx int) Confusion {
	var m Confusion
	for r, g := range e.membership {
		if g != idx {
			continue
		}
		switch {
		case e.actual[r] && e.predicted[r]:
			m.TP++
		case e.actual[r]:
			m.FN++
		case e.predicted[r]:
			m.FP++
		default:
			m.TN++
		}
	}
	return m
}

func (e *Engine) shortlistRate(idx int) float64 {
	n, pos := 0, 0
	for r, g := range e.membership {
		if g != idx {
			continue
		}
		n++
		if e.actual[r] {
			pos++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(pos) / float64(n)
}

func spreadAssessment(diff float64) string {
	switch {
	case diff < 0.1:
		return "Fair"
	case diff < 0.2:
		return "Warning"
	default:
		return "Violation"
	}
}

func magnitudeAssessment(v float64) string {
	return spreadAssessment(math.Abs(v))
}

func (e *Engine) DemographicParity() Result {
	res := newResult(DemographicParity, ShapeGroups)
	res.Groups = make(map[string]float64, len(e.groups))
	for i, g := range e.groups {
		res.Groups[g] = e.shortlistRate(i)
	}

	diff := spread(groupValues(res.Groups))
	res.LocalAssessment = spreadAssessment(diff)
	res.Detail = map[string]interface{}{"max_difference": diff}
	return res
}

func (e *Engine) DisparateImpact() Result {
	res := newResult(DisparateImpact, ShapeGroups)
	rates := make(map[string]float64, len(e.groups))
	for i, g := range e.groups {
		rates[g] = e.shortlistRate(i)
	}

	if len(rates) < 2 {
		res.Groups = rates
		res.Unavailable = true
		res.LocalAssessment = "Insufficient data"
		return res
	}

	maxRate := 0.0
	for _, r := range rates {
		if r > maxRate {
			maxRate = r
		}
	}

	ratios := make(map[string]float64, len(rates))
	minRatio := math.Inf(1)
	for g, r := range rates {
		ratio := 0.0
		if maxRate > 0 {
			ratio = r / maxRate
		}
		ratios[g] = ratio
		if ratio < minRatio {
			minRatio = ratio
		}
	}

	res.Groups = ratios
	if minRatio >= 0.8 {
		res.LocalAssessment = "Fair"
	} else {
		res.LocalAssessment = "Violation"
	}
	res.Detail = map[string]interface{}{
		"rates":     rates,
		"min_ratio": minRatio,
		"threshold": 0.8,
	}
	return res
}

// EqualOpportunity reports, per group, the shortlisting rate among qualified
// rows (score at or above the median cutoff). Without a score column it
// falls back to the confusion-matrix TPR.
func (e *Engine) EqualOpportunity() Result {
	res := newResult(EqualOpportunity, ShapeGroups)
	res.Groups = make(map[string]float64, len(e.groups))

	if e.hasScore {
		for i, g := range e.groups {
			n, pos := 0, 0
			for r, m := range e.membership {
				if m != i || !(e.scores[r] >= e.threshold) {
					continue
				}
				n++
				if e.actual[r] {
					pos++
				}
			}
			if n > 0 {
				res.Groups[g] = float64(pos) / float64(n)
			} else {
				res.Groups[g] = 0.0
			}
		}
	} else {
		for i, g := range e.groups {
			res.Groups[g] = e.confusionAt(i).TPR()
		}
	}

	diff := spread(groupValues(res.Groups))
	res.LocalAssessment = spreadAssessment(diff)
	res.Detail = map[string]interface{}{"max_difference": diff}
	return res
}

func (e *Engine) confusionSpread(kind Kind, rate func(Confusion) float64) Result {
	res := newResult(kind, ShapeGroups)
	res.Groups = make(map[string]float64, len(e.groups))
	for i, g := range e.groups {
		res.Groups[g] = rate(e.confusionAt(i))
	}

	diff := spread(groupValues(res.Groups))
	res.LocalAssessment = spreadAssessment(diff)
	res.Detail = map[string]interface{}{"max_difference": diff}
	return res
}

func (e *Engine) PredictiveEquality() Result {
	return e.confusionSpread(PredictiveEquality, Confusion.FPR)
}

func (e *Engine) FalseNegativeRateParity() Result {
	return e.confusionSpread(FalseNegativeRateParity, Confusion.FNR)
}

func (e *Engine) FalseDiscoveryRateParity() Result {
	return e.confusionSpread(FalseDiscoveryRateParity, Confusion.FDR)
}

func (e *Engine) AccuracyEquality() Result {
	return e.confusionSpread(AccuracyEquality, Confusion.Accuracy)
}

func (e *Engine) PredictiveParityPPV() Result {
	return e.confusionSpread(PredictiveParityPPV, Confusion.PPV)
}

// CalibrationByGroup partitions scores into up to ten quantile bins and
// reports each group's actual shortlisting rate per bin. Bins a group never
// lands in read 0.0.
func (e *Engine) CalibrationByGroup() Result {
	res := newResult(CalibrationByGroup, ShapeCurves)
	if !e.hasScore {
		res.Curves = map[string][]float64{}
		res.Unavailable = true
		res.LocalAssessment = "No screening_score column available"
		return res
	}

	edges, err := quantileEdges(e.scores, 10)
	if err != nil {
		res.Curves = map[string][]float64{}
		res.Err = fmt.Sprintf("cannot compute decile bins: %v", err)
		return res
	}

	nbins := len(edges) - 1
	counts := make([][]int, len(e.groups))
	pos := make([][]int, len(e.groups))
	for i := range counts {
		counts[i] = make([]int, nbins)
		pos[i] = make([]int, nbins)
	}

	for r, g := range e.membership {
		if g < 0 {
			continue
		}
		b := binIndex(edges, e.scores[r])
		if b < 0 {
			continue
		}
		counts[g][b]++
		if e.actual[r] {
			pos[g][b]++
		}
	}

	res.Curves = make(map[string][]float64, len(e.groups))
	for i, name := range e.groups {
		curve := make([]float64, nbins)
		for b := 0; b < nbins; b++ {
			if counts[i][b] > 0 {
				curve[b] = float64(pos[i][b]) / float64(counts[i][b])
			}
		}
		res.Curves[name] = curve
	}

	res.Bins = binLabels(edges)
	res.LocalAssessment = "See visualization"
	return res
}

func binLabels(edges []float64) []string {
	labels := make([]string, len(edges)-1)
	for i := range labels {
		low := edges[i]
		if i == 0 {
			low = edges[0] - (edges[len(edges)-1]-edges[0])*0.001
		}
		labels[i] = "(" + formatEdge(low) + ", " + formatEdge(edges[i+1]) + "]"
	}
	return labels
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (e *Engine) EqualizedOdds() Result {
	res := newResult(EqualizedOdds, ShapeOdds)
	res.Odds = make(map[string]OddsRates, len(e.groups))
	for i, g := range e.groups {
		m := e.confusionAt(i)
		res.Odds[g] = OddsRates{TPR: m.TPR(), FPR: m.FPR()}
	}

	tprDiff, fprDiff := oddsSpreads(res.Odds)
	res.LocalAssessment = spreadAssessment(math.Max(tprDiff, fprDiff))
	res.Detail = map[string]interface{}{
		"tpr_difference": tprDiff,
		"fpr_difference": fprDiff,
	}
	return res
}

// StatisticalParityDifference is the signed rate gap between the first two
// groups encountered.
func (e *Engine) StatisticalParityDifference() Result {
	res := newResult(StatisticalParityDifference, ShapeScalar)
	if len(e.groups) >= 2 {
		res.Value = e.shortlistRate(0) - e.shortlistRate(1)
	}
	res.LocalAssessment = magnitudeAssessment(res.Value)
	res.Detail = map[string]interface{}{"interpretation": "Values close to 0 indicate fairness"}
	return res
}

func (e *Engine) AverageOddsDifference() Result {
	res := newResult(AverageOddsDifference, ShapeScalar)
	if len(e.groups) < 2 {
		res.Unavailable = true
		res.LocalAssessment = "Insufficient groups"
		return res
	}

	m1 := e.confusionAt(0)
	m2 := e.confusionAt(1)
	tprDiff := m1.TPR() - m2.TPR()
	fprDiff := m1.FPR() - m2.FPR()

	res.Value = (tprDiff + fprDiff) / 2
	res.LocalAssessment = magnitudeAssessment(res.Value)
	res.Detail = map[string]interface{}{
		"tpr_diff":       tprDiff,
		"fpr_diff":       fprDiff,
		"interpretation": "Values close to 0 indicate fairness",
	}
	return res
}

// TheilIndex measures inequality of the outcome distribution over all rows.
// Exactly 0 when nobody was shortlisted.
func (e *Engine) TheilIndex() Result {
	res := newResult(TheilIndex, ShapeScalar)
	res.Detail = map[string]interface{}{"interpretation": "Values close to 0 indicate fairness"}

	n := len(e.actual)
	if n == 0 {
		res.LocalAssessment = magnitudeAssessment(0)
		return res
	}

	pos := 0
	for _, a := range e.actual {
		if a {
			pos++
		}
	}
	mu := float64(pos) / float64(n)
	if mu == 0 {
		res.Value = 0
		res.LocalAssessment = magnitudeAssessment(0)
		return res
	}

	// Zero outcomes contribute exactly 0 to the sum, so only positives are
	// accumulated.
	term := (1 / mu) * math.Log((1+epsilon)/mu)
	res.Value = term * float64(pos) / float64(n)
	res.LocalAssessment = magnitudeAssessment(res.Value)
	return res
}
