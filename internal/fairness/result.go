package fairness

// Shape tags which of the Result payload fields is populated.
type Shape int

const (
	ShapeGroups Shape = iota
	ShapeOdds
	ShapeCurves
	ShapeScalar
)

type OddsRates struct {
	TPR float64 `json:"tpr"`
	FPR float64 `json:"fpr"`
}

// Result is the outcome of one metric computation. Exactly one of Groups,
// Odds, Curves or Value carries the payload, per Shape. LocalAssessment is a
// convenience label computed from fixed 0.1/0.2 spreads; the canonical
// severity comes from classifying the reduced assessment value against the
// catalog, not from this field.
type Result struct {
	Kind  Kind
	Shape Shape

	Groups map[string]float64
	Odds   map[string]OddsRates
	Curves map[string][]float64
	Bins   []string
	Value  float64

	Viz             string
	LocalAssessment string
	Detail          map[string]interface{}

	// Unavailable marks degenerate inputs (single group, no score column);
	// Err carries a computation failure. Either way the payload is empty and
	// the metric is excluded from severity counting.
	Unavailable bool
	Err         string
}

func newResult(kind Kind, shape Shape) Result {
	return Result{
		Kind:  kind,
		Shape: shape,
		Viz:   metricSpecs[kind].viz,
	}
}

// Values returns the payload in the shape the API serializes: a per-group
// map, a per-group odds map, a per-group curve map, or a bare scalar.
func (r Result) Values() interface{} {
	switch r.Shape {
	case ShapeGroups:
		return r.Groups
	case ShapeOdds:
		return r.Odds
	case ShapeCurves:
		return r.Curves
	default:
		return r.Value
	}
}
