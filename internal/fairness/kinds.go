package fairness

// Kind identifies one of the thirteen fairness metrics. The set is closed:
// every Kind carries its compute method, its reduction family and its
// visualization hint in the metricSpecs table, so the engine, the reducer and
// the catalog cannot drift apart on names.
type Kind string

const (
	DemographicParity           Kind = "demographic_parity"
	DisparateImpact             Kind = "disparate_impact"
	EqualOpportunity            Kind = "equal_opportunity"
	PredictiveEquality          Kind = "predictive_equality"
	CalibrationByGroup          Kind = "calibration_by_group"
	FalseNegativeRateParity     Kind = "false_negative_rate_parity"
	FalseDiscoveryRateParity    Kind = "false_discovery_rate_parity"
	AccuracyEquality            Kind = "accuracy_equality"
	PredictiveParityPPV         Kind = "predictive_parity_ppv"
	EqualizedOdds               Kind = "equalized_odds"
	StatisticalParityDifference Kind = "statistical_parity_difference"
	AverageOddsDifference       Kind = "average_odds_difference"
	TheilIndex                  Kind = "theil_index"
)

// Family selects how a metric result reduces to its single assessment value.
type Family int

const (
	FamilySpread Family = iota
	FamilyMinRatio
	FamilyOddsSpread
	FamilyMagnitude
	FamilyCalibration
)

const (
	VizBar     = "bar"
	VizScatter = "scatter"
	VizHeatmap = "heatmap"
	VizMetric  = "metric"
)

type metricSpec struct {
	family  Family
	viz     string
	compute func(*Engine) Result
}

var metricOrder = []Kind{
	DemographicParity,
	DisparateImpact,
	EqualOpportunity,
	PredictiveEquality,
	CalibrationByGroup,
	FalseNegativeRateParity,
	FalseDiscoveryRateParity,
	AccuracyEquality,
	PredictiveParityPPV,
	EqualizedOdds,
	StatisticalParityDifference,
	AverageOddsDifference,
	TheilIndex,
}

var metricSpecs = map[Kind]metricSpec{
	DemographicParity:           {FamilySpread, VizBar, (*Engine).DemographicParity},
	DisparateImpact:             {FamilyMinRatio, VizBar, (*Engine).DisparateImpact},
	EqualOpportunity:            {FamilySpread, VizBar, (*Engine).EqualOpportunity},
	PredictiveEquality:          {FamilySpread, VizBar, (*Engine).PredictiveEquality},
	CalibrationByGroup:          {FamilyCalibration, VizHeatmap, (*Engine).CalibrationByGroup},
	FalseNegativeRateParity:     {FamilySpread, VizBar, (*Engine).FalseNegativeRateParity},
	FalseDiscoveryRateParity:    {FamilySpread, VizBar, (*Engine).FalseDiscoveryRateParity},
	AccuracyEquality:            {FamilySpread, VizBar, (*Engine).AccuracyEquality},
	PredictiveParityPPV:         {FamilySpread, VizBar, (*Engine).PredictiveParityPPV},
	EqualizedOdds:               {FamilyOddsSpread, VizScatter, (*Engine).EqualizedOdds},
	StatisticalParityDifference: {FamilyMagnitude, VizMetric, (*Engine).StatisticalParityDifference},
	AverageOddsDifference:       {FamilyMagnitude, VizMetric, (*Engine).AverageOddsDifference},
	TheilIndex:                  {FamilyMagnitude, VizMetric, (*Engine).TheilIndex},
}

// Kinds returns all metric kinds in their canonical reporting order.
func Kinds() []Kind {
	out := make([]Kind, len(metricOrder))
	copy(out, metricOrder)
	return out
}

// ParseKind resolves a metric name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k := Kind(name)
	_, ok := metricSpecs[k]
	return k, ok
}

func (k Kind) Family() Family {
	return metricSpecs[k].family
}

func (k Kind) Visualization() string {
	return metricSpecs[k].viz
}
