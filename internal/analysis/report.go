package analysis

import (
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/fairness"
)

// MetricReport is one metric's share of an analysis response.
type MetricReport struct {
	MetricName         string                 `json:"metric_name"`
	Values             interface{}            `json:"values"`
	VisualizationData  map[string]interface{} `json:"visualization_data,omitempty"`
	FairnessAssessment string                 `json:"fairness_assessment"`
	Explanation        Explanation            `json:"explanation"`
}

// Explanation couples the catalog definition with the segment the current
// value landed in.
type Explanation struct {
	catalog.Definition
	CurrentSegment catalog.Classification `json:"current_segment"`
}

// Summary aggregates severities over the computed metrics. Metrics graded
// Unknown count toward the total but toward none of the severity buckets.
type Summary struct {
	TotalMetrics      int    `json:"total_metrics"`
	Fair              int    `json:"fair"`
	Warning           int    `json:"warning"`
	Violation         int    `json:"violation"`
	OverallAssessment string `json:"overall_assessment"`
}

// AnalysisResponse is the full audit of one dataset against one protected
// attribute.
type AnalysisResponse struct {
	DatasetID     string         `json:"dataset_id"`
	ProtectedAttr string         `json:"protected_attr"`
	Metrics       []MetricReport `json:"metrics"`
	Summary       Summary        `json:"summary"`
}

// ComparisonRow grades one metric across two datasets.
type ComparisonRow struct {
	MetricName         string  `json:"metric_name"`
	MetricDisplayName  string  `json:"metric_display_name"`
	Dataset1Value      float64 `json:"dataset_1_value"`
	Dataset2Value      float64 `json:"dataset_2_value"`
	Dataset1Assessment string  `json:"dataset_1_assessment"`
	Dataset2Assessment string  `json:"dataset_2_assessment"`
	Change             string  `json:"change"`
}

type ComparisonSummary struct {
	TotalMetrics int    `json:"total_metrics"`
	Improved     int    `json:"improved"`
	Worsened     int    `json:"worsened"`
	Unchanged    int    `json:"unchanged"`
	Overall      string `json:"overall"`
}

type ComparisonResponse struct {
	Dataset1          string            `json:"dataset_1"`
	Dataset2          string            `json:"dataset_2"`
	ProtectedAttr     string            `json:"protected_attr"`
	MetricsComparison []ComparisonRow   `json:"metrics_comparison"`
	Summary           ComparisonSummary `json:"summary"`
}

// report grades one computed result against the catalog. Results that could
// not be computed are graded Unknown rather than against thresholds.
func (o *Orchestrator) report(res fairness.Result) MetricReport {
	out := MetricReport{
		MetricName:        string(res.Kind),
		Values:            res.Values(),
		VisualizationData: visualizationData(res),
	}

	def, _ := o.catalog.Definition(res.Kind)

	if res.Unavailable || res.Err != "" {
		out.FairnessAssessment = string(catalog.SeverityUnknown)
		out.Explanation = Explanation{
			Definition: def,
			CurrentSegment: catalog.Classification{
				Severity:       catalog.SeverityUnknown,
				Interpretation: unavailableReason(res),
			},
		}
		return out
	}

	value := fairness.Reduce(res)
	out.FairnessAssessment = string(o.catalog.Classify(res.Kind, value))
	out.Explanation = Explanation{
		Definition:     def,
		CurrentSegment: o.catalog.SegmentInfo(res.Kind, value),
	}
	return out
}

func unavailableReason(res fairness.Result) string {
	if res.Err != "" {
		return res.Err
	}
	return res.LocalAssessment
}

// visualizationData rebuilds the raw per-metric payload the dashboard's
// charts consume: the values under their shape-specific key, the chart hint,
// the engine's own coarse assessment line, and any metric-specific extras.
func visualizationData(res fairness.Result) map[string]interface{} {
	data := make(map[string]interface{})

	if res.Shape == fairness.ShapeScalar {
		data["value"] = res.Value
	} else {
		data["values"] = res.Values()
	}

	// Group- and curve-shaped results that failed carry no chart hint;
	// scalar results always render as a plain figure.
	if res.Shape == fairness.ShapeScalar || (res.Err == "" && !res.Unavailable) {
		data["visualization_type"] = res.Viz
	}

	switch {
	case res.Err != "":
		data["fairness_assessment"] = "Error: " + res.Err
	case res.LocalAssessment != "":
		data["fairness_assessment"] = res.LocalAssessment
	}

	if len(res.Bins) > 0 {
		data["bins"] = res.Bins
	}
	for k, v := range res.Detail {
		data[k] = v
	}
	return data
}

func summarize(metrics []MetricReport) Summary {
	s := Summary{TotalMetrics: len(metrics)}
	for _, m := range metrics {
		switch catalog.Severity(m.FairnessAssessment) {
		case catalog.SeverityFair:
			s.Fair++
		case catalog.SeverityWarning:
			s.Warning++
		case catalog.SeverityViolation:
			s.Violation++
		}
	}
	if s.Violation == 0 && s.Warning == 0 {
		s.OverallAssessment = "Fair"
	} else {
		s.OverallAssessment = "Needs Attention"
	}
	return s
}

func changeLabel(before, after catalog.Severity) string {
	switch {
	case after.Rank() < before.Rank():
		return "improved"
	case after.Rank() > before.Rank():
		return "worsened"
	default:
		return "unchanged"
	}
}
