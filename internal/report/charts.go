package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/fairlens/backend/internal/fairness"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// barChart renders one bar per group. Rates and ratios both live in [0, 1],
// so the axis range is fixed rather than derived from the data.
func barChart(values map[string]float64, title string) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no groups to plot")
	}

	bars := make([]chart.Value, 0, len(values))
	for _, group := range sortedKeys(values) {
		bars = append(bars, chart.Value{Label: group, Value: values[group]})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// scatterChart plots each group as one point in FPR/TPR space.
func scatterChart(odds map[string]fairness.OddsRates, title string) ([]byte, error) {
	if len(odds) == 0 {
		return nil, fmt.Errorf("no groups to plot")
	}

	series := make([]chart.Series, 0, len(odds))
	for _, group := range sortedKeys(odds) {
		series = append(series, chart.ContinuousSeries{
			Name: group,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    8,
			},
			XValues: []float64{odds[group].FPR},
			YValues: []float64{odds[group].TPR},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		XAxis: chart.XAxis{
			Name:  "False Positive Rate",
			Range: &chart.ContinuousRange{Min: -0.05, Max: 1.05},
		},
		YAxis: chart.YAxis{
			Name:  "True Positive Rate",
			Range: &chart.ContinuousRange{Min: -0.05, Max: 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render scatter chart: %w", err)
	}
	return buf.Bytes(), nil
}
