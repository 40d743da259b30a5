package dataset

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatisticsNumericColumn(t *testing.T) {
	f := parse(t, "score\n10\n20\n30\n40\n")
	stats := f.Statistics()

	if stats.Rows != 4 || stats.Columns != 1 {
		t.Fatalf("shape = %dx%d, want 4x1", stats.Rows, stats.Columns)
	}
	if diff := cmp.Diff([]string{"score"}, stats.NumericColumns); diff != "" {
		t.Errorf("numeric columns mismatch (-want +got):\n%s", diff)
	}
	if len(stats.CategoricalColumns) != 0 {
		t.Errorf("categorical columns = %v", stats.CategoricalColumns)
	}

	ns, ok := stats.ColumnStats["score"].(NumericStats)
	if !ok {
		t.Fatalf("column stats type = %T", stats.ColumnStats["score"])
	}
	if *ns.Mean != 25 || *ns.Median != 25 || *ns.Min != 10 || *ns.Max != 40 {
		t.Errorf("stats = mean %v median %v min %v max %v", *ns.Mean, *ns.Median, *ns.Min, *ns.Max)
	}
	if math.Abs(*ns.Std-math.Sqrt(500.0/3.0)) > 1e-9 {
		t.Errorf("std = %v", *ns.Std)
	}
}

func TestStatisticsMedianOdd(t *testing.T) {
	f := parse(t, "score\n30\n10\n20\n")
	ns := f.Statistics().ColumnStats["score"].(NumericStats)
	if *ns.Median != 20 {
		t.Errorf("median = %v, want 20", *ns.Median)
	}
}

func TestStatisticsCategoricalColumn(t *testing.T) {
	f := parse(t, "gender\nM\nF\nM\nM\nF\n")
	stats := f.Statistics()

	if diff := cmp.Diff([]string{"gender"}, stats.CategoricalColumns); diff != "" {
		t.Errorf("categorical columns mismatch (-want +got):\n%s", diff)
	}

	cs, ok := stats.ColumnStats["gender"].(CategoricalStats)
	if !ok {
		t.Fatalf("column stats type = %T", stats.ColumnStats["gender"])
	}
	if cs.UniqueValues != 2 {
		t.Errorf("unique values = %d, want 2", cs.UniqueValues)
	}
	if diff := cmp.Diff(map[string]int{"M": 3, "F": 2}, cs.TopValues); diff != "" {
		t.Errorf("top values mismatch (-want +got):\n%s", diff)
	}
}

func TestStatisticsTopValuesCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("city\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "v%02d\n", i)
	}
	f := parse(t, b.String())

	cs := f.Statistics().ColumnStats["city"].(CategoricalStats)
	if cs.UniqueValues != 12 {
		t.Errorf("unique values = %d, want 12", cs.UniqueValues)
	}
	if len(cs.TopValues) != 10 {
		t.Errorf("top values size = %d, want 10", len(cs.TopValues))
	}
	// Equal counts break ties by value, so the two largest labels fall out.
	if _, ok := cs.TopValues["v11"]; ok {
		t.Errorf("v11 should not be in top values")
	}
	if _, ok := cs.TopValues["v00"]; !ok {
		t.Errorf("v00 should be in top values")
	}
}

func TestStatisticsMissingCounts(t *testing.T) {
	f := parse(t, "age,gender\n25,M\nNA,\n34,F\n")
	stats := f.Statistics()

	want := map[string]int{"age": 1, "gender": 1}
	if diff := cmp.Diff(want, stats.MissingValues); diff != "" {
		t.Errorf("missing counts mismatch (-want +got):\n%s", diff)
	}
}

func TestStatisticsSingleObservation(t *testing.T) {
	f := parse(t, "score\n42\n")
	ns := f.Statistics().ColumnStats["score"].(NumericStats)

	if *ns.Mean != 42 {
		t.Errorf("mean = %v", *ns.Mean)
	}
	if ns.Std != nil {
		t.Errorf("std = %v, want nil for single observation", *ns.Std)
	}
}

func TestStatisticsAllMissingColumn(t *testing.T) {
	f := parse(t, "x,y\nNA,1\nNA,2\n")
	stats := f.Statistics()

	ns, ok := stats.ColumnStats["x"].(NumericStats)
	if !ok {
		t.Fatalf("all-missing column stats type = %T", stats.ColumnStats["x"])
	}
	if ns.Mean != nil {
		t.Errorf("mean = %v, want nil", *ns.Mean)
	}
	if stats.MissingValues["x"] != 2 {
		t.Errorf("missing count = %d, want 2", stats.MissingValues["x"])
	}
}
