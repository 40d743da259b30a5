package dataset

import (
	"math"
	"sort"
)

type Statistics struct {
	Rows               int                    `json:"rows"`
	Columns            int                    `json:"columns"`
	NumericColumns     []string               `json:"numeric_columns"`
	CategoricalColumns []string               `json:"categorical_columns"`
	MissingValues      map[string]int         `json:"missing_values"`
	ColumnStats        map[string]interface{} `json:"column_stats"`
}

type NumericStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Std    *float64 `json:"std"`
}

type CategoricalStats struct {
	UniqueValues int            `json:"unique_values"`
	TopValues    map[string]int `json:"top_values"`
}

// Statistics summarizes every column: five-number-style stats for numeric
// columns, distinct counts and the ten most frequent values for the rest.
func (f *Frame) Statistics() Statistics {
	stats := Statistics{
		Rows:          f.rows,
		Columns:       len(f.cols),
		MissingValues: make(map[string]int, len(f.cols)),
		ColumnStats:   make(map[string]interface{}, len(f.cols)),
	}

	for _, col := range f.cols {
		missing := 0
		for _, m := range col.Missing {
			if m {
				missing++
			}
		}
		stats.MissingValues[col.Name] = missing

		if col.Numeric {
			stats.NumericColumns = append(stats.NumericColumns, col.Name)
			stats.ColumnStats[col.Name] = describeNumeric(col)
		} else {
			stats.CategoricalColumns = append(stats.CategoricalColumns, col.Name)
			stats.ColumnStats[col.Name] = describeCategorical(col)
		}
	}

	return stats
}

func describeNumeric(col Column) NumericStats {
	var valid []float64
	for r, v := range col.Floats {
		if !col.Missing[r] {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return NumericStats{}
	}

	sum := 0.0
	min := valid[0]
	max := valid[0]
	for _, v := range valid {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(valid))
	median := sortedMedian(valid)

	out := NumericStats{
		Mean:   &mean,
		Median: &median,
		Min:    &min,
		Max:    &max,
	}

	// Sample standard deviation; undefined for a single observation.
	if len(valid) > 1 {
		ss := 0.0
		for _, v := range valid {
			d := v - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(valid)-1))
		out.Std = &std
	}

	return out
}

func sortedMedian(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func describeCategorical(col Column) CategoricalStats {
	counts := make(map[string]int)
	for r, v := range col.Values {
		if !col.Missing[r] {
			counts[v]++
		}
	}

	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].value < pairs[j].value
	})

	top := make(map[string]int)
	for i, p := range pairs {
		if i >= 10 {
			break
		}
		top[p.value] = p.count
	}

	return CategoricalStats{
		UniqueValues: len(counts),
		TopValues:    top,
	}
}
