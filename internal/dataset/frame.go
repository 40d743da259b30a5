package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Values  []string
	Missing []bool
}

type Frame struct {
	cols  []Column
	index map[string]int
	rows  int
}

func ParseCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse CSV: no header row")
	}

	header := records[0]
	rows := len(records) - 1

	f := &Frame{
		cols:  make([]Column, len(header)),
		index: make(map[string]int, len(header)),
		rows:  rows,
	}

	for i, name := range header {
		if _, dup := f.index[name]; dup {
			return nil, fmt.Errorf("failed to parse CSV: duplicate column %q", name)
		}
		f.index[name] = i
		f.cols[i] = Column{
			Name:    name,
			Values:  make([]string, rows),
			Missing: make([]bool, rows),
		}
	}

	for r := 0; r < rows; r++ {
		for c := range header {
			cell := records[r+1][c]
			f.cols[c].Values[r] = cell
			f.cols[c].Missing[r] = missingTokens[strings.TrimSpace(cell)]
		}
	}

	for c := range f.cols {
		f.detectNumeric(&f.cols[c])
	}

	return f, nil
}

// A column is numeric when every present cell parses as a float. A column
// with no present cells at all counts as numeric.
func (f *Frame) detectNumeric(col *Column) {
	floats := make([]float64, f.rows)
	for r := 0; r < f.rows; r++ {
		if col.Missing[r] {
			floats[r] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(col.Values[r]), 64)
		if err != nil {
			col.Numeric = false
			col.Floats = nil
			return
		}
		floats[r] = v
	}
	col.Numeric = true
	col.Floats = floats
}

func (f *Frame) Rows() int {
	return f.rows
}

func (f *Frame) NumColumns() int {
	return len(f.cols)
}

func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.Name
	}
	return names
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return &f.cols[i], true
}

// Floats returns the numeric values of a column, with NaN in missing cells.
func (f *Frame) Floats(name string) ([]float64, bool) {
	col, ok := f.Column(name)
	if !ok || !col.Numeric {
		return nil, false
	}
	return col.Floats, true
}

func (f *Frame) Strings(name string) ([]string, bool) {
	col, ok := f.Column(name)
	if !ok {
		return nil, false
	}
	return col.Values, true
}

func (f *Frame) MissingMask(name string) ([]bool, bool) {
	col, ok := f.Column(name)
	if !ok {
		return nil, false
	}
	return col.Missing, true
}

// Binary interprets a column as 0/1 outcomes. Missing cells read as false.
func (f *Frame) Binary(name string) ([]bool, bool) {
	col, ok := f.Column(name)
	if !ok {
		return nil, false
	}
	out := make([]bool, f.rows)
	for r := 0; r < f.rows; r++ {
		if col.Missing[r] {
			continue
		}
		if col.Numeric {
			out[r] = col.Floats[r] != 0
			continue
		}
		switch strings.ToLower(strings.TrimSpace(col.Values[r])) {
		case "1", "true", "yes", "y":
			out[r] = true
		}
	}
	return out, true
}

func ageGroup(age float64) string {
	switch {
	case age >= 20 && age <= 30:
		return "20-30"
	case age >= 31 && age <= 40:
		return "31-40"
	case age >= 41 && age <= 50:
		return "41-50"
	case age >= 51 && age <= 60:
		return "51-60"
	default:
		return "Other"
	}
}

// DeriveAgeGroups adds an age_group column bucketed from a numeric age column
// when the dataset does not already carry one. Returns whether the frame has
// an age_group column afterwards.
func (f *Frame) DeriveAgeGroups() bool {
	if f.HasColumn("age_group") {
		return true
	}
	ages, ok := f.Floats("age")
	if !ok {
		return false
	}
	mask, _ := f.MissingMask("age")

	col := Column{
		Name:    "age_group",
		Values:  make([]string, f.rows),
		Missing: make([]bool, f.rows),
	}
	for r, age := range ages {
		if mask[r] {
			col.Missing[r] = true
			continue
		}
		col.Values[r] = ageGroup(age)
	}

	f.index["age_group"] = len(f.cols)
	f.cols = append(f.cols, col)
	return true
}

// Preview returns the first n rows as JSON-ready maps, missing cells as nil.
func (f *Frame) Preview(n int) []map[string]interface{} {
	if n < 0 {
		n = 0
	}
	if n > f.rows {
		n = f.rows
	}
	out := make([]map[string]interface{}, 0, n)
	for r := 0; r < n; r++ {
		row := make(map[string]interface{}, len(f.cols))
		for _, col := range f.cols {
			if col.Missing[r] {
				row[col.Name] = nil
			} else if col.Numeric {
				row[col.Name] = col.Floats[r]
			} else {
				row[col.Name] = col.Values[r]
			}
		}
		out = append(out, row)
	}
	return out
}

func (f *Frame) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(f.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(f.cols))
	for r := 0; r < f.rows; r++ {
		for c, col := range f.cols {
			if col.Missing[r] {
				record[c] = ""
			} else {
				record[c] = col.Values[r]
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
