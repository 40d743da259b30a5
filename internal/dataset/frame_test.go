package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, raw string) *Frame {
	t.Helper()
	f, err := ParseCSV(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return f
}

func TestParseCSV(t *testing.T) {
	f := parse(t, "candidate_id,gender,age,shortlisted\n1,M,25,1\n2,F,34,0\n")

	if f.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", f.Rows())
	}
	if f.NumColumns() != 4 {
		t.Fatalf("NumColumns() = %d, want 4", f.NumColumns())
	}

	want := []string{"candidate_id", "gender", "age", "shortlisted"}
	if diff := cmp.Diff(want, f.ColumnNames()); diff != "" {
		t.Errorf("ColumnNames() mismatch (-want +got):\n%s", diff)
	}
	if !f.HasColumn("gender") {
		t.Errorf("HasColumn(gender) = false")
	}
	if f.HasColumn("race") {
		t.Errorf("HasColumn(race) = true for absent column")
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	f := parse(t, "age,gender\n")
	if f.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", f.Rows())
	}
	if f.NumColumns() != 2 {
		t.Errorf("NumColumns() = %d, want 2", f.NumColumns())
	}
}

func TestParseCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"empty input", "", "no header row"},
		{"duplicate column", "a,a\n1,2\n", "duplicate column"},
		{"ragged row", "a,b\n1\n", "failed to parse CSV"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.raw))
			if err == nil {
				t.Fatalf("ParseCSV succeeded, want error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestNumericDetection(t *testing.T) {
	f := parse(t, "age,gender,score\n25,M,0.91\n34,F,0.55\n")

	if _, ok := f.Floats("age"); !ok {
		t.Errorf("age should be numeric")
	}
	if _, ok := f.Floats("gender"); ok {
		t.Errorf("gender should not be numeric")
	}
	vals, ok := f.Floats("score")
	if !ok || vals[1] != 0.55 {
		t.Errorf("score floats = %v, ok = %v", vals, ok)
	}
}

func TestMissingTokens(t *testing.T) {
	f := parse(t, "age,gender\n25,M\nNA,F\nnull,M\nNone,F\nnan,M\n")

	mask, ok := f.MissingMask("age")
	if !ok {
		t.Fatalf("MissingMask(age) not found")
	}
	want := []bool{false, true, true, true, true}
	if diff := cmp.Diff(want, mask); diff != "" {
		t.Errorf("missing mask mismatch (-want +got):\n%s", diff)
	}

	// A column stays numeric when only its present cells parse.
	vals, ok := f.Floats("age")
	if !ok {
		t.Fatalf("age should be numeric despite missing cells")
	}
	if vals[0] != 25 {
		t.Errorf("vals[0] = %v, want 25", vals[0])
	}
	if !math.IsNaN(vals[1]) {
		t.Errorf("vals[1] = %v, want NaN", vals[1])
	}
}

func TestBinaryFromStrings(t *testing.T) {
	f := parse(t, "flag,pad\n1,x\ntrue,x\nYES,x\ny,x\n0,x\nno,x\n")

	got, ok := f.Binary("flag")
	if !ok {
		t.Fatalf("Binary(flag) not found")
	}
	want := []bool{true, true, true, true, false, false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("binary mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryFromNumbers(t *testing.T) {
	f := parse(t, "shortlisted\n1\n0\n2\n")

	got, _ := f.Binary("shortlisted")
	want := []bool{true, false, true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("binary mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryMissingIsFalse(t *testing.T) {
	f := parse(t, "flag,pad\nNA,x\n1,x\n")

	got, _ := f.Binary("flag")
	if got[0] {
		t.Errorf("missing cell should read as false")
	}
	if !got[1] {
		t.Errorf("present 1 should read as true")
	}
}

func TestDeriveAgeGroups(t *testing.T) {
	f := parse(t, "age,pad\n25,x\n31,x\n45,x\n52,x\n19,x\n61,x\nNA,x\n")

	if !f.DeriveAgeGroups() {
		t.Fatalf("DeriveAgeGroups() = false")
	}
	if !f.HasColumn("age_group") {
		t.Fatalf("age_group column not added")
	}

	got, _ := f.Strings("age_group")
	want := []string{"20-30", "31-40", "41-50", "51-60", "Other", "Other", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("age groups mismatch (-want +got):\n%s", diff)
	}

	mask, _ := f.MissingMask("age_group")
	if !mask[6] {
		t.Errorf("missing age should yield missing age_group")
	}
	if mask[0] {
		t.Errorf("present age should yield present age_group")
	}
}

func TestDeriveAgeGroupsKeepsExisting(t *testing.T) {
	f := parse(t, "age,age_group\n25,custom\n")

	if !f.DeriveAgeGroups() {
		t.Fatalf("DeriveAgeGroups() = false with existing column")
	}
	got, _ := f.Strings("age_group")
	if got[0] != "custom" {
		t.Errorf("existing age_group overwritten: %q", got[0])
	}
	if f.NumColumns() != 2 {
		t.Errorf("NumColumns() = %d, want 2", f.NumColumns())
	}
}

func TestDeriveAgeGroupsUnavailable(t *testing.T) {
	if f := parse(t, "gender\nM\n"); f.DeriveAgeGroups() {
		t.Errorf("derived age_group without age column")
	}
	if f := parse(t, "age\ntwenty\n"); f.DeriveAgeGroups() {
		t.Errorf("derived age_group from non-numeric age")
	}
}

func TestPreview(t *testing.T) {
	f := parse(t, "age,gender\n25,M\nNA,F\n")

	rows := f.Preview(5)
	if len(rows) != 2 {
		t.Fatalf("Preview(5) = %d rows, want 2", len(rows))
	}
	if rows[0]["age"] != 25.0 {
		t.Errorf("rows[0][age] = %v, want 25", rows[0]["age"])
	}
	if rows[1]["age"] != nil {
		t.Errorf("rows[1][age] = %v, want nil", rows[1]["age"])
	}
	if rows[1]["gender"] != "F" {
		t.Errorf("rows[1][gender] = %v", rows[1]["gender"])
	}

	if got := f.Preview(1); len(got) != 1 {
		t.Errorf("Preview(1) = %d rows", len(got))
	}
	if got := f.Preview(-3); len(got) != 0 {
		t.Errorf("Preview(-3) = %d rows", len(got))
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := parse(t, "age,gender\n25,M\nNA,F\n")

	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got, want := buf.String(), "age,gender\n25,M\n,F\n"; got != want {
		t.Errorf("WriteCSV output = %q, want %q", got, want)
	}

	back := parse(t, buf.String())
	if back.Rows() != 2 {
		t.Fatalf("round trip rows = %d", back.Rows())
	}
	mask, _ := back.MissingMask("age")
	if !mask[1] {
		t.Errorf("missing cell lost in round trip")
	}
}
