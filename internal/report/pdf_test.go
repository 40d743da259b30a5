package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairlens/backend/internal/analysis"
)

func TestHeatColor(t *testing.T) {
	r, g, b := heatColor(0)
	assert.Equal(t, [3]int{255, 255, 255}, [3]int{r, g, b}, "zero rate should be white")

	r, g, b = heatColor(1)
	assert.Equal(t, [3]int{70, 130, 180}, [3]int{r, g, b}, "full rate should be steel blue")

	r, g, b = heatColor(2.5)
	assert.Equal(t, [3]int{70, 130, 180}, [3]int{r, g, b}, "values above 1 clamp")

	r, g, b = heatColor(-0.5)
	assert.Equal(t, [3]int{255, 255, 255}, [3]int{r, g, b}, "values below 0 clamp")

	rMid, _, _ := heatColor(0.5)
	assert.Less(t, rMid, 255)
	assert.Greater(t, rMid, 70)
}

func TestDisplayName(t *testing.T) {
	m := analysis.MetricReport{MetricName: "demographic_parity"}
	assert.Equal(t, "demographic parity", displayName(m))

	m.Explanation.DisplayName = "Demographic Parity"
	assert.Equal(t, "Demographic Parity", displayName(m))
}
