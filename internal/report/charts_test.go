package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlens/backend/internal/fairness"
)

var pngMagic = []byte("\x89PNG")

func TestBarChart(t *testing.T) {
	png, err := barChart(map[string]float64{"M": 0.4, "F": 0.2, "X": 0.3}, "Demographic Parity")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output is not a PNG")
}

func TestBarChartEqualValues(t *testing.T) {
	png, err := barChart(map[string]float64{"M": 0.0, "F": 0.0}, "Demographic Parity")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestBarChartEmpty(t *testing.T) {
	_, err := barChart(nil, "Demographic Parity")
	assert.Error(t, err)
}

func TestScatterChart(t *testing.T) {
	png, err := scatterChart(map[string]fairness.OddsRates{
		"M": {TPR: 0.9, FPR: 0.1},
		"F": {TPR: 0.8, FPR: 0.2},
	}, "Equalized Odds")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output is not a PNG")
}

func TestScatterChartCoincidentPoints(t *testing.T) {
	png, err := scatterChart(map[string]fairness.OddsRates{
		"M": {TPR: 0.5, FPR: 0.5},
		"F": {TPR: 0.5, FPR: 0.5},
	}, "Equalized Odds")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestScatterChartEmpty(t *testing.T) {
	_, err := scatterChart(nil, "Equalized Odds")
	assert.Error(t, err)
}
