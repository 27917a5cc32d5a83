package analysis

import (
	"testing"

	"gochance/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_ExactMatchPasses(t *testing.T) {
	report, err := Fit([]float64{0.25, 0.25, 0.5}, []int{250, 250, 500})
	require.NoError(t, err)

	assert.Equal(t, 1000, report.Draws)
	assert.Equal(t, 2, report.DegreesOfFreedom)
	assert.InDelta(t, 0, report.ChiSquare, 1e-12)
	assert.InDelta(t, 1, report.PValue, 1e-9)
	assert.InDelta(t, 0, report.MaxDeviation, 1e-12)
	assert.True(t, report.Passes(0.001))
}

func TestFit_SkewedCountsFail(t *testing.T) {
	report, err := Fit([]float64{0.5, 0.5}, []int{7000, 3000})
	require.NoError(t, err)

	assert.InDelta(t, 1600, report.ChiSquare, 1e-9)
	assert.Less(t, report.PValue, 1e-6)
	assert.InDelta(t, 0.2, report.MaxDeviation, 1e-12)
	assert.False(t, report.Passes(0.001))
}

func TestFit_ImpossibleDraws(t *testing.T) {
	report, err := Fit([]float64{0, 1}, []int{1, 999})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Impossible)
	assert.Equal(t, 1, report.Categories)
	assert.Equal(t, 1.0, report.PValue)
	assert.False(t, report.Passes(0.001))
}

func TestFit_InvalidInput(t *testing.T) {
	_, err := Fit([]float64{1}, []int{1, 2})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = Fit([]float64{0.5, 0.5}, []int{0, 0})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
