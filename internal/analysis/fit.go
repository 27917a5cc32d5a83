package analysis

import (
	"math"

	"gochance/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitReport summarises how well observed draw counts match the declared
// probabilities.
type FitReport struct {
	Draws            int       `json:"draws"`
	Categories       int       `json:"categories"`
	ChiSquare        float64   `json:"chi_square"`
	DegreesOfFreedom int       `json:"degrees_of_freedom"`
	PValue           float64   `json:"p_value"`
	Observed         []float64 `json:"observed"`
	MaxDeviation     float64   `json:"max_deviation"`

	// Impossible counts draws that landed on a zero-probability category
	Impossible int `json:"impossible"`
}

// Passes reports whether the sample is consistent with the expected
// probabilities at significance level alpha.
func (r *FitReport) Passes(alpha float64) bool {
	return r.Impossible == 0 && r.PValue >= alpha
}

// Fit runs Pearson's chi-square goodness-of-fit test of counts against the
// expected probabilities. Zero-probability categories do not enter the
// statistic; any draw in one is reported in Impossible.
func Fit(expected []float64, counts []int) (*FitReport, error) {
	if len(expected) != len(counts) {
		return nil, errors.InvalidInput("expected and observed categories differ in length")
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, errors.InvalidInput("no draws to analyse")
	}

	report := &FitReport{
		Draws:    total,
		Observed: make([]float64, len(counts)),
	}
	n := float64(total)
	deviations := make([]float64, len(counts))

	for i, c := range counts {
		observed := float64(c) / n
		report.Observed[i] = observed
		deviations[i] = math.Abs(observed - expected[i])

		if expected[i] <= 0 {
			report.Impossible += c
			continue
		}
		report.Categories++
		e := expected[i] * n
		d := float64(c) - e
		report.ChiSquare += d * d / e
	}

	maxDev, err := stats.Max(deviations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute deviation")
	}
	report.MaxDeviation = maxDev

	report.DegreesOfFreedom = report.Categories - 1
	if report.DegreesOfFreedom < 1 {
		report.PValue = 1
		return report, nil
	}
	chi := distuv.ChiSquared{K: float64(report.DegreesOfFreedom)}
	report.PValue = chi.Survival(report.ChiSquare)

	return report, nil
}
