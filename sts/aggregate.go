package sts

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nist-sts/sts-suite/sts/numeric"
)

// MinimumTestsForSignificance computes the smallest N' >= 55 (spec.md
// §4.5, SP 800-22 §4.2.2) such that the binomial confidence interval at
// (1-α) does not degenerate. The reference rule treats 55 as the floor
// and does not further increase it with N; the bitstreamCount is taken
// only to guard against requiring more tests than were actually run.
func MinimumTestsForSignificance(alpha float64, bitstreamCount int) int {
	const floor = 55
	if bitstreamCount < floor {
		return bitstreamCount
	}
	return floor
}

// ExpectedPassFail returns (1-α)*N and α*N, the expected number of
// passing and failing bitstreams under the null hypothesis.
func ExpectedPassFail(alpha float64, bitstreamCount int) (expectedPassed, expectedFailed float64) {
	n := float64(bitstreamCount)
	return (1 - alpha) * n, alpha * n
}

// uniformityHistogram bins p-values into 10 equal-width [0,1) bins.
func uniformityHistogram(pvalues []float64) [10]int {
	var hist [10]int
	for _, p := range pvalues {
		bin := int(p * 10.0)
		if bin > 9 {
			bin = 9
		}
		if bin < 0 {
			bin = 0
		}
		hist[bin]++
	}
	return hist
}

// Uniformity computes the SP 800-22 §4.2.1 second-order uniformity test
// over a configuration's collected P-values: bin into 10 equal-width
// bins, chi-squared against the expected count per bin, and
// igamc(9/2, chi2/2) as the uniformity P-value. Returns 0.0 (not an
// error) when fewer than 10 P-values were collected, per spec.md §9's
// "clamp to 0 when E==0" note — callers should also inspect the sample
// count to distinguish "uniformity genuinely failed" from "insufficient
// data," which is why ConfigurationMetrics carries both.
func Uniformity(pvalues []float64) (uniformity float64, histogram [10]int) {
	histogram = uniformityHistogram(pvalues)
	m := len(pvalues)
	if m < 10 {
		return 0.0, histogram
	}
	expected := float64(m) / 10.0
	if expected <= 0 {
		return 0.0, histogram
	}
	chi2 := 0.0
	for _, count := range histogram {
		d := float64(count) - expected
		chi2 += d * d / expected
	}
	u, err := numeric.Igamc(9.0/2.0, chi2/2.0)
	if err != nil {
		return 0.0, histogram
	}
	return u, histogram
}

// ProportionConfidenceInterval returns the [lower, upper] bound on the
// number of passing bitstreams (out of m tested) consistent with the
// null hypothesis at three standard deviations (spec.md §4.5).
func ProportionConfidenceInterval(alpha float64, m int) (lower, upper float64) {
	pHat := 1.0 - alpha
	n := float64(m)
	spread := 3.0 * math.Sqrt(pHat*alpha/n)
	lower = math.Round((pHat - spread) * n)
	upper = math.Round((pHat + spread) * n)
	if lower < 0 {
		lower = 0
	}
	if upper > n {
		upper = n
	}
	return lower, upper
}

// AggregateConfiguration computes ConfigurationMetrics and the seven
// aggregate criteria for cfg (spec.md §4.5), storing them on cfg and
// returning the overall Evaluation for this configuration.
func AggregateConfiguration(cfg *ConfigurationReport, alpha float64, skipZero bool) Evaluation {
	pvalues := cfg.PValues(skipZero)
	m := len(pvalues)

	uniformity, histogram := Uniformity(pvalues)
	lower, upper := ProportionConfidenceInterval(alpha, m)
	minimumRequired := MinimumTestsForSignificance(alpha, m)

	var meanP, varP float64
	if m > 0 {
		meanP, varP = stat.MeanVariance(pvalues, nil)
	}

	cfg.Metrics = ConfigurationMetrics{
		BitstreamsTested:        m,
		MinimumTestsRequired:    minimumRequired,
		ConfidenceIntervalLower: lower,
		ConfidenceIntervalUpper: upper,
		Histogram:               histogram,
		Uniformity:              uniformity,
		MeanPValue:              meanP,
		VariancePValue:          varP,
	}

	passed := cfg.State.TestsPassed

	criteria := []Criterion{
		{Description: "tests executed >= minimum required for significance", Passed: m >= minimumRequired},
		{Description: "tests executed >= 55 (uniformity prerequisite)", Passed: m >= 55},
		{Description: "uniformity > 0.0", Passed: uniformity > 0.0},
		{Description: "uniformity > 0.0001", Passed: uniformity > 0.0001},
		{Description: "tests executed > 0", Passed: m > 0},
		{Description: "passed <= proportion upper bound", Passed: float64(passed) <= upper},
		{Description: "passed >= proportion lower bound", Passed: float64(passed) >= lower},
	}
	cfg.Criteria = criteria

	eval := EvalPass
	if !computePassed(criteria) {
		eval = EvalFail
	}
	cfg.Evaluation = eval
	return eval
}

// AggregateReport finalizes every configuration in r and returns the
// overall test Evaluation: pass iff every configuration passes.
func AggregateReport(r *Report, alpha float64, skipZero bool) Evaluation {
	overall := EvalPass
	for _, cfg := range r.Configurations {
		if AggregateConfiguration(cfg, alpha, skipZero) != EvalPass {
			overall = EvalFail
		}
	}
	r.Freeze()
	return overall
}
