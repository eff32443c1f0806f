package sts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformityEmptyReturnsZero(t *testing.T) {
	u, hist := Uniformity(nil)
	assert.Equal(t, 0.0, u)
	assert.Equal(t, [10]int{}, hist)
}

func TestUniformityUniformDistributionIsHigh(t *testing.T) {
	pvalues := make([]float64, 0, 100)
	for i := 0; i < 100; i++ {
		pvalues = append(pvalues, (float64(i)+0.5)/100.0)
	}
	u, hist := Uniformity(pvalues)
	for _, c := range hist {
		assert.Equal(t, 10, c)
	}
	assert.Greater(t, u, 0.99)
}

func TestUniformitySkewedDistributionIsLow(t *testing.T) {
	pvalues := make([]float64, 100)
	for i := range pvalues {
		pvalues[i] = 0.01 // every sample lands in bin 0
	}
	u, _ := Uniformity(pvalues)
	assert.Less(t, u, 0.01)
}

func TestMinimumTestsForSignificanceFloorsAt55(t *testing.T) {
	assert.Equal(t, 55, MinimumTestsForSignificance(0.01, 1000))
	assert.Equal(t, 30, MinimumTestsForSignificance(0.01, 30))
}

func TestExpectedPassFail(t *testing.T) {
	passed, failed := ExpectedPassFail(0.01, 1000)
	assert.InDelta(t, 990.0, passed, 1e-9)
	assert.InDelta(t, 10.0, failed, 1e-9)
}

func TestProportionConfidenceIntervalClampsToBounds(t *testing.T) {
	lower, upper := ProportionConfidenceInterval(0.01, 10)
	assert.GreaterOrEqual(t, lower, 0.0)
	assert.LessOrEqual(t, upper, 10.0)
	assert.LessOrEqual(t, lower, upper)
}

func TestAggregateConfigurationSetsEvaluation(t *testing.T) {
	report := NewReport(TestInfo{Name: "Fixed"}, ParameterSet{TestName: "Fixed"}, ReportHeader{})
	report.EnsureConfiguration(1, ConfigurationAttributes{})
	for i := 0; i < 60; i++ {
		p := (float64(i) + 0.5) / 60.0
		require.NoError(t, report.Commit(nil, []TestResult{{ConfigurationID: 1, TestID: i + 1, PValue: p, Passed: true}}))
	}
	cfg := report.Configuration(1)
	eval := AggregateConfiguration(cfg, 0.01, false)
	assert.Equal(t, EvalPass, eval)
	assert.Equal(t, 60, cfg.Metrics.BitstreamsTested)
}
