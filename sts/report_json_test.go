package sts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	info := TestInfo{Name: "Frequency", Suite: "NIST STS"}
	params := ParameterSet{TestName: "Frequency", SetName: "default"}
	header := ReportHeader{TestName: "Frequency", Suite: "NIST STS", Level: 0.01, StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	report := NewReport(info, params, header)
	report.EnsureConfiguration(1, ConfigurationAttributes{})
	require.NoError(t, report.Commit(nil, []TestResult{
		{
			ConfigurationID: 1,
			TestID:          1,
			Calculations:    []Calculation{floatCalc("s_obs", 0.109599, "", 6)},
			Criteria:        []Criterion{{Description: "p-value > 0.0", Passed: true}},
			PValue:          0.109599,
			Passed:          true,
		},
	}))
	AggregateReport(report, 0.01, false)
	return report
}

func floatCalc(name string, v float64, units string, precision int) Calculation {
	return Calculation{Name: name, Type: TypeFloat64, Units: units, Precision: precision, Value: Value{Type: TypeFloat64, F: v}}
}

func TestReportMarshalJSONShape(t *testing.T) {
	report := buildTestReport(t)
	out, err := report.MarshalJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Contains(t, decoded, "header")
	assert.Contains(t, decoded, "parameter set")
	configs, ok := decoded["configurations"].([]any)
	require.True(t, ok)
	require.Len(t, configs, 1)

	cfg := configs[0].(map[string]any)
	tests := cfg["tests"].([]any)
	require.Len(t, tests, 1)
	result := tests[0].(map[string]any)
	assert.InDelta(t, 0.109599, result["p-value"].(float64), 1e-9)
}

func TestReportMarshalJSONValueIsString(t *testing.T) {
	out, err := json.Marshal(Value{Type: TypeFloat64, F: 0.5})
	require.NoError(t, err)
	assert.Equal(t, `"0.5"`, string(out))
}

func TestReportMarshalJSONIsDeterministicUpToWhitespace(t *testing.T) {
	report := buildTestReport(t)
	first, err := report.MarshalJSON()
	require.NoError(t, err)
	second, err := report.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}
