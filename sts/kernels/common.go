// Package kernels implements the fifteen NIST SP 800-22 Rev 1a test
// kernels. Each file registers its kernel(s) with the sts package's
// registry from an init() function (register.go), the same pattern the
// teacher uses to wire sim/latency and sim/kv implementations into the
// core sim package without an import cycle.
package kernels

import (
	"strconv"

	"github.com/nist-sts/sts-suite/sts"
	"github.com/nist-sts/sts-suite/sts/numeric"
)

func itoa(v int) string { return strconv.Itoa(v) }

// pvalueCriteria builds the three criteria every kernel must enforce on
// its emitted P-value (spec.md §4.4: C1 p>0.0, C2 p<=1.0, C3 p>=alpha).
func pvalueCriteria(p, alpha float64) []sts.Criterion {
	return []sts.Criterion{
		{Description: "p-value > 0.0", Passed: p > 0.0},
		{Description: "p-value <= 1.0", Passed: p <= 1.0},
		{Description: "p-value >= alpha (significance threshold)", Passed: p >= alpha},
	}
}

// buildResult assembles a TestResult from a computed P-value, the
// kernel's own calculations/value-sets, and any additional structural
// criteria (e.g. a prerequisite or rejection-constraint check), applying
// the shared AND-of-criteria pass rule.
func buildResult(configID, testID int, calcs []sts.Calculation, extra []sts.Criterion, valueSets []sts.ValueSet, p, alpha float64) sts.TestResult {
	criteria := append(pvalueCriteria(p, alpha), extra...)
	return sts.TestResult{
		ConfigurationID: configID,
		TestID:          testID,
		Calculations:    calcs,
		Criteria:        criteria,
		ValueSets:       valueSets,
		PValue:          p,
		Passed:          sts.PassedFromCriteria(criteria),
	}
}

// igamcOrZero evaluates igamc(a,x), treating a numeric-domain failure as
// a P-value of 0.0 plus a failed criterion explaining why (spec.md §7:
// NumericDomain is test-level, not program-level).
func igamcOrZero(a, x float64) (p float64, domainFailed bool) {
	v, err := numeric.Igamc(a, x)
	if err != nil {
		return 0.0, true
	}
	return v, false
}

func floatCalc(name string, v float64, units string, precision int) sts.Calculation {
	return sts.Calculation{Name: name, Type: sts.TypeFloat64, Units: units, Precision: precision, Value: sts.Value{Type: sts.TypeFloat64, F: v}}
}

func intCalc(name string, v int64, units string) sts.Calculation {
	return sts.Calculation{Name: name, Type: sts.TypeInt64, Units: units, Value: sts.Value{Type: sts.TypeInt64, I: v}}
}

// singleConfigBase factors the boilerplate shared by every kernel with
// exactly one configuration: bind-once bookkeeping and a no-op Finalize
// (the driver performs cross-configuration aggregation after every
// kernel's Finalize returns — see sts/driver.go Run).
type singleConfigBase struct {
	report *sts.Report
	common sts.CommonParameters
	bound  bool
}

func (b *singleConfigBase) ConfigurationCount() int { return 1 }

func (b *singleConfigBase) BindReport(report *sts.Report) {
	if b.bound {
		return
	}
	b.report = report
	report.EnsureConfiguration(1, sts.ConfigurationAttributes{})
	b.bound = true
}

func (b *singleConfigBase) Finalize(totalBitstreams int) error { return nil }

// floorInt mirrors the reference's integer-truncating division used
// throughout SP 800-22 ("N = floor(n/M)").
func floorInt(a, b int) int { return a / b }
