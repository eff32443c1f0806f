package sts

import "time"

// Evaluation is the overall pass/fail/error verdict for a configuration
// or for the whole test.
type Evaluation string

const (
	EvalPass  Evaluation = "pass"
	EvalFail  Evaluation = "fail"
	EvalError Evaluation = "error"
)

// ReportHeader carries the run-identifying metadata spec.md §6 lists for
// the Report JSON boundary. Populated by the driver, not by kernels.
type ReportHeader struct {
	TestName      string
	Suite         string
	ScheduleID    string
	Description   string
	Conductor     string
	Notes         string
	Level         float64 // significance level, duplicated here for convenience
	ProgramName   string
	ProgramVer    string
	OS            string
	Arch          string
	EntropySource string
	StartTime     time.Time
}

// ConfigurationMetrics are the per-configuration aggregate numbers the
// aggregator (aggregate.go) computes after every bitstream has run.
type ConfigurationMetrics struct {
	BitstreamsTested        int
	MinimumTestsRequired    int
	ConfidenceIntervalLower float64
	ConfidenceIntervalUpper float64
	Histogram               [10]int
	Uniformity              float64
	// MeanPValue/VariancePValue are supplementary diagnostics (SPEC_FULL
	// §11), computed via gonum.org/v1/gonum/stat — not part of the SP
	// 800-22 decision itself.
	MeanPValue     float64
	VariancePValue float64
}

// ConfigurationReport is one configuration's slice of the Report: its
// identity, every TestResult recorded against it, its aggregate metrics,
// the seven aggregate criteria (spec.md §4.5), and its Evaluation.
type ConfigurationReport struct {
	ID         int
	Attributes ConfigurationAttributes
	Tests      []TestResult
	State      ConfigurationState
	Metrics    ConfigurationMetrics
	Criteria   []Criterion
	Evaluation Evaluation
}

// Report is the append-only-during-a-run, frozen-at-finalization output
// document. The driver owns it exclusively; kernels are granted scoped
// write access through BindReport/Commit for one (config, bitstream) at
// a time and must not retain references beyond their call.
type Report struct {
	Info           TestInfo
	Params         ParameterSet
	Header         ReportHeader
	Configurations []*ConfigurationReport
	frozen         bool
}

// NewReport creates a Report for one kernel's run.
func NewReport(info TestInfo, params ParameterSet, header ReportHeader) *Report {
	return &Report{Info: info, Params: params, Header: header}
}

// EnsureConfiguration idempotently adds (if absent) and returns the
// ConfigurationReport for id, initializing its attributes the first time
// it is touched (spec.md §3: "created by driver when configuration first
// touched; persists for the entire run").
func (r *Report) EnsureConfiguration(id int, attrs ConfigurationAttributes) *ConfigurationReport {
	for _, c := range r.Configurations {
		if c.ID == id {
			return c
		}
	}
	c := &ConfigurationReport{ID: id, Attributes: attrs, State: ConfigurationState{ConfigurationID: id, Attributes: attrs}}
	r.Configurations = append(r.Configurations, c)
	return c
}

// Commit atomically appends results, one per configuration, for a single
// bitstream. Results are fully built by the kernel before this call, so a
// failure while building them never partially mutates the Report
// (spec.md §7: "either all of its writes succeed, or none"). bitstream
// may be nil (e.g. synthetic results in tests); its Ones/Zeros are then
// simply not added to the configurations' accumulators.
func (r *Report) Commit(bitstream *Bitstream, results []TestResult) error {
	if r.frozen {
		return NewError(IOError, "cannot commit to a frozen report")
	}
	var ones, zeros int
	if bitstream != nil {
		ones, zeros = bitstream.Ones, bitstream.Zeros
	}
	for _, res := range results {
		cfg := r.EnsureConfiguration(res.ConfigurationID, ConfigurationAttributes{})
		cfg.Tests = append(cfg.Tests, res)
		cfg.State.RecordOutcome(ones, zeros, res.Passed)
	}
	return nil
}

// Freeze marks the report read-only; called once at finalization.
func (r *Report) Freeze() { r.frozen = true }

// Configuration looks up a configuration by id, or nil.
func (r *Report) Configuration(id int) *ConfigurationReport {
	for _, c := range r.Configurations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// PValues returns every recorded P-value for configuration id, in test
// order, skipping zeros when skipZero is set (spec.md §4.5: "skip zeros
// for random-excursions variants").
func (c *ConfigurationReport) PValues(skipZero bool) []float64 {
	out := make([]float64, 0, len(c.Tests))
	for _, t := range c.Tests {
		if skipZero && t.PValue == 0.0 {
			continue
		}
		out = append(out, t.PValue)
	}
	return out
}
