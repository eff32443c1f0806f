package sts

// Kernel is the contract every one of the fifteen NIST test kernels
// implements (spec.md §4.4). A Kernel is stateful across a whole run: it
// is constructed once via Init, asked how many configurations it exposes,
// bound to the Report, executed once per bitstream per configuration, and
// torn down via Finalize.
type Kernel interface {
	// Init validates params against this kernel's ParameterInfo,
	// precomputes per-run constants, and allocates per-configuration
	// state. It returns the number of bytes the driver should allocate
	// per bitstream buffer (n/8).
	Init(common CommonParameters, params *ParameterSet) (bufferBytes int, err error)

	// ConfigurationCount returns how many configurations this kernel
	// exposes for the parameters it was Init'd with (fixed for most
	// kernels; variable for Non-Overlapping-Template-Matching).
	ConfigurationCount() int

	// BindReport attaches the driver's report and initializes each
	// configuration's id/attributes. Idempotent.
	BindReport(report *Report)

	// Execute runs the statistic for every configuration against the
	// same bitstream and appends results to the bound Report.
	Execute(bitstream *Bitstream) error

	// Finalize aggregates per-configuration metrics/criteria via the
	// driver's aggregator and releases private state.
	Finalize(totalBitstreams int) error
}

// Info is implemented by kernels that expose their TestInfo/ParameterInfo
// tables for CLI discovery (cmd/paramset.go) independent of an Init call.
type Info interface {
	TestInfo() TestInfo
	ParameterInfos() []ParameterInfo
}
