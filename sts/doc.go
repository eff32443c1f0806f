// Package sts provides the core NIST SP 800-22 statistical test suite
// engine: the data model, the pluggable kernel contract, the execution
// driver, and the aggregate pass/fail decision procedure.
//
// # Reading Guide
//
// Start with these files to understand the suite's shape:
//   - types.go: TestInfo, ParameterInfo, ParameterSet, CommonParameters,
//     Bitstream, ConfigurationState, TestResult, ValueSet, Report
//   - kernel.go: the Kernel interface every one of the fifteen NIST tests
//     implements
//   - registry.go: the registry kernels attach themselves to
//   - driver.go: the execution loop that pulls bitstreams, decodes them,
//     and dispatches Execute calls
//   - aggregate.go: the SP 800-22 §4.2 uniformity + proportion decision
//
// # Architecture
//
// sts defines the interfaces and owns the Report; implementations live in
// sibling packages:
//   - sts/numeric: incomplete gamma, log-gamma, standard normal CDF
//   - sts/gf2: GF(2) bit-matrix construction and rank
//   - sts/fft: real-to-half-complex forward DFT (direct O(n^2) evaluation)
//   - sts/kernels: the fifteen test kernels, each registering itself via
//     an init() function that calls Register (see sts/kernels/register.go)
//
// # Key Interface
//
// The single extension point is Kernel (kernel.go): Init, ConfigurationCount,
// BindReport, Execute, Finalize. A kernel is looked up by name through New,
// which reads the unexported registry map that Register fills
// (registry.go), mirroring the teacher pattern of
// sim/latency's init()-time registration into a core-package factory
// variable.
package sts
