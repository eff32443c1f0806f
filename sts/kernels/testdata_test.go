package kernels

import "github.com/nist-sts/sts-suite/sts"

// bitsFromString expands a "0"/"1" string into a one-byte-per-bit buffer,
// the in-memory bitstream convention sts.MemorySource expects.
func bitsFromString(s string) []byte {
	bits := make([]byte, len(s))
	for i, r := range s {
		if r == '1' {
			bits[i] = 1
		}
	}
	return bits
}

// runSingleConfig drives a freshly constructed kernel through Init,
// BindReport, one Execute over bits, and Finalize, returning the
// configuration-1 TestResult. Used by Appendix B reference-vector tests,
// which exercise a single kernel run against one known bitstream rather
// than a full Driver-mediated run.
func runSingleConfig(newKernel func() sts.Kernel, common sts.CommonParameters, params *sts.ParameterSet, bits []byte) (*sts.Report, error) {
	kernel := newKernel()
	if _, err := kernel.Init(common, params); err != nil {
		return nil, err
	}
	info := sts.TestInfo{Name: params.TestName}
	if ik, ok := kernel.(sts.Info); ok {
		info = ik.TestInfo()
	}
	report := sts.NewReport(info, *params, sts.ReportHeader{TestName: params.TestName})
	kernel.BindReport(report)

	bs := &sts.Bitstream{ID: 1, Bits: bits}
	bs.CountBits()
	if err := kernel.Execute(bs); err != nil {
		return nil, err
	}
	if err := kernel.Finalize(1); err != nil {
		return nil, err
	}
	return report, nil
}

func emptyParams(testName string) *sts.ParameterSet {
	return &sts.ParameterSet{TestName: testName, SetName: "default"}
}
