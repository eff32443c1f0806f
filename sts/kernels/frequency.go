package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

// Frequency implements the Frequency (Monobit) Test (spec.md §4.4.1): map
// bits to ±1, sum them, and compare |sum|/√n against the standard normal
// tail.
type Frequency struct {
	singleConfigBase
}

func newFrequency() sts.Kernel { return &Frequency{} }

func (f *Frequency) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Frequency",
		Suite:       "NIST STS",
		Description: "Monobit test: determines whether the proportion of ones and zeros is close to 1/2.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.1"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (f *Frequency) ParameterInfos() []sts.ParameterInfo { return nil }

func (f *Frequency) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	f.common = common
	return common.BitstreamLength / 8, nil
}

func (f *Frequency) Execute(bitstream *sts.Bitstream) error {
	n := len(bitstream.Bits)
	sum := 0
	for _, bit := range bitstream.Bits {
		if bit != 0 {
			sum++
		} else {
			sum--
		}
	}
	sObs := math.Abs(float64(sum)) / math.Sqrt(float64(n))
	p := math.Erfc(sObs / math.Sqrt2)

	calcs := []sts.Calculation{
		intCalc("sum", int64(sum), "bits"),
		floatCalc("s_obs", sObs, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, nil, nil, p, f.common.SignificanceLevel)
	return f.report.Commit(bitstream, []sts.TestResult{result})
}
