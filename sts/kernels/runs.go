package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

// Runs implements the Runs Test (spec.md §4.4.3): counts the total number
// of runs (uninterrupted sequences of identical bits) and compares it
// against the expected count for a truly random sequence, after first
// checking the proportion-of-ones prerequisite.
type Runs struct {
	singleConfigBase
}

func newRuns() sts.Kernel { return &Runs{} }

func (k *Runs) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Runs",
		Suite:       "NIST STS",
		Description: "Determines whether the number of runs of ones and zeros is as expected for a random sequence.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.3"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *Runs) ParameterInfos() []sts.ParameterInfo { return nil }

func (k *Runs) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	return common.BitstreamLength / 8, nil
}

func (k *Runs) Execute(bitstream *sts.Bitstream) error {
	n := len(bitstream.Bits)
	pi := float64(bitstream.Ones) / float64(n)

	prerequisite := math.Abs(pi-0.5) < 2.0/math.Sqrt(float64(n))

	var p float64
	var vObs int
	if prerequisite {
		vObs = 1
		for i := 1; i < n; i++ {
			if bitstream.Bits[i] != bitstream.Bits[i-1] {
				vObs++
			}
		}
		num := math.Abs(float64(vObs) - 2.0*float64(n)*pi*(1-pi))
		den := 2.0 * math.Sqrt(2.0*float64(n)) * pi * (1 - pi)
		p = math.Erfc(num / den)
	}

	extra := []sts.Criterion{
		{Description: "prerequisite |pi-0.5| < 2/sqrt(n) satisfied", Passed: prerequisite},
	}
	calcs := []sts.Calculation{
		floatCalc("pi", pi, "", 6),
		intCalc("v_obs", int64(vObs), "runs"),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, nil, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
