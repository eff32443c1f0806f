package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
	"github.com/nist-sts/sts-suite/sts/numeric"
)

// CumulativeSums implements the Cumulative Sums Test (spec.md §4.4.13):
// two configurations, forward and reverse, each testing whether the
// maximal excursion of the running partial-sum random walk is consistent
// with randomness, via a closed-form normal-CDF sum rather than
// simulation.
type CumulativeSums struct {
	report *sts.Report
	common sts.CommonParameters
	bound  bool
}

func newCumulativeSums() sts.Kernel { return &CumulativeSums{} }

func (k *CumulativeSums) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Cumulative Sums",
		Suite:       "NIST STS",
		Description: "Tests whether the maximal excursion of the cumulative-sum random walk derived from the bitstream is too large or too small relative to randomness, in both the forward and reverse directions.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.13"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *CumulativeSums) ParameterInfos() []sts.ParameterInfo { return nil }

func (k *CumulativeSums) ConfigurationCount() int { return 2 }

func (k *CumulativeSums) BindReport(report *sts.Report) {
	if k.bound {
		return
	}
	k.report = report
	report.EnsureConfiguration(1, sts.ConfigurationAttributes{Direction: "forward"})
	report.EnsureConfiguration(2, sts.ConfigurationAttributes{Direction: "reverse"})
	k.bound = true
}

func (k *CumulativeSums) Finalize(totalBitstreams int) error { return nil }

func (k *CumulativeSums) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	return common.BitstreamLength / 8, nil
}

// cusumMaxExcursion walks bits in the given order, mapping 0->-1, 1->+1,
// and returns the largest absolute partial sum observed.
func cusumMaxExcursion(bits []byte, reverse bool) int {
	z := 0
	maxAbs := 0
	step := func(bit byte) {
		if bit != 0 {
			z++
		} else {
			z--
		}
		abs := z
		if abs < 0 {
			abs = -abs
		}
		if abs > maxAbs {
			maxAbs = abs
		}
	}
	if reverse {
		for i := len(bits) - 1; i >= 0; i-- {
			step(bits[i])
		}
	} else {
		for _, b := range bits {
			step(b)
		}
	}
	return maxAbs
}

// cusumPValue evaluates the SP 800-22 §2.13 closed-form P-value for
// observed maximal excursion z over a walk of length n.
func cusumPValue(z, n int) float64 {
	zf, nf := float64(z), float64(n)
	sqrtN := math.Sqrt(nf)

	sum1 := 0.0
	startK := int(math.Floor((-nf/zf + 1) / 4))
	endK := int(math.Floor((nf/zf - 1) / 4))
	for k := startK; k <= endK; k++ {
		sum1 += numeric.Normal((4*float64(k)+1)*zf/sqrtN) - numeric.Normal((4*float64(k)-1)*zf/sqrtN)
	}

	sum2 := 0.0
	startK2 := int(math.Floor((-nf/zf - 3) / 4))
	endK2 := int(math.Floor((nf/zf - 1) / 4))
	for k := startK2; k <= endK2; k++ {
		sum2 += numeric.Normal((4*float64(k)+3)*zf/sqrtN) - numeric.Normal((4*float64(k)+1)*zf/sqrtN)
	}

	return 1.0 - sum1 + sum2
}

func (k *CumulativeSums) Execute(bitstream *sts.Bitstream) error {
	n := len(bitstream.Bits)

	zForward := cusumMaxExcursion(bitstream.Bits, false)
	zReverse := cusumMaxExcursion(bitstream.Bits, true)

	pForward := 1.0
	if zForward > 0 {
		pForward = cusumPValue(zForward, n)
	}
	pReverse := 1.0
	if zReverse > 0 {
		pReverse = cusumPValue(zReverse, n)
	}

	result1 := buildResult(1, bitstream.ID,
		[]sts.Calculation{intCalc("z", int64(zForward), "")}, nil, nil, pForward, k.common.SignificanceLevel)
	result2 := buildResult(2, bitstream.ID,
		[]sts.Calculation{intCalc("z", int64(zReverse), "")}, nil, nil, pReverse, k.common.SignificanceLevel)

	return k.report.Commit(bitstream, []sts.TestResult{result1, result2})
}
