package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

func phiStatistic(bits []byte, m int) float64 {
	if m == 0 {
		return 0.0
	}
	n := len(bits)
	extended := make([]byte, n+m-1)
	copy(extended, bits)
	copy(extended[n:], bits[:m-1])

	counts := make([]int, 1<<uint(m))
	for i := 0; i < n; i++ {
		counts[blockValue(extended[i:i+m])]++
	}

	sum := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		freq := float64(c) / float64(n)
		sum += freq * math.Log(freq)
	}
	return sum
}

// ApproximateEntropy implements the Approximate Entropy Test (spec.md
// §4.4.12): compares the frequency of all overlapping m-bit and (m+1)-bit
// patterns to what independence would imply.
type ApproximateEntropy struct {
	singleConfigBase
	blockLen int
}

func newApproximateEntropy() sts.Kernel { return &ApproximateEntropy{} }

func (k *ApproximateEntropy) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Approximate Entropy",
		Suite:       "NIST STS",
		Description: "Compares the frequency of overlapping m-bit and (m+1)-bit patterns to the frequency expected from a random sequence.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.12"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *ApproximateEntropy) ParameterInfos() []sts.ParameterInfo {
	minM := sts.Value{Type: sts.TypeInt64, I: 1}
	return []sts.ParameterInfo{
		{Name: "blockLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 2}, Min: &minM},
	}
}

func (k *ApproximateEntropy) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.blockLen = int(params.Int64("blockLength", 2))
	if k.blockLen < 1 {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength must be >= 1, got %d", k.blockLen)
	}
	// SP 800-22 §2.12's recommended constraint: m < floor(log2(n)) - 5.
	if float64(k.blockLen) >= floorLog2(common.BitstreamLength)-5 {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength %d does not satisfy m < floor(log2(n))-5 for bitstreamLength %d", k.blockLen, common.BitstreamLength)
	}
	return common.BitstreamLength / 8, nil
}

func (k *ApproximateEntropy) Execute(bitstream *sts.Bitstream) error {
	m := k.blockLen
	n := len(bitstream.Bits)

	phiM := phiStatistic(bitstream.Bits, m)
	phiM1 := phiStatistic(bitstream.Bits, m+1)
	apEn := phiM - phiM1
	chi2 := 2.0 * float64(n) * (math.Ln2 - apEn)
	p, domainFailed := igamcOrZero(math.Pow(2, float64(m-1)), chi2/2.0)

	var extra []sts.Criterion
	if domainFailed {
		extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}
	calcs := []sts.Calculation{
		intCalc("blockLength", int64(m), "bits"),
		floatCalc("phi_m", phiM, "", 6),
		floatCalc("phi_m_plus_1", phiM1, "", 6),
		floatCalc("apen", apEn, "", 6),
		floatCalc("chi_squared", chi2, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, nil, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
