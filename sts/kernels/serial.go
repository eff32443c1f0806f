package kernels

import (
	"github.com/nist-sts/sts-suite/sts"
)

// cyclicPatternCounts tallies the frequency of each m-bit cyclic pattern
// in bits, treating the stream as circular (the first m-1 bits are
// appended to the end, per SP 800-22 §2.11/§2.12's convention).
func cyclicPatternCounts(bits []byte, m int) []int {
	if m <= 0 {
		return []int{len(bits)}
	}
	n := len(bits)
	extended := make([]byte, n+m-1)
	copy(extended, bits)
	copy(extended[n:], bits[:m-1])

	counts := make([]int, 1<<uint(m))
	for i := 0; i < n; i++ {
		counts[blockValue(extended[i:i+m])]++
	}
	return counts
}

func psiSquared(counts []int, n int, m int) float64 {
	sum := 0.0
	for _, c := range counts {
		sum += float64(c) * float64(c)
	}
	return sum*float64(uint64(1)<<uint(m))/float64(n) - float64(n)
}

// Serial implements the Serial Test (spec.md §4.4.11): compares the
// frequency of all 2^m overlapping m-bit, (m-1)-bit and (m-2)-bit
// patterns against their expected uniform distribution, producing two
// P-values (delta-psi-squared and delta-squared-psi-squared).
type Serial struct {
	report   *sts.Report
	common   sts.CommonParameters
	blockLen int
	bound    bool
}

func newSerial() sts.Kernel { return &Serial{} }

// ConfigurationCount is 2: the delta-psi-squared and
// delta-squared-psi-squared statistics are reported as separate
// configurations sharing the same bitstream traversal.
func (k *Serial) ConfigurationCount() int { return 2 }

func (k *Serial) BindReport(report *sts.Report) {
	if k.bound {
		return
	}
	k.report = report
	report.EnsureConfiguration(1, sts.ConfigurationAttributes{})
	report.EnsureConfiguration(2, sts.ConfigurationAttributes{})
	k.bound = true
}

func (k *Serial) Finalize(totalBitstreams int) error { return nil }

func (k *Serial) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Serial",
		Suite:       "NIST STS",
		Description: "Determines whether the number of occurrences of every overlapping m-bit pattern is consistent with a random sequence.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.11"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *Serial) ParameterInfos() []sts.ParameterInfo {
	minM := sts.Value{Type: sts.TypeInt64, I: 2}
	return []sts.ParameterInfo{
		{Name: "blockLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 3}, Min: &minM},
	}
}

func (k *Serial) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.blockLen = int(params.Int64("blockLength", 3))
	if k.blockLen < 2 {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength must be >= 2, got %d", k.blockLen)
	}
	if float64(k.blockLen) > floorLog2(common.BitstreamLength)-2 {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength %d too large relative to bitstreamLength %d", k.blockLen, common.BitstreamLength)
	}
	return common.BitstreamLength / 8, nil
}

func floorLog2(n int) float64 {
	bits := 0
	for n > 1 {
		n >>= 1
		bits++
	}
	return float64(bits)
}

func (k *Serial) Execute(bitstream *sts.Bitstream) error {
	n := len(bitstream.Bits)
	m := k.blockLen

	psiM := psiSquared(cyclicPatternCounts(bitstream.Bits, m), n, m)
	psiM1 := psiSquared(cyclicPatternCounts(bitstream.Bits, m-1), n, m-1)
	deltaPsi2 := psiM - psiM1

	var deltaPsi2Squared float64
	var haveSecondOrder bool
	if m >= 2 {
		psiM2 := psiSquared(cyclicPatternCounts(bitstream.Bits, m-2), n, m-2)
		deltaPsi2Squared = psiM - 2*psiM1 + psiM2
		haveSecondOrder = true
	}

	p1, domainFailed1 := igamcOrZero(float64(uint64(1)<<uint(m-1))/2.0, deltaPsi2/2.0)

	calcs := []sts.Calculation{
		intCalc("blockLength", int64(m), "bits"),
		floatCalc("psi_m", psiM, "", 6),
		floatCalc("psi_m_minus_1", psiM1, "", 6),
		floatCalc("delta_psi_squared", deltaPsi2, "", 6),
	}
	var extra1 []sts.Criterion
	if domainFailed1 {
		extra1 = append(extra1, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}
	result1 := buildResult(1, bitstream.ID, calcs, extra1, nil, p1, k.common.SignificanceLevel)

	results := []sts.TestResult{result1}
	if haveSecondOrder {
		p2, domainFailed2 := igamcOrZero(float64(uint64(1)<<uint(m-2))/2.0, deltaPsi2Squared/2.0)
		calcs2 := []sts.Calculation{
			intCalc("blockLength", int64(m), "bits"),
			floatCalc("delta_squared_psi_squared", deltaPsi2Squared, "", 6),
		}
		var extra2 []sts.Criterion
		if domainFailed2 {
			extra2 = append(extra2, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
		}
		result2 := buildResult(2, bitstream.ID, calcs2, extra2, nil, p2, k.common.SignificanceLevel)
		results = append(results, result2)
	}

	return k.report.Commit(bitstream, results)
}
