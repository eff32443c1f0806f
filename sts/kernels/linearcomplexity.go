package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

// linearComplexityPi is the fixed 7-class probability table SP 800-22
// §2.10 publishes for the chi-squared goodness-of-fit over the
// T_i = (-1)^M*(L_i - mu) + 2/9 distribution (M the block length),
// classes ordered from
// T_i <= -2.5 through T_i > 2.5.
var linearComplexityPi = []float64{0.01047, 0.03125, 0.12500, 0.50000, 0.25000, 0.06250, 0.020833}

// berlekampMassey returns the linear complexity (shortest LFSR length)
// that generates bits, via the Berlekamp-Massey algorithm over GF(2).
func berlekampMassey(bits []byte) int {
	n := len(bits)
	c := make([]byte, n)
	b := make([]byte, n)
	c[0], b[0] = 1, 1

	l, m := 0, -1
	for i := 0; i < n; i++ {
		d := bits[i]
		for j := 1; j <= l; j++ {
			d ^= c[j] & bits[i-j]
		}
		if d == 1 {
			t := make([]byte, n)
			copy(t, c)
			shift := i - m
			for j := 0; j+shift < n; j++ {
				if b[j] == 1 {
					c[j+shift] ^= 1
				}
			}
			if 2*l <= i {
				l = i + 1 - l
				m = i
				copy(b, t)
			}
		}
	}
	return l
}

// LinearComplexity implements the Linear Complexity Test (spec.md
// §4.4.10): runs Berlekamp-Massey over disjoint M-bit blocks and
// chi-squared tests the resulting 7-class T-statistic histogram.
type LinearComplexity struct {
	singleConfigBase
	blockLen int
}

func newLinearComplexity() sts.Kernel { return &LinearComplexity{} }

func (k *LinearComplexity) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Linear Complexity",
		Suite:       "NIST STS",
		Description: "Determines whether the shortest LFSR that could generate each block is consistent with what randomness implies.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.10"},
		Complexity:  "O(n * M)",
		Version:     "1.0",
	}
}

func (k *LinearComplexity) ParameterInfos() []sts.ParameterInfo {
	minM := sts.Value{Type: sts.TypeInt64, I: 500}
	maxM := sts.Value{Type: sts.TypeInt64, I: 5000}
	return []sts.ParameterInfo{
		{Name: "blockLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 500}, Min: &minM, Max: &maxM},
	}
}

func (k *LinearComplexity) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.blockLen = int(params.Int64("blockLength", 500))
	if k.blockLen < 500 || k.blockLen > 5000 {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength %d out of the recommended range [500,5000]", k.blockLen)
	}
	numBlocks := floorInt(common.BitstreamLength, k.blockLen)
	if numBlocks < 200 {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d yields %d blocks of length %d, below the recommended minimum of 200", common.BitstreamLength, numBlocks, k.blockLen)
	}
	return common.BitstreamLength / 8, nil
}

func linearComplexityClass(t float64) int {
	switch {
	case t <= -2.5:
		return 0
	case t <= -1.5:
		return 1
	case t <= -0.5:
		return 2
	case t <= 0.5:
		return 3
	case t <= 1.5:
		return 4
	case t <= 2.5:
		return 5
	default:
		return 6
	}
}

func (k *LinearComplexity) Execute(bitstream *sts.Bitstream) error {
	m := k.blockLen
	numBlocks := floorInt(len(bitstream.Bits), m)
	mu := float64(m)/2.0 + (9.0+math.Pow(-1, float64(m+1)))/36.0 - (float64(m)/3.0+2.0/9.0)/math.Pow(2, float64(m))

	counts := make([]int, len(linearComplexityPi))
	for b := 0; b < numBlocks; b++ {
		block := bitstream.Bits[b*m : (b+1)*m]
		l := berlekampMassey(block)
		sign := -1.0
		if m%2 == 0 {
			sign = 1.0
		}
		t := sign*(float64(l)-mu) + 2.0/9.0
		counts[linearComplexityClass(t)]++
	}

	chi2 := 0.0
	for i, pi := range linearComplexityPi {
		expected := float64(numBlocks) * pi
		d := float64(counts[i]) - expected
		chi2 += d * d / expected
	}
	p, domainFailed := igamcOrZero(3.0, chi2/2.0)

	var extra []sts.Criterion
	if domainFailed {
		extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}

	entries := make([]sts.ValueSetEntry, len(counts))
	for i, c := range counts {
		entries[i] = sts.ValueSetEntry{Key: "class_" + itoa(i), Value: itoa(c)}
	}

	calcs := []sts.Calculation{
		intCalc("blockLength", int64(m), "bits"),
		intCalc("numBlocks", int64(numBlocks), ""),
		floatCalc("mu", mu, "", 6),
		floatCalc("chi_squared", chi2, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, []sts.ValueSet{{Label: "T class frequencies", Entries: entries}}, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
