package kernels

import (
	"github.com/nist-sts/sts-suite/sts"
)

// BlockFrequency implements the Frequency Test within a Block (spec.md
// §4.4.2): partitions the bitstream into M-bit blocks and chi-squared
// tests each block's proportion of ones against 1/2.
type BlockFrequency struct {
	singleConfigBase
	blockLength int
}

func newBlockFrequency() sts.Kernel { return &BlockFrequency{} }

func (k *BlockFrequency) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Block Frequency",
		Suite:       "NIST STS",
		Description: "Determines whether the frequency of ones in an M-bit block is approximately M/2.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.2"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *BlockFrequency) ParameterInfos() []sts.ParameterInfo {
	min := sts.Value{Type: sts.TypeInt64, I: 20}
	return []sts.ParameterInfo{
		{Name: "blockLength", Type: sts.TypeInt64, Units: "bits", Default: sts.Value{Type: sts.TypeInt64, I: 128}, Min: &min},
	}
}

func (k *BlockFrequency) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.blockLength = int(params.Int64("blockLength", 128))
	if k.blockLength <= 0 || k.blockLength > common.BitstreamLength {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength %d invalid for bitstreamLength %d", k.blockLength, common.BitstreamLength)
	}
	return common.BitstreamLength / 8, nil
}

func (k *BlockFrequency) Execute(bitstream *sts.Bitstream) error {
	n := len(bitstream.Bits)
	m := k.blockLength
	numBlocks := floorInt(n, m)

	sumSq := 0.0
	for i := 0; i < numBlocks; i++ {
		ones := 0
		for j := 0; j < m; j++ {
			if bitstream.Bits[i*m+j] != 0 {
				ones++
			}
		}
		pi := float64(ones) / float64(m)
		d := pi - 0.5
		sumSq += d * d
	}
	chi2 := 4.0 * float64(m) * sumSq
	p, domainFailed := igamcOrZero(float64(numBlocks)/2.0, chi2/2.0)

	var extra []sts.Criterion
	if domainFailed {
		extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}

	calcs := []sts.Calculation{
		intCalc("numBlocks", int64(numBlocks), ""),
		floatCalc("chi_squared", chi2, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, nil, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
