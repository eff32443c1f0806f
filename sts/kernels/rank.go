package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
	"github.com/nist-sts/sts-suite/sts/gf2"
)

const rankMatrixSize = 32

// BinaryMatrixRank implements the Binary Matrix Rank Test (spec.md
// §4.4.5): cuts the stream into 32x32 matrices and chi-squared tests the
// observed rank-class frequencies against their theoretical
// probabilities, which are recomputed from the closed-form GF(2)
// rank-distribution formula rather than hard-coded.
type BinaryMatrixRank struct {
	singleConfigBase
}

func newBinaryMatrixRank() sts.Kernel { return &BinaryMatrixRank{} }

func (k *BinaryMatrixRank) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Binary Matrix Rank",
		Suite:       "NIST STS",
		Description: "Checks for linear dependence among fixed-length substrings by examining the rank of disjoint 32x32 binary matrices.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.5"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *BinaryMatrixRank) ParameterInfos() []sts.ParameterInfo { return nil }

func (k *BinaryMatrixRank) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	bitsPerMatrix := rankMatrixSize * rankMatrixSize
	if common.BitstreamLength < bitsPerMatrix {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d too short for a single %dx%d matrix", common.BitstreamLength, rankMatrixSize, rankMatrixSize)
	}
	return common.BitstreamLength / 8, nil
}

// probRank returns P(rank = r) for a random m x n matrix over GF(2), via
// the closed-form product formula (Kovalenko); spec.md §4.4.5 requires
// this be computed, not hard-coded, even though the classic values are
// approximately 0.2888/0.5776/0.1336 for m=n=32.
func probRank(r, m, n int) float64 {
	product := 1.0
	for i := 0; i < r; i++ {
		product *= (1 - math.Pow(2, float64(i-m))) * (1 - math.Pow(2, float64(i-n))) / (1 - math.Pow(2, float64(i-r)))
	}
	exponent := float64(r*(m+n-r) - m*n)
	return product * math.Pow(2, exponent)
}

func (k *BinaryMatrixRank) Execute(bitstream *sts.Bitstream) error {
	bitsPerMatrix := rankMatrixSize * rankMatrixSize
	numMatrices := floorInt(len(bitstream.Bits), bitsPerMatrix)
	discarded := len(bitstream.Bits) - numMatrices*bitsPerMatrix

	f32, f31, fLow := 0, 0, 0
	for idx := 0; idx < numMatrices; idx++ {
		m := gf2.NewMatrixFromBits(bitstream.Bits, idx*bitsPerMatrix, rankMatrixSize, rankMatrixSize)
		switch r := m.Rank(); {
		case r == rankMatrixSize:
			f32++
		case r == rankMatrixSize-1:
			f31++
		default:
			fLow++
		}
	}

	p32 := probRank(rankMatrixSize, rankMatrixSize, rankMatrixSize)
	p31 := probRank(rankMatrixSize-1, rankMatrixSize, rankMatrixSize)
	pLow := 1.0 - p32 - p31

	n := float64(numMatrices)
	chi2 := 0.0
	for _, pair := range [][2]float64{{float64(f32), n * p32}, {float64(f31), n * p31}, {float64(fLow), n * pLow}} {
		d := pair[0] - pair[1]
		chi2 += d * d / pair[1]
	}
	p := math.Exp(-chi2 / 2.0)

	calcs := []sts.Calculation{
		intCalc("numMatrices", int64(numMatrices), ""),
		intCalc("discardedBits", int64(discarded), "bits"),
		floatCalc("chi_squared", chi2, "", 6),
		floatCalc("p_32", p32, "", 6),
		floatCalc("p_31", p31, "", 6),
		floatCalc("p_le_30", pLow, "", 6),
	}
	valueSet := sts.ValueSet{Label: "rank frequencies", Entries: []sts.ValueSetEntry{
		{Key: "F_32", Value: itoa(f32)},
		{Key: "F_31", Value: itoa(f31)},
		{Key: "F_<=30", Value: itoa(fLow)},
	}}
	result := buildResult(1, bitstream.ID, calcs, nil, []sts.ValueSet{valueSet}, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
