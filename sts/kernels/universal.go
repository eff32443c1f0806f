package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

// universalProfile is the fixed (L, expectedValue, variance) table SP
// 800-22 §2.9 publishes for each supported block-length L in [6,16].
type universalProfile struct {
	expectedValue float64
	variance      float64
}

var universalProfiles = map[int]universalProfile{
	6:  {5.2177052, 2.954},
	7:  {6.1962507, 3.125},
	8:  {7.1836656, 3.238},
	9:  {8.1764248, 3.311},
	10: {9.1723243, 3.356},
	11: {10.170032, 3.384},
	12: {11.168765, 3.401},
	13: {12.168070, 3.410},
	14: {13.167693, 3.416},
	15: {14.167488, 3.419},
	16: {15.167379, 3.421},
}

// minimumBlocksForL is, per L, the least total number of L-bit blocks
// (initialization plus test) accepted; each value equals 10*2^L, the
// initialization-segment length Q for that L.
var minimumBlocksForL = map[int]int{
	6: 640, 7: 1280, 8: 2560, 9: 5120, 10: 10240,
	11: 20480, 12: 40960, 13: 81920, 14: 163840, 15: 327680, 16: 655360,
}

// Universal implements Maurer's Universal Statistical Test (spec.md
// §4.4.9): partitions the stream into an initialization segment of Q
// L-bit blocks (building a last-seen-position table) followed by a test
// segment of K L-bit blocks, then compares the mean log2 inter-occurrence
// distance against its tabulated expectation.
type Universal struct {
	singleConfigBase
	blockLen int
}

func newUniversal() sts.Kernel { return &Universal{} }

func (k *Universal) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Universal",
		Suite:       "NIST STS",
		Description: "Measures the compressibility of the bitstream via Maurer's universal statistical test, detecting whether it could be significantly compressed.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.9"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *Universal) ParameterInfos() []sts.ParameterInfo {
	minL := sts.Value{Type: sts.TypeInt64, I: 6}
	maxL := sts.Value{Type: sts.TypeInt64, I: 16}
	return []sts.ParameterInfo{
		{Name: "blockLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 7}, Min: &minL, Max: &maxL},
	}
}

func (k *Universal) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.blockLen = int(params.Int64("blockLength", 7))
	if _, ok := universalProfiles[k.blockLen]; !ok {
		return 0, sts.NewError(sts.InvalidParameter, "blockLength %d is not one of the tabulated values [6,16]", k.blockLen)
	}
	numBlocks := floorInt(common.BitstreamLength, k.blockLen)
	q := 10 * (1 << uint(k.blockLen))
	if numBlocks <= q {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d yields only %d blocks of length %d, need more than the %d-block initialization segment", common.BitstreamLength, numBlocks, k.blockLen, q)
	}
	if min, ok := minimumBlocksForL[k.blockLen]; ok && numBlocks < min {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d yields %d blocks, below the recommended minimum %d for blockLength %d", common.BitstreamLength, numBlocks, min, k.blockLen)
	}
	return common.BitstreamLength / 8, nil
}

func blockValue(bits []byte) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b != 0 {
			v |= 1
		}
	}
	return v
}

func (k *Universal) Execute(bitstream *sts.Bitstream) error {
	l := k.blockLen
	numBlocks := floorInt(len(bitstream.Bits), l)
	q := 10 * (1 << uint(l))
	kBlocks := numBlocks - q

	tableSize := 1 << uint(l)
	lastSeen := make([]int, tableSize)

	for i := 0; i < q; i++ {
		v := blockValue(bitstream.Bits[i*l : (i+1)*l])
		lastSeen[v] = i + 1
	}

	sum := 0.0
	for i := q; i < numBlocks; i++ {
		v := blockValue(bitstream.Bits[i*l : (i+1)*l])
		sum += math.Log2(float64(i + 1 - lastSeen[v]))
		lastSeen[v] = i + 1
	}
	fn := sum / float64(kBlocks)

	profile := universalProfiles[l]
	c := 0.7 - 0.8/float64(l) + (4.0+32.0/float64(l))*math.Pow(float64(kBlocks), -3.0/float64(l))/15.0
	sigma := c * math.Sqrt(profile.variance/float64(kBlocks))

	stat := math.Abs(fn-profile.expectedValue) / (math.Sqrt2 * sigma)
	p := math.Erfc(stat)

	calcs := []sts.Calculation{
		intCalc("blockLength", int64(l), "bits"),
		intCalc("initializationBlocks", int64(q), ""),
		intCalc("testBlocks", int64(kBlocks), ""),
		floatCalc("fn", fn, "", 6),
		floatCalc("expectedValue", profile.expectedValue, "", 7),
		floatCalc("sigma", sigma, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, nil, nil, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
