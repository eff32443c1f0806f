package kernels

import "github.com/nist-sts/sts-suite/sts"

// longestRunProfile is the fixed (M, K, N, boundaries, pi) table SP
// 800-22 §2.4 specifies for each supported bitstream length band.
type longestRunProfile struct {
	blockLength int
	k           int
	numBlocks   int
	// classBounds[i] is the inclusive upper bound of bin i for i <
	// len(classBounds); runs longer than the last bound fall in the
	// final bin. Bin 0 additionally absorbs every run <= classBounds[0].
	classBounds []int
	pi          []float64
}

var longestRunProfiles = []longestRunProfile{
	{blockLength: 8, k: 3, numBlocks: 16, classBounds: []int{1, 2, 3}, pi: []float64{0.2148, 0.3672, 0.2305, 0.1875}},
	{blockLength: 128, k: 5, numBlocks: 49, classBounds: []int{4, 5, 6, 7, 8}, pi: []float64{0.1174, 0.2430, 0.2493, 0.1752, 0.1027, 0.1124}},
	{blockLength: 10000, k: 6, numBlocks: 75, classBounds: []int{10, 11, 12, 13, 14, 15}, pi: []float64{0.0882, 0.2092, 0.2483, 0.1933, 0.1208, 0.0675, 0.0727}},
}

// selectLongestRunProfile picks the SP 800-22 §2.4.2 band for bitstream
// length n: M=8 for n in [128,6272), M=128 for n in [6272,750000), M=10000
// for n >= 750000.
func selectLongestRunProfile(n int) (*longestRunProfile, bool) {
	switch {
	case n < 128:
		return nil, false
	case n < 6272:
		return &longestRunProfiles[0], true
	case n < 750000:
		return &longestRunProfiles[1], true
	default:
		return &longestRunProfiles[2], true
	}
}

func (p *longestRunProfile) classify(runLength int) int {
	for i, bound := range p.classBounds {
		if runLength <= bound {
			if i == 0 {
				return 0
			}
			return i
		}
	}
	return len(p.classBounds)
}

// LongestRun implements the Test for the Longest Run of Ones in a Block
// (spec.md §4.4.4).
type LongestRun struct {
	singleConfigBase
}

func newLongestRun() sts.Kernel { return &LongestRun{} }

func (k *LongestRun) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Longest Run of Ones",
		Suite:       "NIST STS",
		Description: "Determines whether the longest run of ones within M-bit blocks matches what is expected under randomness.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.4"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *LongestRun) ParameterInfos() []sts.ParameterInfo { return nil }

func (k *LongestRun) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	if _, ok := selectLongestRunProfile(common.BitstreamLength); !ok {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d is below the minimum of 128 required by Longest Run of Ones", common.BitstreamLength)
	}
	return common.BitstreamLength / 8, nil
}

func (k *LongestRun) Execute(bitstream *sts.Bitstream) error {
	profile, _ := selectLongestRunProfile(len(bitstream.Bits))
	m := profile.blockLength
	counts := make([]int, len(profile.pi))

	for b := 0; b < profile.numBlocks; b++ {
		longest, current := 0, 0
		for j := 0; j < m; j++ {
			if bitstream.Bits[b*m+j] != 0 {
				current++
				if current > longest {
					longest = current
				}
			} else {
				current = 0
			}
		}
		counts[profile.classify(longest)]++
	}

	chi2 := 0.0
	for i, pi := range profile.pi {
		expected := float64(profile.numBlocks) * pi
		d := float64(counts[i]) - expected
		chi2 += d * d / expected
	}
	p, domainFailed := igamcOrZero(float64(profile.k)/2.0, chi2/2.0)

	var extra []sts.Criterion
	if domainFailed {
		extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}

	entries := make([]sts.ValueSetEntry, len(counts))
	for i, c := range counts {
		entries[i] = sts.ValueSetEntry{Key: classLabel(profile, i), Value: itoa(c)}
	}

	calcs := []sts.Calculation{
		intCalc("blockLength", int64(m), "bits"),
		floatCalc("chi_squared", chi2, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, []sts.ValueSet{{Label: "longest run class frequencies", Entries: entries}}, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}

func classLabel(p *longestRunProfile, class int) string {
	if class == 0 {
		return "<=" + itoa(p.classBounds[0])
	}
	if class == len(p.classBounds) {
		return ">" + itoa(p.classBounds[len(p.classBounds)-1])
	}
	return itoa(p.classBounds[class-1]+1) + ".." + itoa(p.classBounds[class])
}
