package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
	"github.com/nist-sts/sts-suite/sts/numeric"
)

// overlappingClassPr evaluates the NIST reference Pr(u, eta) term: the
// Poisson-approximation probability that a window contributes exactly u
// overlapping template matches, given eta = lambda/2. Expressed via lgam
// so it stays numerically stable for the large factorials Pr's defining
// sum produces.
func overlappingClassPr(u int, eta float64) float64 {
	if u == 0 {
		return math.Exp(-eta)
	}
	sum := 0.0
	for l := 1; l <= u; l++ {
		exponent := -eta - float64(u)*math.Ln2 + float64(l)*math.Log(eta) -
			numeric.Lgam(float64(l+1)) + numeric.Lgam(float64(u)) -
			numeric.Lgam(float64(l)) - numeric.Lgam(float64(u-l+1))
		sum += math.Exp(exponent)
	}
	return sum
}

// overlappingClassProbabilities computes the 6-class histogram
// probabilities {Pr(0,eta), ..., Pr(4,eta), 1-sum} for the given eta,
// re-derived from the actual (M,m) operating point rather than pinned
// to the test's default parameters.
func overlappingClassProbabilities(eta float64) []float64 {
	pi := make([]float64, 6)
	sum := 0.0
	for i := 0; i < 5; i++ {
		pi[i] = overlappingClassPr(i, eta)
		sum += pi[i]
	}
	pi[5] = 1.0 - sum
	return pi
}

// OverlappingTemplate implements the Overlapping Template Matching Test
// (spec.md §4.4.8): counts overlapping occurrences of a fixed all-ones
// template of length m within each of N non-overlapping M-bit windows,
// then chi-squared tests the resulting 6-class histogram against class
// probabilities computed from the configured M/m via the lambda/eta
// recurrence.
type OverlappingTemplate struct {
	singleConfigBase
	templateLen int
	windowLen   int
}

func newOverlappingTemplate() sts.Kernel { return &OverlappingTemplate{} }

func (k *OverlappingTemplate) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Overlapping Template Matching",
		Suite:       "NIST STS",
		Description: "Counts overlapping occurrences of an all-ones template within fixed-length windows and compares the resulting class histogram against its theoretical distribution.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.8"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *OverlappingTemplate) ParameterInfos() []sts.ParameterInfo {
	minM := sts.Value{Type: sts.TypeInt64, I: 2}
	minW := sts.Value{Type: sts.TypeInt64, I: 8}
	return []sts.ParameterInfo{
		{Name: "templateLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 9}, Min: &minM},
		{Name: "windowLength", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 1032}, Min: &minW},
	}
}

func (k *OverlappingTemplate) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	k.templateLen = int(params.Int64("templateLength", 9))
	k.windowLen = int(params.Int64("windowLength", 1032))
	if k.templateLen < 2 {
		return 0, sts.NewError(sts.InvalidParameter, "templateLength must be >= 2, got %d", k.templateLen)
	}
	if k.windowLen <= k.templateLen {
		return 0, sts.NewError(sts.InvalidParameter, "windowLength %d must exceed templateLength %d", k.windowLen, k.templateLen)
	}
	numWindows := floorInt(common.BitstreamLength, k.windowLen)
	if numWindows < 1 {
		return 0, sts.NewError(sts.InvalidParameter, "bitstreamLength %d yields zero windows of length %d", common.BitstreamLength, k.windowLen)
	}
	return common.BitstreamLength / 8, nil
}

func countOverlappingOnesRun(window []byte, m int) int {
	count := 0
	run := 0
	for _, b := range window {
		if b != 0 {
			run++
			if run >= m {
				count++
			}
		} else {
			run = 0
		}
	}
	return count
}

func (k *OverlappingTemplate) Execute(bitstream *sts.Bitstream) error {
	numWindows := floorInt(len(bitstream.Bits), k.windowLen)
	lambda := float64(k.windowLen-k.templateLen+1) / math.Pow(2, float64(k.templateLen))
	eta := lambda / 2.0
	pi := overlappingClassProbabilities(eta)

	classes := make([]int, len(pi))
	lastClass := len(classes) - 1
	for w := 0; w < numWindows; w++ {
		window := bitstream.Bits[w*k.windowLen : (w+1)*k.windowLen]
		matches := countOverlappingOnesRun(window, k.templateLen)
		if matches > lastClass {
			matches = lastClass
		}
		classes[matches]++
	}

	chi2 := 0.0
	for i, count := range classes {
		expected := float64(numWindows) * pi[i]
		d := float64(count) - expected
		chi2 += d * d / expected
	}
	p, domainFailed := igamcOrZero(float64(lastClass)/2.0, chi2/2.0)

	var extra []sts.Criterion
	if domainFailed {
		extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
	}

	entries := make([]sts.ValueSetEntry, len(classes))
	for i, c := range classes {
		label := itoa(i)
		if i == lastClass {
			label = ">=" + itoa(lastClass)
		}
		entries[i] = sts.ValueSetEntry{Key: label, Value: itoa(c)}
	}

	calcs := []sts.Calculation{
		floatCalc("lambda", lambda, "", 6),
		floatCalc("eta", eta, "", 6),
		floatCalc("chi_squared", chi2, "", 6),
		intCalc("numWindows", int64(numWindows), ""),
	}
	result := buildResult(1, bitstream.ID, calcs, extra, []sts.ValueSet{{Label: "match class frequencies", Entries: entries}}, p, k.common.SignificanceLevel)
	return k.report.Commit(bitstream, []sts.TestResult{result})
}
