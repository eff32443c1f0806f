package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
)

// excursionStates is the fixed x in {-4,-3,-2,-1,1,2,3,4} set spec.md
// §4.4.14 assigns one configuration each.
var excursionStates = []int{-4, -3, -2, -1, 1, 2, 3, 4}

// randomExcursionsPi is the SP 800-22 §2.14 table of P(state visited k
// times in a cycle | |x|) for k = 0..5, indexed by |x|-1.
var randomExcursionsPi = [][]float64{
	{0.5000, 0.25000, 0.12500, 0.06250, 0.03125, 0.03125},
	{0.7500, 0.06250, 0.04688, 0.03516, 0.02637, 0.07910},
	{0.8333, 0.02778, 0.02315, 0.01929, 0.01608, 0.08038},
	{0.8750, 0.01563, 0.01370, 0.01199, 0.01049, 0.07327},
}

// cyclesOf partitions the derived random walk (0-centered cumulative sum
// padded with a leading 0) into cycles: maximal runs between successive
// returns to 0. A closing 0 is appended only when the walk has not
// already returned to zero by its last step (S_{n-1} != 0); otherwise
// the walk's own natural return is the only closing boundary, since
// appending one unconditionally would manufacture a spurious [0,0] cycle
// that visits no state.
func cyclesOf(bits []byte) [][]int {
	walk := make([]int, 0, len(bits)+2)
	walk = append(walk, 0)
	z := 0
	for _, b := range bits {
		if b != 0 {
			z++
		} else {
			z--
		}
		walk = append(walk, z)
	}
	if z != 0 {
		walk = append(walk, 0)
	}

	var cycles [][]int
	start := 0
	for i := 1; i < len(walk); i++ {
		if walk[i] == 0 {
			cycles = append(cycles, walk[start:i+1])
			start = i
		}
	}
	return cycles
}

// RandomExcursions implements the Random Excursions Test (spec.md
// §4.4.14): for each of 8 excursion states, counts how many cycles visit
// that state exactly k times (k=0..5, collapsing k>=5) and chi-squared
// tests against the tabulated distribution.
type RandomExcursions struct {
	report *sts.Report
	common sts.CommonParameters
	pool   *sts.Pool
	bound  bool
}

func newRandomExcursions() sts.Kernel { return &RandomExcursions{} }

func (k *RandomExcursions) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Random Excursions",
		Suite:       "NIST STS",
		Description: "Counts the number of cycles of the derived random walk with exactly K visits to each of 8 states and compares against the expected distribution.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.14"},
		Complexity:  "O(n)",
		Version:     "1.0",
	}
}

func (k *RandomExcursions) ParameterInfos() []sts.ParameterInfo {
	min := sts.Value{Type: sts.TypeInt64, I: 1}
	max := sts.Value{Type: sts.TypeInt64, I: 128}
	return []sts.ParameterInfo{
		{Name: "threadCount", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 1}, Min: &min, Max: &max},
	}
}

func (k *RandomExcursions) ConfigurationCount() int { return len(excursionStates) }

func (k *RandomExcursions) BindReport(report *sts.Report) {
	if k.bound {
		return
	}
	k.report = report
	for i, x := range excursionStates {
		report.EnsureConfiguration(i+1, sts.ConfigurationAttributes{ExcursionState: x})
	}
	k.bound = true
}

func (k *RandomExcursions) Finalize(totalBitstreams int) error {
	groups, bitstreams, err := k.pool.Flush()
	if err != nil {
		return err
	}
	return k.commitGroups(groups, bitstreams)
}

func (k *RandomExcursions) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	threadCount := int(params.Int64("threadCount", 1))
	if threadCount < 1 || threadCount > 128 {
		return 0, sts.NewError(sts.InvalidParameter, "threadCount %d out of range [1,128]", threadCount)
	}
	k.pool = sts.NewPool(threadCount, k.runOne)
	return common.BitstreamLength / 8, nil
}

// runOne evaluates every excursion-state configuration for one bitstream;
// it touches no shared state, satisfying the disjoint-per-slot
// requirement spec.md §5 places on parallel kernel execution.
func (k *RandomExcursions) runOne(bitstream *sts.Bitstream) ([]sts.TestResult, error) {
	cycles := cyclesOf(bitstream.Bits)
	numCycles := len(cycles)

	// spec.md §4.4.14's rejection constraint: the cycle count must lie in
	// [max(500, 0.005*sqrt(n)), max(1000, n/100)] for the chi-squared
	// approximation to be reliable.
	minCycles := int(math.Max(0.005*math.Sqrt(float64(len(bitstream.Bits))), 500))
	insufficientCycles := numCycles < minCycles
	maxCycles := int(math.Max(float64(len(bitstream.Bits))/100.0, 1000))
	excessCycles := numCycles > maxCycles

	results := make([]sts.TestResult, len(excursionStates))
	for idx, x := range excursionStates {
		counts := make([]int, 6)
		for _, cycle := range cycles {
			visits := 0
			for _, v := range cycle {
				if v == x {
					visits++
				}
			}
			if visits > 5 {
				visits = 5
			}
			counts[visits]++
		}

		pi := randomExcursionsPi[absInt(x)-1]
		chi2 := 0.0
		for k := 0; k < 6; k++ {
			expected := float64(numCycles) * pi[k]
			d := float64(counts[k]) - expected
			chi2 += d * d / expected
		}
		p, domainFailed := igamcOrZero(2.5, chi2/2.0)

		var extra []sts.Criterion
		if insufficientCycles {
			extra = append(extra, sts.Criterion{Description: "cycle count meets the minimum required for the chi-squared approximation", Passed: false})
		}
		if excessCycles {
			extra = append(extra, sts.Criterion{Description: "cycle count does not exceed the maximum allowed for the chi-squared approximation", Passed: false})
		}
		if domainFailed {
			extra = append(extra, sts.Criterion{Description: "igamc evaluated without numeric domain error", Passed: false})
		}

		entries := make([]sts.ValueSetEntry, 6)
		for i, c := range counts {
			entries[i] = sts.ValueSetEntry{Key: "visits_" + itoa(i), Value: itoa(c)}
		}
		calcs := []sts.Calculation{
			intCalc("state", int64(x), ""),
			intCalc("numCycles", int64(numCycles), ""),
			floatCalc("chi_squared", chi2, "", 6),
		}
		results[idx] = buildResult(idx+1, bitstream.ID, calcs, extra, []sts.ValueSet{{Label: "visit count frequencies", Entries: entries}}, p, k.common.SignificanceLevel)
	}
	return results, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (k *RandomExcursions) Execute(bitstream *sts.Bitstream) error {
	groups, bitstreams, err := k.pool.Submit(bitstream)
	if err != nil {
		return err
	}
	return k.commitGroups(groups, bitstreams)
}

func (k *RandomExcursions) commitGroups(groups [][]sts.TestResult, bitstreams []*sts.Bitstream) error {
	for i, g := range groups {
		if err := k.report.Commit(bitstreams[i], g); err != nil {
			return err
		}
	}
	return nil
}
