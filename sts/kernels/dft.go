package kernels

import (
	"math"

	"github.com/nist-sts/sts-suite/sts"
	"github.com/nist-sts/sts-suite/sts/fft"
)

// DFT implements the Discrete Fourier Transform (Spectral) Test (spec.md
// §4.4.6). It supports the optional multi-threaded execution mode spec.md
// §5 describes: a configurable thread count queues bitstreams into a
// join-all worker pool and drains results in submission order once the
// pool fills.
type DFT struct {
	singleConfigBase
	pool *sts.Pool
}

func newDFT() sts.Kernel { return &DFT{} }

func (k *DFT) TestInfo() sts.TestInfo {
	return sts.TestInfo{
		Name:        "Discrete Fourier Transform",
		Suite:       "NIST STS",
		Description: "Detects periodic features (deviations from uniformity) in the bitstream's frequency spectrum.",
		References:  []string{"NIST SP 800-22 Rev 1a §2.6"},
		Complexity:  "O(n^2) per bitstream (see sts/fft package doc)",
		Version:     "1.0",
	}
}

func (k *DFT) ParameterInfos() []sts.ParameterInfo {
	min := sts.Value{Type: sts.TypeInt64, I: 1}
	max := sts.Value{Type: sts.TypeInt64, I: 128}
	return []sts.ParameterInfo{
		{Name: "threadCount", Type: sts.TypeInt64, Default: sts.Value{Type: sts.TypeInt64, I: 1}, Min: &min, Max: &max},
	}
}

func (k *DFT) Init(common sts.CommonParameters, params *sts.ParameterSet) (int, error) {
	k.common = common
	threadCount := int(params.Int64("threadCount", 1))
	if threadCount < 1 || threadCount > 128 {
		return 0, sts.NewError(sts.InvalidParameter, "threadCount %d out of range [1,128]", threadCount)
	}
	k.pool = sts.NewPool(threadCount, k.runOne)
	return common.BitstreamLength / 8, nil
}

// runOne computes the DFT statistic for a single bitstream; it touches no
// shared state, satisfying the disjoint-per-slot requirement of spec.md §5.
func (k *DFT) runOne(bitstream *sts.Bitstream) ([]sts.TestResult, error) {
	n := len(bitstream.Bits)
	x := make([]float64, n+1) // +1: padding slot, see sts/fft package doc
	for i, bit := range bitstream.Bits {
		if bit != 0 {
			x[i] = 1.0
		} else {
			x[i] = -1.0
		}
	}

	table := fft.NewTable(n)
	table.Forward(x)

	magnitudes := make([]float64, n/2)
	magnitudes[0] = math.Abs(x[0])
	for i := 1; i < n/2; i++ {
		re, im := x[2*i-1], x[2*i]
		magnitudes[i] = math.Sqrt(re*re + im*im)
	}

	threshold := math.Sqrt(float64(n) * math.Log(1.0/0.05))
	n0 := 0.95 * float64(n) / 2.0
	n1 := 0
	for _, m := range magnitudes {
		if m < threshold {
			n1++
		}
	}
	d := (float64(n1) - n0) / math.Sqrt(float64(n)*0.95*0.05/4.0)
	p := math.Erfc(math.Abs(d) / math.Sqrt2)

	calcs := []sts.Calculation{
		floatCalc("threshold", threshold, "", 6),
		floatCalc("n0", n0, "", 6),
		intCalc("n1", int64(n1), ""),
		floatCalc("d", d, "", 6),
	}
	result := buildResult(1, bitstream.ID, calcs, nil, nil, p, k.common.SignificanceLevel)
	return []sts.TestResult{result}, nil
}

func (k *DFT) Execute(bitstream *sts.Bitstream) error {
	groups, bitstreams, err := k.pool.Submit(bitstream)
	if err != nil {
		return err
	}
	return k.commitGroups(groups, bitstreams)
}

func (k *DFT) commitGroups(groups [][]sts.TestResult, bitstreams []*sts.Bitstream) error {
	for i, g := range groups {
		if err := k.report.Commit(bitstreams[i], g); err != nil {
			return err
		}
	}
	return nil
}

func (k *DFT) Finalize(totalBitstreams int) error {
	groups, bitstreams, err := k.pool.Flush()
	if err != nil {
		return err
	}
	return k.commitGroups(groups, bitstreams)
}
