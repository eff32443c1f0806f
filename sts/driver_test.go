package sts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPKernel is a minimal single-configuration Kernel stub that always
// reports the same P-value, used to exercise Driver without depending on
// any real statistical kernel.
type fixedPKernel struct {
	report *Report
	p      float64
	alpha  float64
	fail   bool // if set, Execute returns a NumericDomain error instead
}

func (k *fixedPKernel) Init(common CommonParameters, params *ParameterSet) (int, error) {
	k.alpha = common.SignificanceLevel
	return common.BitstreamLength / 8, nil
}

func (k *fixedPKernel) ConfigurationCount() int { return 1 }

func (k *fixedPKernel) BindReport(report *Report) {
	k.report = report
	report.EnsureConfiguration(1, ConfigurationAttributes{})
}

func (k *fixedPKernel) Execute(bitstream *Bitstream) error {
	if k.fail {
		return NewError(NumericDomain, "synthetic domain failure")
	}
	criteria := []Criterion{
		{Description: "p-value > 0.0", Passed: k.p > 0.0},
		{Description: "p-value <= 1.0", Passed: k.p <= 1.0},
		{Description: "p-value >= alpha", Passed: k.p >= k.alpha},
	}
	result := TestResult{ConfigurationID: 1, TestID: bitstream.ID, PValue: k.p, Passed: PassedFromCriteria(criteria), Criteria: criteria}
	return k.report.Commit(bitstream, []TestResult{result})
}

func (k *fixedPKernel) Finalize(totalBitstreams int) error { return nil }

func makeBuffers(n, count int) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		buf := make([]byte, n)
		for j := range buf {
			if j%2 == 0 {
				buf[j] = 1
			}
		}
		out[i] = buf
	}
	return out
}

func TestDriverRunHappyPath(t *testing.T) {
	common := CommonParameters{BitstreamCount: 3, BitstreamLength: 16, SignificanceLevel: 0.01}
	kernel := &fixedPKernel{p: 0.5}
	params := &ParameterSet{TestName: "Fixed"}
	driver, err := NewDriver(common, kernel, params, ReportHeader{TestName: "Fixed"})
	require.NoError(t, err)

	source := NewMemorySource(makeBuffers(16, 3))
	report, err := driver.Run(source)
	require.NoError(t, err)
	require.Len(t, report.Configurations, 1)
	assert.Len(t, report.Configuration(1).Tests, 3)
}

func TestDriverRunExhaustedSourceIsIOError(t *testing.T) {
	common := CommonParameters{BitstreamCount: 5, BitstreamLength: 16, SignificanceLevel: 0.01}
	kernel := &fixedPKernel{p: 0.5}
	params := &ParameterSet{TestName: "Fixed"}
	driver, err := NewDriver(common, kernel, params, ReportHeader{TestName: "Fixed"})
	require.NoError(t, err)

	source := NewMemorySource(makeBuffers(16, 2)) // fewer than requested
	_, err = driver.Run(source)
	require.Error(t, err)
	assert.Equal(t, IOError, KindOf(err))
}

func TestDriverRunContinuesPastNumericDomainFailure(t *testing.T) {
	common := CommonParameters{BitstreamCount: 2, BitstreamLength: 16, SignificanceLevel: 0.01}
	kernel := &fixedPKernel{p: 0.5, fail: true}
	params := &ParameterSet{TestName: "Fixed"}
	driver, err := NewDriver(common, kernel, params, ReportHeader{TestName: "Fixed"})
	require.NoError(t, err)

	source := NewMemorySource(makeBuffers(16, 2))
	report, err := driver.Run(source)
	require.NoError(t, err)
	// NumericDomain is continuable: the run completes, but the kernel
	// never actually committed a result since Execute always failed.
	assert.Empty(t, report.Configuration(1).Tests)
}

func TestDriverRejectsMismatchedBufferSize(t *testing.T) {
	common := CommonParameters{BitstreamCount: 1, BitstreamLength: 16, SignificanceLevel: 0.01}
	kernel := &wrongBufferKernel{}
	params := &ParameterSet{TestName: "Wrong"}
	_, err := NewDriver(common, kernel, params, ReportHeader{TestName: "Wrong"})
	require.Error(t, err)
	assert.Equal(t, InvalidParameter, KindOf(err))
}

type wrongBufferKernel struct{ fixedPKernel }

func (k *wrongBufferKernel) Init(common CommonParameters, params *ParameterSet) (int, error) {
	return common.BitstreamLength, nil // wrong: should be /8
}

func TestDriverRejectsInvalidCommonParameters(t *testing.T) {
	common := CommonParameters{BitstreamCount: 0, BitstreamLength: 16, SignificanceLevel: 0.01}
	kernel := &fixedPKernel{p: 0.5}
	params := &ParameterSet{TestName: "Fixed"}
	_, err := NewDriver(common, kernel, params, ReportHeader{TestName: "Fixed"})
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, InvalidParameter, se.Kind)
}
