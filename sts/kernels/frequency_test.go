package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nist-sts/sts-suite/sts"
)

// appendixBString is the SP 800-22 Appendix B 100-bit example reused by
// the Frequency, Runs, and DFT reference-vector tests (spec.md §8
// scenarios 1, 2, 5).
const appendixBString = "1100100100001111110110101010001000100001011010001100001000110100110001001100011001100010100010111000"

func TestFrequencyAppendixBVector(t *testing.T) {
	bits := bitsFromString(appendixBString)
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: len(bits), SignificanceLevel: 0.01}
	report, err := runSingleConfig(newFrequency, common, emptyParams("Frequency"), bits)
	require.NoError(t, err)

	cfg := report.Configuration(1)
	require.Len(t, cfg.Tests, 1)
	assert.InDelta(t, 0.109599, cfg.Tests[0].PValue, 1e-4)
}

func TestFrequencyAllOnesFails(t *testing.T) {
	bits := make([]byte, 64)
	for i := range bits {
		bits[i] = 1
	}
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: 64, SignificanceLevel: 0.01}
	report, err := runSingleConfig(newFrequency, common, emptyParams("Frequency"), bits)
	require.NoError(t, err)

	result := report.Configuration(1).Tests[0]
	assert.InDelta(t, 0.0, result.PValue, 1e-9)
	assert.False(t, result.Passed)
}
