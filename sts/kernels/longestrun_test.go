package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nist-sts/sts-suite/sts"
)

const longestRunAppendixBString = "11001100000101010110110001001100111000000000001001001101010100010001001111010110100000001101011111001100111001101101100010110010"

func TestLongestRunOfOnesAppendixBVector(t *testing.T) {
	bits := bitsFromString(longestRunAppendixBString)
	require.Len(t, bits, 128)
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: len(bits), SignificanceLevel: 0.01}
	report, err := runSingleConfig(newLongestRun, common, emptyParams("Longest Run of Ones"), bits)
	require.NoError(t, err)

	result := report.Configuration(1).Tests[0]
	assert.InDelta(t, 0.180609, result.PValue, 1e-4)
}

func TestLongestRunOfOnesRejectsShortBitstream(t *testing.T) {
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: 64, SignificanceLevel: 0.01}
	kernel := newLongestRun()
	_, err := kernel.Init(common, emptyParams("Longest Run of Ones"))
	require.Error(t, err)
	assert.Equal(t, sts.InvalidParameter, sts.KindOf(err))
}
