package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nist-sts/sts-suite/sts"
)

func TestCumulativeSumsAppendixBVector(t *testing.T) {
	bits := bitsFromString(appendixBString)
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: len(bits), SignificanceLevel: 0.01}
	report, err := runSingleConfig(newCumulativeSums, common, emptyParams("Cumulative Sums"), bits)
	require.NoError(t, err)

	forward := report.Configuration(1).Tests[0]
	reverse := report.Configuration(2).Tests[0]
	assert.InDelta(t, 0.219194, forward.PValue, 1e-4)
	assert.InDelta(t, 0.114866, reverse.PValue, 1e-4)
}
