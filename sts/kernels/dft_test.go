package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nist-sts/sts-suite/sts"
)

func TestDFTAppendixBVector(t *testing.T) {
	bits := bitsFromString(appendixBString)
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: len(bits), SignificanceLevel: 0.01}
	report, err := runSingleConfig(newDFT, common, emptyParams("Discrete Fourier Transform"), bits)
	require.NoError(t, err)

	result := report.Configuration(1).Tests[0]
	assert.InDelta(t, 0.468160, result.PValue, 1e-4)
}

func TestDFTRejectsThreadCountOutOfRange(t *testing.T) {
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: 128, SignificanceLevel: 0.01}
	params := &sts.ParameterSet{TestName: "Discrete Fourier Transform", Entries: []sts.ParameterEntry{
		{Name: "threadCount", Type: sts.TypeInt64, Value: sts.Value{Type: sts.TypeInt64, I: 0}},
	}}
	kernel := newDFT()
	_, err := kernel.Init(common, params)
	require.Error(t, err)
	assert.Equal(t, sts.InvalidParameter, sts.KindOf(err))
}
