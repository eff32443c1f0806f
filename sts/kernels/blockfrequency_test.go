package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nist-sts/sts-suite/sts"
)

// TestBlockFrequencyAppendixBVector reuses the SP 800-22 Appendix B
// 100-bit string at block length M=10 (§2.2.8 worked example).
func TestBlockFrequencyAppendixBVector(t *testing.T) {
	bits := bitsFromString(appendixBString)
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: len(bits), SignificanceLevel: 0.01}
	params := &sts.ParameterSet{TestName: "Block Frequency", Entries: []sts.ParameterEntry{
		{Name: "blockLength", Type: sts.TypeInt64, Value: sts.Value{Type: sts.TypeInt64, I: 10}},
	}}
	report, err := runSingleConfig(newBlockFrequency, common, params, bits)
	require.NoError(t, err)

	result := report.Configuration(1).Tests[0]
	assert.InDelta(t, 0.706438, result.PValue, 1e-4)
}

func TestBlockFrequencyRejectsBlockLongerThanBitstream(t *testing.T) {
	common := sts.CommonParameters{BitstreamCount: 1, BitstreamLength: 64, SignificanceLevel: 0.01}
	params := &sts.ParameterSet{TestName: "Block Frequency", Entries: []sts.ParameterEntry{
		{Name: "blockLength", Type: sts.TypeInt64, Value: sts.Value{Type: sts.TypeInt64, I: 128}},
	}}
	kernel := newBlockFrequency()
	_, err := kernel.Init(common, params)
	require.Error(t, err)
	assert.Equal(t, sts.InvalidParameter, sts.KindOf(err))
}
