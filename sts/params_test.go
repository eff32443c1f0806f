package sts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintInfo(name string, def uint64, min, max *uint64) ParameterInfo {
	info := ParameterInfo{Name: name, Type: TypeUint64, Default: Value{Type: TypeUint64, U: def}}
	if min != nil {
		v := Value{Type: TypeUint64, U: *min}
		info.Min = &v
	}
	if max != nil {
		v := Value{Type: TypeUint64, U: *max}
		info.Max = &v
	}
	return info
}

func TestDefaultParameterSetUsesDefaults(t *testing.T) {
	infos := []ParameterInfo{uintInfo("blockLength", 128, nil, nil)}
	set := DefaultParameterSet("Block Frequency", "default", infos)
	entry, ok := set.Get("blockLength")
	require.True(t, ok)
	assert.Equal(t, uint64(128), entry.Value.U)
}

func TestParseParameterJSONOverridesDefault(t *testing.T) {
	infos := []ParameterInfo{uintInfo("blockLength", 128, nil, nil)}
	raw := []byte(`{"parameter set":{"test name":"Block Frequency","parameter set name":"custom","parameters":[{"name":"blockLength","data type":"unsigned 64 bit integer","value":"20000"}]}}`)
	set, err := ParseParameterJSON(raw, "Block Frequency", infos)
	require.NoError(t, err)
	entry, ok := set.Get("blockLength")
	require.True(t, ok)
	assert.Equal(t, uint64(20000), entry.Value.U)
	assert.Equal(t, "custom", set.SetName)
}

func TestParseParameterJSONRejectsUnknownParameter(t *testing.T) {
	infos := []ParameterInfo{uintInfo("blockLength", 128, nil, nil)}
	raw := []byte(`{"parameter set":{"test name":"Block Frequency","parameter set name":"x","parameters":[{"name":"bogus","data type":"unsigned 64 bit integer","value":"1"}]}}`)
	_, err := ParseParameterJSON(raw, "Block Frequency", infos)
	require.Error(t, err)
	assert.Equal(t, InvalidParameter, KindOf(err))
}

func TestParseParameterJSONEnforcesRange(t *testing.T) {
	min := uint64(100)
	max := uint64(1000)
	infos := []ParameterInfo{uintInfo("blockLength", 128, &min, &max)}
	raw := []byte(`{"parameter set":{"test name":"Block Frequency","parameter set name":"x","parameters":[{"name":"blockLength","data type":"unsigned 64 bit integer","value":"5"}]}}`)
	_, err := ParseParameterJSON(raw, "Block Frequency", infos)
	require.Error(t, err)
	assert.Equal(t, InvalidParameter, KindOf(err))
}

func TestParameterSetRoundTripsThroughJSON(t *testing.T) {
	infos := []ParameterInfo{uintInfo("blockLength", 128, nil, nil)}
	set := DefaultParameterSet("Block Frequency", "default", infos)
	out, err := set.MarshalJSONPretty()
	require.NoError(t, err)

	reparsed, err := ParseParameterJSON(out, "Block Frequency", infos)
	require.NoError(t, err)
	entry, ok := reparsed.Get("blockLength")
	require.True(t, ok)
	assert.Equal(t, uint64(128), entry.Value.U)
}

func TestFormatValueFloat(t *testing.T) {
	v := Value{Type: TypeFloat64, F: 0.109599}
	assert.Equal(t, "0.109599", formatValue(v))
}

func TestFormatValueBool(t *testing.T) {
	assert.Equal(t, "true", formatValue(Value{Type: TypeBool, B: true}))
}
