package sts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunConfigValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	const doc = `
bitstream_count: 10
bitstream_length: 128
significance_level: 0.01
kernels:
  - name: Frequency
  - name: Runs
    parameter_file: params.json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BitstreamCount)
	assert.Equal(t, 128, cfg.BitstreamLength)
	assert.Equal(t, 0.01, cfg.SignificanceLevel)
	require.Len(t, cfg.Kernels, 2)
	assert.Equal(t, "Frequency", cfg.Kernels[0].Name)
	assert.Equal(t, "params.json", cfg.Kernels[1].ParameterFile)
}

func TestLoadRunConfigRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	const doc = `
bitstream_count: 10
bitstream_length: 128
significance_level: 0.01
typo_field: true
kernels:
  - name: Frequency
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadRunConfig(path)
	require.Error(t, err)
	assert.Equal(t, InvalidParameter, KindOf(err))
}

func TestRunConfigValidateRejectsUnknownKernel(t *testing.T) {
	cfg := &RunConfig{
		BitstreamCount: 1, BitstreamLength: 128, SignificanceLevel: 0.01,
		Kernels: []KernelConfig{{Name: "Not A Real Kernel"}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, InvalidParameter, KindOf(err))
}

func TestRunConfigValidateRejectsBadCommonParameters(t *testing.T) {
	cfg := &RunConfig{
		BitstreamCount: 0, BitstreamLength: 128, SignificanceLevel: 0.01,
		Kernels: []KernelConfig{{Name: "Frequency"}},
	}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestRunConfigValidateRejectsEmptyKernelList(t *testing.T) {
	cfg := &RunConfig{BitstreamCount: 1, BitstreamLength: 128, SignificanceLevel: 0.01}
	err := cfg.Validate()
	require.Error(t, err)
}
