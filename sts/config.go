package sts

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig bundles CommonParameters with the list of kernels to run in
// one suite invocation, generalizing the teacher's PolicyBundle (one
// YAML file selecting named policies) to "which kernels, with which
// parameter sets, at what significance level" (SPEC_FULL.md §10.3).
type RunConfig struct {
	BitstreamCount    int             `yaml:"bitstream_count"`
	BitstreamLength   int             `yaml:"bitstream_length"`
	SignificanceLevel float64         `yaml:"significance_level"`
	Kernels           []KernelConfig `yaml:"kernels"`
}

// KernelConfig selects one kernel and, optionally, a path to a Parameter
// JSON file overriding its defaults.
type KernelConfig struct {
	Name          string `yaml:"name"`
	ParameterFile string `yaml:"parameter_file,omitempty"`
}

// LoadRunConfig reads and strict-parses a YAML run configuration file,
// mirroring sim/bundle.go's LoadPolicyBundle: unrecognized keys (typos)
// are rejected via KnownFields(true).
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(IOError, err, "reading run config %s", path)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, Wrap(InvalidParameter, err, "parsing run config %s", path)
	}
	return &cfg, nil
}

// Validate checks CommonParameters invariants and that every named kernel
// is registered.
func (c *RunConfig) Validate() error {
	common := CommonParameters{
		BitstreamCount:    c.BitstreamCount,
		BitstreamLength:   c.BitstreamLength,
		SignificanceLevel: c.SignificanceLevel,
	}
	if err := common.Validate(); err != nil {
		return err
	}
	if len(c.Kernels) == 0 {
		return NewError(InvalidParameter, "run config names no kernels")
	}
	for _, k := range c.Kernels {
		if !IsValidKernelName(k.Name) {
			return NewError(InvalidParameter, "unknown kernel %q; valid kernels: %s", k.Name, fmt.Sprint(ValidKernelNames()))
		}
	}
	return nil
}

// Common extracts this config's CommonParameters.
func (c *RunConfig) Common() CommonParameters {
	return CommonParameters{
		BitstreamCount:    c.BitstreamCount,
		BitstreamLength:   c.BitstreamLength,
		SignificanceLevel: c.SignificanceLevel,
	}
}
