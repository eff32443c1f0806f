package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nist-sts/sts-suite/sts"
)

var (
	runConfigPath string
	runInputPath  string
	runOutputDir  string
	runConductor  string
	runNotes      string
	runEntropy    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every kernel named in a run configuration against an input bitstream file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := sts.LoadRunConfig(runConfigPath)
		if err != nil {
			logrus.Fatalf("loading run config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid run config: %v", err)
		}
		if err := os.MkdirAll(runOutputDir, 0o755); err != nil {
			logrus.Fatalf("creating output directory: %v", err)
		}

		common := cfg.Common()
		logrus.Infof("run config loaded: %d kernel(s), %d bitstreams of %d bits, alpha=%v",
			len(cfg.Kernels), common.BitstreamCount, common.BitstreamLength, common.SignificanceLevel)

		for _, kc := range cfg.Kernels {
			if err := runOneKernel(kc, common); err != nil {
				logrus.Fatalf("kernel %q: %v", kc.Name, err)
			}
		}
		logrus.Info("run complete.")
	},
}

func runOneKernel(kc sts.KernelConfig, common sts.CommonParameters) error {
	kernel, err := sts.New(kc.Name)
	if err != nil {
		return err
	}
	infoKernel, _ := kernel.(sts.Info)
	var infos []sts.ParameterInfo
	if infoKernel != nil {
		infos = infoKernel.ParameterInfos()
	}

	var params *sts.ParameterSet
	if kc.ParameterFile != "" {
		raw, err := os.ReadFile(kc.ParameterFile)
		if err != nil {
			return sts.Wrap(sts.IOError, err, "reading parameter file %s", kc.ParameterFile)
		}
		params, err = sts.ParseParameterJSON(raw, kc.Name, infos)
		if err != nil {
			return err
		}
	} else {
		params = sts.DefaultParameterSet(kc.Name, "default", infos)
	}

	header := sts.ReportHeader{
		TestName:      kc.Name,
		Suite:         "NIST STS",
		Conductor:     runConductor,
		Notes:         runNotes,
		Level:         common.SignificanceLevel,
		ProgramName:   "sts-suite",
		ProgramVer:    "1.0",
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		EntropySource: runEntropy,
		StartTime:     time.Now(),
	}

	driver, err := sts.NewDriver(common, kernel, params, header)
	if err != nil {
		return err
	}

	f, err := os.Open(runInputPath)
	if err != nil {
		return sts.Wrap(sts.IOError, err, "opening input bitstream file %s", runInputPath)
	}
	defer f.Close()
	source := sts.NewPackedByteSource(f)

	report, err := driver.Run(source)
	if err != nil {
		return err
	}

	out, err := report.MarshalJSON()
	if err != nil {
		return sts.Wrap(sts.IOError, err, "serializing report")
	}
	outPath := filepath.Join(runOutputDir, reportFileName(kc.Name))
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return sts.Wrap(sts.IOError, err, "writing report %s", outPath)
	}
	logrus.Infof("kernel %q: report written to %s", kc.Name, outPath)
	return nil
}

func reportFileName(kernelName string) string {
	out := make([]byte, 0, len(kernelName)+5)
	for _, r := range kernelName {
		if r == ' ' || r == '/' {
			out = append(out, '_')
			continue
		}
		out = append(out, byte(r))
	}
	return fmt.Sprintf("%s.json", out)
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to the run configuration YAML file")
	runCmd.Flags().StringVar(&runInputPath, "input", "", "Path to the input bitstream file (MSB-first packed bytes)")
	runCmd.Flags().StringVar(&runOutputDir, "output", "./reports", "Directory to write one report JSON file per kernel")
	runCmd.Flags().StringVar(&runConductor, "conductor", "", "Conductor name recorded in each report header")
	runCmd.Flags().StringVar(&runNotes, "notes", "", "Free-text notes recorded in each report header")
	runCmd.Flags().StringVar(&runEntropy, "entropy-source", "", "Entropy source description recorded in each report header")
	_ = runCmd.MarkFlagRequired("config")
	_ = runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)
}
