package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nist-sts/sts-suite/sts"
)

var paramsetSetName string

var paramsetCmd = &cobra.Command{
	Use:   "paramset <kernel name>",
	Short: "Print the default Parameter JSON for a kernel to stdout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		kernel, err := sts.New(name)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		infoKernel, ok := kernel.(sts.Info)
		var infos []sts.ParameterInfo
		if ok {
			infos = infoKernel.ParameterInfos()
		}
		set := sts.DefaultParameterSet(name, paramsetSetName, infos)
		out, err := set.MarshalJSONPretty()
		if err != nil {
			logrus.Fatalf("rendering default parameter set: %v", err)
		}
		fmt.Println(string(out))
	},
}

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List every registered kernel name",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := yaml.Marshal(sts.ValidKernelNames())
		if err != nil {
			logrus.Fatalf("listing kernels: %v", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	paramsetCmd.Flags().StringVar(&paramsetSetName, "set-name", "default", "Name recorded in the parameter set's \"parameter set name\" field")

	rootCmd.AddCommand(paramsetCmd)
	rootCmd.AddCommand(kernelsCmd)
}
