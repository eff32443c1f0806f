// Idiomatic entrypoint for the Cobra CLI, which delegates handling to the
// root command in cmd/root.go.

package main

import (
	"github.com/nist-sts/sts-suite/cmd"
	_ "github.com/nist-sts/sts-suite/sts/kernels"
)

func main() {
	cmd.Execute()
}
