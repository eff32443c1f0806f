package kernels

import "github.com/nist-sts/sts-suite/sts"

// init wires every kernel constructor into the shared registry using the
// kernel's own TestInfo().Name as its lookup key, mirroring the teacher's
// init()-time registration of concrete latency/KV implementations into
// sim's core registries without an import cycle back into sim itself.
func init() {
	sts.Register("Frequency", newFrequency)
	sts.Register("Block Frequency", newBlockFrequency)
	sts.Register("Runs", newRuns)
	sts.Register("Longest Run of Ones", newLongestRun)
	sts.Register("Binary Matrix Rank", newBinaryMatrixRank)
	sts.Register("Discrete Fourier Transform", newDFT)
	sts.Register("Non-overlapping Template Matching", newNonOverlappingTemplate)
	sts.Register("Overlapping Template Matching", newOverlappingTemplate)
	sts.Register("Universal", newUniversal)
	sts.Register("Linear Complexity", newLinearComplexity)
	sts.Register("Serial", newSerial)
	sts.Register("Approximate Entropy", newApproximateEntropy)
	sts.Register("Cumulative Sums", newCumulativeSums)
	sts.Register("Random Excursions", newRandomExcursions)
	sts.Register("Random Excursions Variant", newRandomExcursionsVariant)
}
